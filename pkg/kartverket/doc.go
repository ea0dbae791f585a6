// Package kartverket implements queries to the Kartverket tide API
// (api.sehavniva.no) for a single location. Every update requests two
// documents: the rolling water level series ("all") and the tabulated high and
// low tides ("tab"). Each response is parsed into a Document, and the derived
// values a sensor needs (current level, next extreme, trend) are read from a
// Snapshot of the latest pair. Levels are in centimetres, times in UTC.
package kartverket
