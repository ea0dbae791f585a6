package kartverket

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Layouts seen in the time attribute of a waterlevel.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

// xmlTide mirrors a response. The root element is not checked by name.
type xmlTide struct {
	LocationData []xmlLocationData `xml:"locationdata"`
}

type xmlLocationData struct {
	Location     []xmlLocation `xml:"location"`
	RefLevelCode string        `xml:"reflevelcode"`
	Data         []xmlData     `xml:"data"`
}

type xmlLocation struct {
	Name      string `xml:"name,attr"`
	Code      string `xml:"code,attr"`
	Latitude  string `xml:"latitude,attr"`
	Longitude string `xml:"longitude,attr"`
	Delay     string `xml:"delay,attr"`
	Factor    string `xml:"factor,attr"`
	ObsName   string `xml:"obsname,attr"`
	ObsCode   string `xml:"obscode,attr"`
	Descr     string `xml:"descr,attr"`
}

type xmlData struct {
	Type        string          `xml:"type,attr"`
	Unit        string          `xml:"unit,attr"`
	WaterLevels []xmlWaterLevel `xml:"waterlevel"`
}

type xmlWaterLevel struct {
	Value string `xml:"value,attr"`
	Time  string `xml:"time,attr"`
	Flag  string `xml:"flag,attr"`
}

// Parse reads one tide API response. A response without exactly one
// locationdata and location element, or with a missing or malformed required
// attribute, fails as a whole with a *ParseError.
func Parse(r io.Reader) (*Document, error) {
	var raw xmlTide
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &ParseError{Path: "document", Err: err}
	}
	return raw.document()
}

// ParseBytes is Parse for an in-memory body.
func ParseBytes(body []byte) (*Document, error) {
	return Parse(bytes.NewReader(body))
}

func (t *xmlTide) document() (*Document, error) {
	switch n := len(t.LocationData); {
	case n == 0:
		return nil, &ParseError{Path: "locationdata", Err: ErrNoLocationData}
	case n > 1:
		return nil, &ParseError{Path: "locationdata", Err: fmt.Errorf("expected one element, found %d", n)}
	}
	ld := t.LocationData[0]

	switch n := len(ld.Location); {
	case n == 0:
		return nil, &ParseError{Path: "locationdata/location", Err: ErrNoLocation}
	case n > 1:
		return nil, &ParseError{Path: "locationdata/location", Err: fmt.Errorf("expected one element, found %d", n)}
	}

	loc, err := ld.Location[0].location()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Location:     loc,
		RefLevelCode: strings.TrimSpace(ld.RefLevelCode),
		Series:       make([]Series, len(ld.Data)),
	}
	for i, d := range ld.Data {
		s, err := d.series(fmt.Sprintf("locationdata/data[%d]", i))
		if err != nil {
			return nil, err
		}
		doc.Series[i] = s
	}
	return doc, nil
}

func (l *xmlLocation) location() (Location, error) {
	a := attrs{path: "locationdata/location"}
	loc := Location{
		Name:      a.str("name", l.Name, true),
		Code:      a.str("code", l.Code, false),
		Latitude:  a.number("latitude", l.Latitude, true),
		Longitude: a.number("longitude", l.Longitude, true),
		Delay:     a.integer("delay", l.Delay),
		Factor:    a.number("factor", l.Factor, false),
		ObsName:   a.str("obsname", l.ObsName, false),
		ObsCode:   a.str("obscode", l.ObsCode, false),
		Descr:     a.str("descr", l.Descr, false),
	}
	return loc, a.err
}

func (d *xmlData) series(path string) (Series, error) {
	a := attrs{path: path}
	s := Series{
		Type:        SeriesType(a.str("type", d.Type, true)),
		Unit:        a.str("unit", d.Unit, true),
		WaterLevels: make([]WaterLevel, len(d.WaterLevels)),
	}
	if a.err != nil {
		return Series{}, a.err
	}

	for i, wl := range d.WaterLevels {
		a := attrs{path: fmt.Sprintf("%s/waterlevel[%d]", path, i)}
		s.WaterLevels[i] = WaterLevel{
			Value: Level(a.number("value", wl.Value, true)),
			Time:  a.timestamp("time", wl.Time),
			Flag:  a.flag("flag", wl.Flag),
		}
		if a.err != nil {
			return Series{}, a.err
		}
	}
	return s, nil
}

// attrs converts attribute strings, keeping the first error.
type attrs struct {
	path string
	err  error
}

func (a *attrs) fail(name string, err error) {
	if a.err == nil {
		a.err = &ParseError{Path: a.path + "@" + name, Err: err}
	}
}

func (a *attrs) str(name, v string, required bool) string {
	if required && v == "" {
		a.fail(name, ErrMissingAttr)
	}
	return v
}

func (a *attrs) number(name, v string, required bool) float64 {
	if v == "" {
		if required {
			a.fail(name, ErrMissingAttr)
		}
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		a.fail(name, fmt.Errorf("%q not a float: %w", v, err))
	}
	return f
}

func (a *attrs) integer(name, v string) int {
	if v == "" {
		return 0
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		a.fail(name, fmt.Errorf("%q not an integer: %w", v, err))
	}
	return i
}

func (a *attrs) timestamp(name, v string) time.Time {
	if v == "" {
		a.fail(name, ErrMissingAttr)
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	a.fail(name, fmt.Errorf("%q not in format %q", v, time.RFC3339))
	return time.Time{}
}

func (a *attrs) flag(name, v string) Flag {
	f := Flag(v)
	if !f.Valid() {
		a.fail(name, fmt.Errorf("invalid flag %q", v))
	}
	return f
}
