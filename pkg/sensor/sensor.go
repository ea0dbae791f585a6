// Package sensor presents the tide client as a home automation sensor: a
// numeric state in centimetres, a set of named attributes, and an icon that
// follows the direction of the tide.
package sensor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spencer-p/tidesensor/pkg/kartverket"
	"github.com/spencer-p/tidesensor/pkg/metrics"
	"github.com/spencer-p/tidesensor/pkg/throttle"
	"github.com/spencer-p/tidesensor/pkg/timetricks"
)

const (
	Attribution  = "Data provided by Kartverket under NLOD"
	DefaultName  = "Kartverket Tides"
	Unit         = "cm"
	ScanInterval = 2 * time.Hour

	AttrAttribution    = "attribution"
	AttrNextHighTime   = "next_high_time"
	AttrNextHighLevel  = "next_high_level"
	AttrNextLowTime    = "next_low_time"
	AttrNextLowLevel   = "next_low_level"
	AttrIncreasingText = "increasing_text"
	attrWaterLevelFmt  = "waterlevel_#%d"

	IconEbb  = "mdi:waves-arrow-left"
	IconFlow = "mdi:waves-arrow-right"
)

// Source is the tide data a Sensor reads. *kartverket.Client implements it.
type Source interface {
	Update(ctx context.Context) error
	Snapshot() kartverket.Snapshot
}

type Config struct {
	Name string
	// UTC selects UTC clock times instead of Location for attributes.
	UTC bool
	// Location for local clock times. Nil means time.Local.
	Location *time.Location
	// ScanInterval is the minimum time between source updates.
	ScanInterval time.Duration
}

// Sensor renders the latest tide data of a Source.
type Sensor struct {
	name     string
	format   Format
	source   Source
	throttle *throttle.Throttle
}

func New(src Source, cfg Config) *Sensor {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = ScanInterval
	}
	return &Sensor{
		name:     cfg.Name,
		format:   Format{UTC: cfg.UTC, Location: cfg.Location},
		source:   src,
		throttle: throttle.New(throttleGap(cfg.ScanInterval)),
	}
}

// throttleGap leaves some slack below the scan interval so a scheduler
// firing slightly early still gets through.
func throttleGap(scan time.Duration) time.Duration {
	return scan - scan/20
}

func (s *Sensor) Name() string {
	return s.name
}

// Format returns the configured time format.
func (s *Sensor) Format() Format {
	return s.format
}

// Update refreshes the source unless it was refreshed within the scan
// interval.
func (s *Sensor) Update(ctx context.Context) error {
	ran, err := s.throttle.Do(func() error {
		return s.source.Update(ctx)
	})
	if !ran {
		return nil
	}
	if err != nil {
		log.Printf("Failed to update %s: %v", s.name, err)
	}

	snap := s.source.Snapshot()
	st := Render(s.name, snap, s.format)
	metrics.ObserveUpdate(snap.FetchedAt(), st.Value)
	if st.Available {
		log.Printf("Updated %s: %.1f%s, %s", s.name, *st.Value, st.Unit, st.Attributes[AttrIncreasingText])
	} else {
		log.Printf("Updated %s: no reading available", s.name)
	}
	return err
}

// State renders the current snapshot with the given time format.
func (s *Sensor) State(f Format) State {
	return Render(s.name, s.source.Snapshot(), f)
}

// Snapshot exposes the source's latest documents.
func (s *Sensor) Snapshot() kartverket.Snapshot {
	return s.source.Snapshot()
}

// Format controls how times are shown in attributes.
type Format struct {
	UTC      bool
	Location *time.Location
}

func (f Format) Clock(t time.Time) string {
	return timetricks.Clock(t, f.UTC, f.Location)
}

// State is what the sensor reports to the platform.
type State struct {
	Name string `json:"name"`
	// Value is nil when there is no reading.
	Value      *float64          `json:"state"`
	Unit       string            `json:"unit_of_measurement"`
	Icon       string            `json:"icon"`
	Available  bool              `json:"available"`
	Attributes map[string]string `json:"attributes"`
	UpdatedAt  time.Time         `json:"last_updated"`
}

// Render builds the sensor state for a snapshot. Without a current water
// level the state is unavailable and only carries the attribution.
func Render(name string, snap kartverket.Snapshot, f Format) State {
	st := State{
		Name: name,
		Unit: Unit,
		Icon: IconFlow,
		Attributes: map[string]string{
			AttrAttribution: Attribution,
		},
		UpdatedAt: snap.FetchedAt(),
	}

	level, err := snap.CurrentWaterLevel()
	if err != nil {
		return st
	}
	st.Value = &level
	st.Available = true

	if high, err := snap.NextHigh(); err == nil {
		st.Attributes[AttrNextHighTime] = f.Clock(high.Time)
		st.Attributes[AttrNextHighLevel] = kartverket.Level(high.Level).String()
	}
	if low, err := snap.NextLow(); err == nil {
		st.Attributes[AttrNextLowTime] = f.Clock(low.Time)
		st.Attributes[AttrNextLowLevel] = kartverket.Level(low.Level).String()
	}

	if increasing, err := snap.IsIncreasing(); err == nil {
		if increasing {
			st.Icon = IconFlow
			st.Attributes[AttrIncreasingText] = "Flooding"
		} else {
			st.Icon = IconEbb
			st.Attributes[AttrIncreasingText] = "Ebbing"
		}
	}

	levels, _ := snap.Series()
	for i, wl := range levels {
		st.Attributes[fmt.Sprintf(attrWaterLevelFmt, i)] = fmt.Sprintf("%s %s%s", f.Clock(wl.Time), wl.Value, Unit)
	}

	return st
}
