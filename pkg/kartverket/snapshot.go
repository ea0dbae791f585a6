package kartverket

import (
	"fmt"
	"time"
)

// Snapshot is the pair of documents stored by one Update. The zero Snapshot
// has not been fetched, and every derived value on it returns ErrNotFetched.
// After an update either document may be absent, in which case the values
// derived from it return ErrNoData.
type Snapshot struct {
	fetched   bool
	fetchedAt time.Time
	series    *Document
	extremes  *Document
}

// Fetched reports whether an update has completed.
func (s Snapshot) Fetched() bool {
	return s.fetched
}

// FetchedAt is the time the update completed.
func (s Snapshot) FetchedAt() time.Time {
	return s.fetchedAt
}

// SeriesDocument returns the rolling water level document.
func (s Snapshot) SeriesDocument() (*Document, error) {
	return s.document(s.series, DatatypeAll)
}

// ExtremesDocument returns the high and low tide document.
func (s Snapshot) ExtremesDocument() (*Document, error) {
	return s.document(s.extremes, DatatypeTab)
}

func (s Snapshot) document(doc *Document, dt Datatype) (*Document, error) {
	if !s.fetched {
		return nil, ErrNotFetched
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: datatype %s", ErrNoData, dt)
	}
	return doc, nil
}

// firstSeries returns the water levels of the first data block, which may be
// empty.
func (s Snapshot) firstSeries(doc *Document, dt Datatype) ([]WaterLevel, error) {
	doc, err := s.document(doc, dt)
	if err != nil {
		return nil, err
	}
	if len(doc.Series) == 0 {
		return nil, nil
	}
	return doc.Series[0].WaterLevels, nil
}

// Series returns the rolling water levels in order.
func (s Snapshot) Series() ([]WaterLevel, error) {
	return s.firstSeries(s.series, DatatypeAll)
}

// Extremes returns the tabulated high and low tides in order.
func (s Snapshot) Extremes() ([]WaterLevel, error) {
	return s.firstSeries(s.extremes, DatatypeTab)
}

// NextExtreme is the first tabulated high or low tide.
func (s Snapshot) NextExtreme() (Extreme, error) {
	levels, err := s.Extremes()
	if err != nil {
		return Extreme{}, err
	}
	if len(levels) == 0 {
		return Extreme{}, fmt.Errorf("%w: datatype %s", ErrNoWaterLevels, DatatypeTab)
	}
	return extreme(levels[0]), nil
}

// NextHigh is the first tabulated high tide.
func (s Snapshot) NextHigh() (Extreme, error) {
	return s.nextFlagged(FlagHigh)
}

// NextLow is the first tabulated low tide.
func (s Snapshot) NextLow() (Extreme, error) {
	return s.nextFlagged(FlagLow)
}

func (s Snapshot) nextFlagged(flag Flag) (Extreme, error) {
	levels, err := s.Extremes()
	if err != nil {
		return Extreme{}, err
	}
	for _, wl := range levels {
		if wl.Flag == flag {
			return extreme(wl), nil
		}
	}
	return Extreme{}, fmt.Errorf("%w: no %s tide", ErrNoWaterLevels, flag)
}

// CurrentWaterLevel is the first sample of the rolling series.
func (s Snapshot) CurrentWaterLevel() (float64, error) {
	levels, err := s.Series()
	if err != nil {
		return 0, err
	}
	if len(levels) == 0 {
		return 0, fmt.Errorf("%w: datatype %s", ErrNoWaterLevels, DatatypeAll)
	}
	return float64(levels[0].Value), nil
}

// WaterLevelSeries splits the rolling series into timestamps and values.
func (s Snapshot) WaterLevelSeries() (WaterLevelSeries, error) {
	levels, err := s.Series()
	if err != nil {
		return WaterLevelSeries{}, err
	}
	series := WaterLevelSeries{
		Timestamps:  make([]time.Time, 0, len(levels)),
		WaterLevels: make([]float64, 0, len(levels)),
	}
	for _, wl := range levels {
		series.Timestamps = append(series.Timestamps, wl.Time)
		series.WaterLevels = append(series.WaterLevels, float64(wl.Value))
	}
	return series, nil
}

// IsIncreasing reports whether the tide is flooding, that is whether the next
// high tide comes before the next low tide. With only one kind of extreme
// left in the table, that extreme decides.
//
// A low tide coming first means the water is falling toward it, so the
// result is false. Do not invert this.
func (s Snapshot) IsIncreasing() (bool, error) {
	high, herr := s.NextHigh()
	low, lerr := s.NextLow()
	switch {
	case herr == nil && lerr == nil:
		return high.Time.Before(low.Time), nil
	case herr == nil:
		return true, nil
	case lerr == nil:
		return false, nil
	default:
		return false, herr
	}
}

func extreme(wl WaterLevel) Extreme {
	return Extreme{
		Time:  wl.Time,
		Flag:  wl.Flag,
		Level: float64(wl.Value),
	}
}

// NewSnapshot builds a fetched Snapshot from documents obtained elsewhere.
// Either document may be nil to mark it absent.
func NewSnapshot(series, extremes *Document, at time.Time) Snapshot {
	return Snapshot{
		fetched:   true,
		fetchedAt: at,
		series:    series,
		extremes:  extremes,
	}
}
