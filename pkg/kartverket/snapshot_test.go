package kartverket

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func docWith(levels ...WaterLevel) *Document {
	return &Document{
		Location:     oslo,
		RefLevelCode: "CD",
		Series:       []Series{{Type: Prediction, Unit: "cm", WaterLevels: levels}},
	}
}

func TestSnapshotNotFetched(t *testing.T) {
	var s Snapshot

	if _, err := s.CurrentWaterLevel(); !errors.Is(err, ErrNotFetched) {
		t.Errorf("CurrentWaterLevel: got %v, want ErrNotFetched", err)
	}
	if _, err := s.NextExtreme(); !errors.Is(err, ErrNotFetched) {
		t.Errorf("NextExtreme: got %v, want ErrNotFetched", err)
	}
	if _, err := s.WaterLevelSeries(); !errors.Is(err, ErrNotFetched) {
		t.Errorf("WaterLevelSeries: got %v, want ErrNotFetched", err)
	}
	if _, err := s.IsIncreasing(); !errors.Is(err, ErrNotFetched) {
		t.Errorf("IsIncreasing: got %v, want ErrNotFetched", err)
	}
}

func TestSnapshotEmptySeries(t *testing.T) {
	table := []struct {
		name string
		doc  *Document
	}{
		{name: "no data blocks", doc: &Document{Location: oslo}},
		{name: "empty data block", doc: docWith()},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			s := Snapshot{fetched: true, series: test.doc, extremes: test.doc}

			series, err := s.WaterLevelSeries()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(series.Timestamps) != 0 || len(series.WaterLevels) != 0 {
				t.Errorf("got %d timestamps and %d levels, want none", len(series.Timestamps), len(series.WaterLevels))
			}

			if _, err := s.CurrentWaterLevel(); !errors.Is(err, ErrNoWaterLevels) {
				t.Errorf("CurrentWaterLevel: got %v, want ErrNoWaterLevels", err)
			}
			if _, err := s.NextExtreme(); !errors.Is(err, ErrNoWaterLevels) {
				t.Errorf("NextExtreme: got %v, want ErrNoWaterLevels", err)
			}
		})
	}
}

func TestSnapshotSeriesLengths(t *testing.T) {
	for n := 0; n < 30; n++ {
		levels := make([]WaterLevel, n)
		for i := range levels {
			levels[i] = WaterLevel{Value: Level(i), Time: at(0).Add(10 * time.Minute * time.Duration(i))}
		}
		s := Snapshot{fetched: true, series: docWith(levels...)}

		series, err := s.WaterLevelSeries()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(series.Timestamps) != n || len(series.WaterLevels) != n {
			t.Errorf("n=%d: got %d timestamps and %d levels", n, len(series.Timestamps), len(series.WaterLevels))
		}
	}
}

func TestIsIncreasing(t *testing.T) {
	low := WaterLevel{Value: 10, Time: at(1), Flag: FlagLow}
	high := WaterLevel{Value: 20, Time: at(6), Flag: FlagHigh}
	laterLow := WaterLevel{Value: 12, Time: at(12), Flag: FlagLow}

	table := []struct {
		name   string
		levels []WaterLevel
		want   bool
		err    error
	}{
		{name: "low first", levels: []WaterLevel{low, high}, want: false},
		{name: "high first", levels: []WaterLevel{high, laterLow}, want: true},
		{name: "only high", levels: []WaterLevel{high}, want: true},
		{name: "only low", levels: []WaterLevel{low}, want: false},
		{name: "none", levels: nil, err: ErrNoWaterLevels},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			s := Snapshot{fetched: true, extremes: docWith(test.levels...)}
			got, err := s.IsIncreasing()
			if !errors.Is(err, test.err) {
				t.Fatalf("got error %v, want %v", err, test.err)
			}
			if got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestNextHighLow(t *testing.T) {
	s := Snapshot{fetched: true, extremes: docWith(
		WaterLevel{Value: 10, Time: at(1), Flag: FlagLow},
		WaterLevel{Value: 20, Time: at(6), Flag: FlagHigh},
		WaterLevel{Value: 8, Time: at(13), Flag: FlagLow},
	)}

	high, err := s.NextHigh()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Extreme{Time: at(6), Flag: FlagHigh, Level: 20}, high); diff != "" {
		t.Errorf("incorrect next high (-want,+got):\n%s", diff)
	}

	low, err := s.NextLow()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Extreme{Time: at(1), Flag: FlagLow, Level: 10}, low); diff != "" {
		t.Errorf("incorrect next low (-want,+got):\n%s", diff)
	}
}
