package kartverket

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	buf, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return buf
}

func at(hour int) time.Time {
	return time.Date(2021, time.January, 1, hour, 0, 0, 0, time.UTC)
}

var oslo = Location{
	Name:      "Oslo",
	Code:      "OSL",
	Latitude:  59.908559,
	Longitude: 10.734510,
	Delay:     0,
	Factor:    1,
	ObsName:   "Oslo",
	ObsCode:   "OSL",
	Descr:     "Tidevann fra Oslo",
}

func TestParseSeries(t *testing.T) {
	got, err := ParseBytes(readFixture(t, "series.xml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Document{
		Location:     oslo,
		RefLevelCode: "CD",
		Series: []Series{{
			Type: Prediction,
			Unit: "cm",
			WaterLevels: []WaterLevel{
				{Value: 9.0, Time: at(0)},
				{Value: 10.0, Time: at(1)},
			},
		}, {
			Type: Forecast,
			Unit: "cm",
			WaterLevels: []WaterLevel{
				{Value: 11.2, Time: at(0)},
				{Value: 12.4, Time: at(1)},
				{Value: 13.1, Time: at(2)},
			},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("incorrect parse (-want,+got):\n%s", diff)
	}
}

func TestParseExtremes(t *testing.T) {
	got, err := ParseBytes(readFixture(t, "extremes.xml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []WaterLevel{
		{Value: 10.0, Time: at(1), Flag: FlagLow},
		{Value: 20.0, Time: at(6), Flag: FlagHigh},
	}
	if diff := cmp.Diff(want, got.Series[0].WaterLevels); diff != "" {
		t.Errorf("incorrect extremes (-want,+got):\n%s", diff)
	}
}

func TestParseEmptySeries(t *testing.T) {
	input := `<tide><locationdata>
		<location name="Oslo" latitude="59.9" longitude="10.7"/>
		<reflevelcode>CD</reflevelcode>
		<data type="prediction" unit="cm"></data>
	</locationdata></tide>`

	got, err := ParseBytes([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(got.Series); n != 1 {
		t.Fatalf("got %d series, want 1", n)
	}
	if n := len(got.Series[0].WaterLevels); n != 0 {
		t.Errorf("got %d water levels, want 0", n)
	}
}

func TestParseErrors(t *testing.T) {
	const location = `<location name="Oslo" latitude="59.9" longitude="10.7"/>`
	wrap := func(data string) string {
		return `<tide><locationdata>` + location + `<reflevelcode>CD</reflevelcode>` + data + `</locationdata></tide>`
	}

	table := []struct {
		name  string
		input string
		is    error
		path  string
	}{{
		name:  "no locationdata",
		input: `<tide><nodata info="no data"/></tide>`,
		is:    ErrNoLocationData,
		path:  "locationdata",
	}, {
		name:  "no location",
		input: `<tide><locationdata><reflevelcode>CD</reflevelcode></locationdata></tide>`,
		is:    ErrNoLocation,
		path:  "locationdata/location",
	}, {
		name:  "two locationdata",
		input: `<tide><locationdata>` + location + `</locationdata><locationdata>` + location + `</locationdata></tide>`,
		path:  "locationdata",
	}, {
		name:  "location without latitude",
		input: `<tide><locationdata><location name="Oslo" longitude="10.7"/></locationdata></tide>`,
		is:    ErrMissingAttr,
		path:  "locationdata/location@latitude",
	}, {
		name:  "location with bad delay",
		input: `<tide><locationdata><location name="Oslo" latitude="59.9" longitude="10.7" delay="soon"/></locationdata></tide>`,
		path:  "locationdata/location@delay",
	}, {
		name:  "data without type",
		input: wrap(`<data unit="cm"/>`),
		is:    ErrMissingAttr,
		path:  "locationdata/data[0]@type",
	}, {
		name:  "waterlevel without time",
		input: wrap(`<data type="prediction" unit="cm"><waterlevel value="1.0" time="2021-01-01T00:00:00+00:00"/><waterlevel value="2.0"/></data>`),
		is:    ErrMissingAttr,
		path:  "locationdata/data[0]/waterlevel[1]@time",
	}, {
		name:  "waterlevel without value",
		input: wrap(`<data type="prediction" unit="cm"><waterlevel time="2021-01-01T00:00:00+00:00"/></data>`),
		is:    ErrMissingAttr,
		path:  "locationdata/data[0]/waterlevel[0]@value",
	}, {
		name:  "waterlevel with bad value",
		input: wrap(`<data type="prediction" unit="cm"><waterlevel value="high" time="2021-01-01T00:00:00+00:00"/></data>`),
		path:  "locationdata/data[0]/waterlevel[0]@value",
	}, {
		name:  "waterlevel with bad time",
		input: wrap(`<data type="prediction" unit="cm"><waterlevel value="1.0" time="yesterday"/></data>`),
		path:  "locationdata/data[0]/waterlevel[0]@time",
	}, {
		name:  "waterlevel with unknown flag",
		input: wrap(`<data type="prediction" unit="cm"><waterlevel value="1.0" time="2021-01-01T00:00:00+00:00" flag="middle"/></data>`),
		path:  "locationdata/data[0]/waterlevel[0]@flag",
	}, {
		name:  "truncated document",
		input: `<tide><locationdata>`,
		path:  "document",
	}}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			doc, err := ParseBytes([]byte(test.input))
			if err == nil {
				t.Fatalf("expected error, got document %+v", doc)
			}
			if doc != nil {
				t.Errorf("got partial document %+v", doc)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("got %T %v, want *ParseError", err, err)
			}
			if perr.Path != test.path {
				t.Errorf("got path %q, want %q", perr.Path, test.path)
			}
			if test.is != nil && !errors.Is(err, test.is) {
				t.Errorf("got %v, want %v", err, test.is)
			}
		})
	}
}

func TestParseReader(t *testing.T) {
	doc, err := Parse(strings.NewReader(string(readFixture(t, "extremes.xml"))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.RefLevelCode != "CD" {
		t.Errorf("got reflevelcode %q, want %q", doc.RefLevelCode, "CD")
	}
}
