package kartverket

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WaterLevel is a single sample from a data series.
type WaterLevel struct {
	// Height above the reference level, usually centimetres
	Value Level
	Time  time.Time
	// High or low tide, only set in tabulated extremes
	Flag Flag
}

// Level is a water level height.
type Level float64

func (l Level) String() string {
	return strconv.FormatFloat(float64(l), 'f', 1, 64)
}

// Flag marks a water level as a tidal extreme.
type Flag string

const (
	FlagNone Flag = ""
	FlagHigh Flag = "high"
	FlagLow  Flag = "low"
)

func (f Flag) Valid() bool {
	return f == FlagNone || f == FlagHigh || f == FlagLow
}

// SeriesType names what a data series holds.
type SeriesType string

const (
	Observation   SeriesType = "observation"
	Prediction    SeriesType = "prediction"
	Forecast      SeriesType = "forecast"
	WeatherEffect SeriesType = "weathereffect"
)

// Series is one <data> block of a response. WaterLevels are in document order,
// which is chronological.
type Series struct {
	Type        SeriesType
	Unit        string
	WaterLevels []WaterLevel
}

// Location describes the point the API resolved the request coordinates to.
type Location struct {
	Name      string
	Code      string
	Latitude  float64
	Longitude float64
	Delay     int
	Factor    float64
	ObsName   string
	ObsCode   string
	Descr     string
}

// Document is one parsed API response.
type Document struct {
	Location     Location
	RefLevelCode string
	Series       []Series
}

// Extreme is the next high or low tide.
type Extreme struct {
	Time  time.Time
	Flag  Flag
	Level float64
}

func (e Extreme) String() string {
	return fmt.Sprintf("{t: %s, v: %.1f, flag: %s}",
		e.Time.Format(time.RFC822),
		e.Level,
		e.Flag)
}

// WaterLevelSeries holds the rolling series as two parallel slices of equal
// length.
type WaterLevelSeries struct {
	Timestamps  []time.Time `json:"timestamp"`
	WaterLevels []float64   `json:"waterlevel"`
}

// Interval is the sampling interval of the series in minutes.
type Interval int

const (
	Interval10 Interval = 10
	Interval60 Interval = 60
)

var intervals = []Interval{Interval10, Interval60}

// ParseInterval validates i against the intervals the API supports.
func ParseInterval(i int) (Interval, error) {
	for _, iv := range intervals {
		if int(iv) == i {
			return iv, nil
		}
	}
	allowed := make([]string, len(intervals))
	for j, iv := range intervals {
		allowed[j] = strconv.Itoa(int(iv))
	}
	return 0, &ValidationError{
		Field:   "interval",
		Value:   strconv.Itoa(i),
		Allowed: allowed,
	}
}

// Language selects the language of names and descriptions in the response.
type Language string

const (
	Bokmal  Language = "nb"
	Nynorsk Language = "nn"
	English Language = "en"
)

var languages = []struct {
	lang Language
	name string
}{
	{Bokmal, "bokmål"},
	{Nynorsk, "nynorsk"},
	{English, "english"},
}

// ParseLanguage validates s against the languages the API supports.
func ParseLanguage(s string) (Language, error) {
	allowed := make([]string, len(languages))
	for i, l := range languages {
		if string(l.lang) == s {
			return l.lang, nil
		}
		allowed[i] = fmt.Sprintf("%s (%s)", l.lang, l.name)
	}
	return "", &ValidationError{
		Field:   "language",
		Value:   s,
		Allowed: allowed,
	}
}

// Datatype selects which document the API returns.
type Datatype string

const (
	// DatatypeAll requests the rolling water level series.
	DatatypeAll Datatype = "all"
	// DatatypeTab requests the tabulated high and low tides.
	DatatypeTab Datatype = "tab"
)

func (d Datatype) Valid() bool {
	return d == DatatypeAll || d == DatatypeTab
}

func (d Datatype) String() string {
	return string(d)
}

func joinAllowed(allowed []string) string {
	return strings.Join(allowed, ", ")
}
