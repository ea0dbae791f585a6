package visualize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spencer-p/tidesensor/pkg/kartverket"
	"github.com/spencer-p/tidesensor/pkg/splines"
	"github.com/spencer-p/tidesensor/pkg/sunset"
	"github.com/spencer-p/tidesensor/pkg/timetricks"
)

const (
	width  = 1200
	height = 300

	// margin in cm above and below the extremes
	margin = 10
)

// Tidal draws one day of tide as SVG.
type Tidal struct {
	date      time.Time
	extremes  []kartverket.WaterLevel
	series    []kartverket.WaterLevel
	sunEvents sunset.SunEvents

	low, high float64
}

// NewTidal prepares a drawing from the tabulated extremes, the sampled series
// and the sun events of the same period. Either tide slice may be empty.
func NewTidal(extremes, series []kartverket.WaterLevel, sunEvents sunset.SunEvents) *Tidal {
	img := &Tidal{
		extremes:  extremes,
		series:    series,
		sunEvents: sunEvents,
		low:       math.Inf(1),
		high:      math.Inf(-1),
	}
	for _, levels := range [][]kartverket.WaterLevel{extremes, series} {
		for _, wl := range levels {
			img.low = math.Min(img.low, float64(wl.Value))
			img.high = math.Max(img.high, float64(wl.Value))
		}
	}
	if math.IsInf(img.low, 0) {
		img.low, img.high = 0, 0
	}
	img.low -= margin
	img.high += margin
	return img
}

// SetDate picks the day to draw, in the location of t.
func (img *Tidal) SetDate(t time.Time) {
	img.date = timetricks.TrimClock(t)
}

func (img *Tidal) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" onclick="" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Calculate dawn/dusk and draw the sunshine. There is no band on days
	// without both.
	sunupIndex, ok := img.sunup(img.date)
	hasSun := ok && sunupIndex+1 < len(img.sunEvents)
	var risex, setx int
	if hasSun {
		risex = img.timeToX(img.sunEvents[sunupIndex].Time)
		setx = img.timeToX(img.sunEvents[sunupIndex+1].Time)
		io(fmt.Fprintf(w, `<rect class="daytime" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
			risex, 0,
			setx-risex, height))
	}

	// Mark the reference level.
	if zero := img.levelToY(0); zero > 0 && zero < height {
		io(fmt.Fprintf(w, `<line class="reflevel" stroke="#e9c46a" x1="0" y1="%d" x2="%d" y2="%d"/>`,
			zero, width, zero))
	}

	// Fill between consecutive extremes, starting from the one before the
	// day if there is one.
	i, ok := img.indexPreceding(img.extremes, img.date)
	if !ok {
		i = 0
	}
	startI, endI := i, i
	for ; i+1 < len(img.extremes); i += 1 {
		x1 := img.timeToX(img.extremes[i].Time)
		y1 := img.levelToY(float64(img.extremes[i].Value))
		if x1 > width {
			break
		}
		endI = i + 1
		io(fmt.Fprintf(w, `<path class="tide" fill="skyblue" d="M %d,%d `, x1, y1))

		x2 := img.timeToX(img.extremes[i+1].Time) + 1 // +1 to create overlap
		y2 := img.levelToY(float64(img.extremes[i+1].Value))

		cx1, cy1 := (x1+x2)/2, y1
		cx2, cy2 := cx1, y2

		io(fmt.Fprintf(w, `C %d,%d %d,%d %d,%d `,
			cx1, cy1,
			cx2, cy2,
			x2, y2))

		io(fmt.Fprintf(w, `L %d,%d L %d,%d z"/>`, x2, height, x1, height))
	}

	// Draw the sampled series on top.
	if len(img.series) > 0 {
		points := make([]string, 0, len(img.series))
		for _, wl := range img.series {
			x := img.timeToX(wl.Time)
			if x < 0 || x > width {
				continue
			}
			points = append(points, fmt.Sprintf("%d,%d", x, img.levelToY(float64(wl.Value))))
		}
		if len(points) > 0 {
			io(fmt.Fprintf(w, `<polyline class="series" fill="none" stroke="navy" points="%s"/>`,
				strings.Join(points, " ")))
		}
	}

	// Draw the night time shadows.
	if hasSun {
		io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
			0, 0,
			risex, height))
		io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
			setx, 0,
			width-setx, height))
	}

	// Insert spline data as JSON.
	if len(img.extremes) > 0 {
		spline := splines.CurvesBetween(img.extremes[startI : endI+1])
		var buf bytes.Buffer
		if encErr := json.NewEncoder(&buf).Encode(spline); encErr != nil {
			err = encErr
		}
		io(fmt.Fprintf(w, `<text class="spline" visibility="hidden">`))
		io(w.Write(buf.Bytes()))
		io(fmt.Fprintf(w, `</text>`))
	}

	// Insert date of this graph as unix.
	io(fmt.Fprintf(w, `<text class="unixtime" visibility="hidden">%d</text>`, img.date.Unix()))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

func (img *Tidal) indexPreceding(levels []kartverket.WaterLevel, t time.Time) (int, bool) {
	left, right := 0, len(levels)
	for right-left > 1 {
		mid := (left + right) / 2
		midt := levels[mid].Time
		if midt.Before(t) {
			left = mid
		} else if midt.After(t) {
			right = mid
		} else {
			return mid, true
		}
	}
	return left, left < len(levels)
}

func (img *Tidal) sunup(t time.Time) (int, bool) {
	for i := 0; i < len(img.sunEvents); i++ {
		if img.sunEvents[i].Event == sunset.Sunrise && img.sunEvents[i].Time.After(t) {
			return i, true
		}
	}
	return 0, false
}

func (img *Tidal) levelToY(level float64) int {
	span := img.high - img.low
	if span <= 0 {
		return height / 2
	}
	return height - int((level-img.low)*height/span)
}

func (img *Tidal) timeToX(t time.Time) int {
	return int(t.Unix()-img.date.Unix()) * width / (60 * 60 * 24)
}
