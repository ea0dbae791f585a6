package splines

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/spencer-p/tidesensor/pkg/kartverket"
)

func ExampleDiscrete() {
	tstart := time.Date(2021, time.April, 3, 10, 30, 0, 0, time.UTC)
	extremes := []kartverket.WaterLevel{{
		Time:  tstart,
		Value: 10,
		Flag:  kartverket.FlagHigh,
	}, {
		Time:  tstart.Add(1000 * time.Hour),
		Value: 1,
		Flag:  kartverket.FlagLow,
	}}
	discrete := Discrete(CurvesBetween(extremes), 10)
	for i := range discrete {
		fmt.Println(math.Round(discrete[i]))
	}
	// Output:
	// 10
	// 10
	// 9
	// 8
	// 6
	// 5
	// 3
	// 2
	// 1
	// 1
}

func TestEvalAcrossCurves(t *testing.T) {
	t0 := time.Date(2021, time.January, 1, 1, 0, 0, 0, time.UTC)
	extremes := []kartverket.WaterLevel{
		{Time: t0, Value: 10, Flag: kartverket.FlagLow},
		{Time: t0.Add(6 * time.Hour), Value: 20, Flag: kartverket.FlagHigh},
		{Time: t0.Add(12 * time.Hour), Value: 8, Flag: kartverket.FlagLow},
	}
	spl := CurvesBetween(extremes)

	for _, e := range extremes {
		if got := spl.Eval(e.Time); math.Abs(got-float64(e.Value)) > 1e-6 {
			t.Errorf("at %s: got %f, want %s", e.Time, got, e.Value)
		}
	}
	if got := spl.Eval(t0.Add(9 * time.Hour)); got >= 20 || got <= 8 {
		t.Errorf("midway on the falling curve: got %f", got)
	}
	if got := spl.Eval(t0.Add(-time.Hour)); !math.IsNaN(got) {
		t.Errorf("before the spline: got %f, want NaN", got)
	}
	if got := spl.Eval(t0.Add(13 * time.Hour)); !math.IsNaN(got) {
		t.Errorf("after the spline: got %f, want NaN", got)
	}
}
