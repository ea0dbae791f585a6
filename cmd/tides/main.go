// Command tides fetches the tide for one location and prints it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spencer-p/tidesensor/pkg/kartverket"
	"github.com/spencer-p/tidesensor/pkg/sensor"
	"github.com/spencer-p/tidesensor/pkg/timetricks"
)

type options struct {
	lat, lon float64
	interval int
	lang     string
	utc      bool
	baseURL  string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "tides",
		Short: "Print the current tide from Kartverket",
		Long: `Fetches water level predictions and tide extremes for a location
from the Kartverket tide API and prints the current level, the next high and
low tide, and the predicted series.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude of the location")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "longitude of the location")
	cmd.Flags().IntVar(&opts.interval, "interval", 10, "minutes between water levels, 10 or 60")
	cmd.Flags().StringVar(&opts.lang, "lang", "en", "language of the response, nb, nn or en")
	cmd.Flags().BoolVar(&opts.utc, "utc", false, "show times in UTC instead of local time")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", kartverket.BaseURL, "tide API endpoint")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lon")

	return cmd
}

func run(ctx context.Context, w io.Writer, opts options) error {
	client, err := kartverket.New(opts.lat, opts.lon, opts.interval, opts.lang,
		kartverket.WithBaseURL(opts.baseURL))
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Update(ctx); err != nil {
		return err
	}
	snap := client.Snapshot()
	f := sensor.Format{UTC: opts.utc, Location: time.Local}

	level, err := snap.CurrentWaterLevel()
	if err != nil {
		return fmt.Errorf("no water level for %.4f,%.4f: %w", opts.lat, opts.lon, err)
	}
	if doc, err := snap.SeriesDocument(); err == nil && doc.Location.Name != "" {
		fmt.Fprintf(w, "%s\n", doc.Location.Name)
	}
	fmt.Fprintf(w, "Now: %s%s\n", kartverket.Level(level), sensor.Unit)

	if high, err := snap.NextHigh(); err == nil {
		fmt.Fprintf(w, "Next high: %s %s%s\n", f.Clock(high.Time), kartverket.Level(high.Level), sensor.Unit)
	}
	if low, err := snap.NextLow(); err == nil {
		fmt.Fprintf(w, "Next low: %s %s%s\n", f.Clock(low.Time), kartverket.Level(low.Level), sensor.Unit)
	}
	if increasing, err := snap.IsIncreasing(); err == nil {
		if increasing {
			fmt.Fprintln(w, "Flooding")
		} else {
			fmt.Fprintln(w, "Ebbing")
		}
	}

	levels, _ := snap.Series()
	for i, wl := range levels {
		if i > 0 && !timetricks.SameDay(levels[i-1].Time, wl.Time) {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s%s\n", f.Clock(wl.Time), wl.Value, sensor.Unit)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
