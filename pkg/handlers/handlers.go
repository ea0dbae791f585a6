package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/spencer-p/tidesensor/pkg/sensor"
	"github.com/spencer-p/tidesensor/pkg/sunset"
	"github.com/spencer-p/tidesensor/pkg/timetricks"
	"github.com/spencer-p/tidesensor/pkg/visualize"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

const day = 24 * time.Hour

// Options configures the routes.
type Options struct {
	// Prefix the router is mounted under, used for redirects.
	Prefix        string
	SessionKey    string
	EncryptionKey string
	// Place the sensor reads tides for, used to shade daylight.
	Place sunset.Place
	// Now replaces the wall clock, defaulting to time.Now.
	Now func() time.Time
}

type server struct {
	sensor *sensor.Sensor
	store  sessions.Store
	opts   Options
}

// Register adds the sensor routes to r.
func Register(r *mux.Router, s *sensor.Sensor, opts Options) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Place.Location == nil {
		opts.Place.Location = time.Local
	}
	srv := &server{
		sensor: s,
		store:  newStore(opts.SessionKey, opts.EncryptionKey),
		opts:   opts,
	}

	r.Handle("/", srv.makeIndexHandler()).Methods(http.MethodGet)
	r.Handle("/api/v1/state", srv.makeStateHandler()).Methods(http.MethodGet)
	r.Handle("/api/v1/series", srv.makeSeriesHandler()).Methods(http.MethodGet)
	r.Handle("/api/v1/refresh", srv.makeRefreshHandler()).Methods(http.MethodPost)
	r.Handle("/config", srv.makeConfigHandler()).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/tides.svg", srv.makeTideImageHandler()).Methods(http.MethodGet)
}

// format picks the time format for a request: an explicit utc query
// parameter wins over the session preference, which wins over the sensor's
// configured default.
func (srv *server) format(r *http.Request) sensor.Format {
	f := srv.sensor.Format()

	session, _ := srv.store.Get(r, sessionName)
	if utc, ok := session.Values[sessionUTC].(bool); ok {
		f.UTC = utc
	}

	if v := r.FormValue("utc"); v != "" {
		if utc, err := strconv.ParseBool(v); err == nil {
			f.UTC = utc
		} else {
			log.Printf("Ignoring utc=%q: %v", v, err)
		}
	}
	return f
}

func (srv *server) makeIndexHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := srv.sensor.State(srv.format(r))

		w.Header().Add("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		if st.Available {
			fmt.Fprintf(w, "%s: %.1f %s\n", st.Name, *st.Value, st.Unit)
		} else {
			fmt.Fprintf(w, "%s: unavailable\n", st.Name)
		}

		keys := make([]string, 0, len(st.Attributes))
		for k := range st.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s: %s\n", k, st.Attributes[k])
		}
	})
}

func (srv *server) makeStateHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, srv.sensor.State(srv.format(r)))
	})
}

func (srv *server) makeSeriesHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		series, err := srv.sensor.Snapshot().WaterLevelSeries()
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "Failed to get data: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, series)
	})
}

func (srv *server) makeRefreshHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := srv.sensor.Update(r.Context()); err != nil {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprintf(w, "Failed to refresh: %v", err)
			log.Printf("Failed to refresh: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, srv.sensor.State(srv.format(r)))
	})
}

func (srv *server) makeTideImageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := srv.sensor.Snapshot()
		extremes, _ := snap.Extremes()
		series, _ := snap.Series()

		date := timetricks.TrimClock(srv.opts.Now().In(srv.opts.Place.Location))
		sunEvents := sunset.GetSunEvents(date, day, srv.opts.Place)

		img := visualize.NewTidal(extremes, series, sunEvents)
		img.SetDate(date)

		w.Header().Add("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		if _, err := img.Encode(w); err != nil {
			log.Printf("Failed to encode tide image: %v", err)
		}
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON result: %+v", err)
	}
}
