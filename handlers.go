package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/spencer-p/tidesensor/pkg/config"
	"github.com/spencer-p/tidesensor/pkg/handlers"
	"github.com/spencer-p/tidesensor/pkg/metrics"
	"github.com/spencer-p/tidesensor/pkg/sensor"
	"github.com/spencer-p/tidesensor/pkg/sunset"
)

// newRouter mounts the sensor routes under the configured prefix. Metrics
// are served at the root regardless of the prefix.
func newRouter(env *config.Config, s *sensor.Sensor) http.Handler {
	r := mux.NewRouter().StrictSlash(true)
	r.Handle("/metrics", metrics.Handler())

	sub := r.PathPrefix(env.RoutePrefix).Subrouter()
	handlers.Register(sub, s, handlers.Options{
		Prefix:        env.RoutePrefix,
		SessionKey:    env.SessionKey,
		EncryptionKey: env.EncryptionKey,
		Place:         sunset.NewPlace(env.Latitude, env.Longitude, env.Location()),
	})

	return metrics.LatencyHandler(r)
}
