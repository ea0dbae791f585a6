package main

import (
	"log"
	"net/http"
	"time"

	"github.com/spencer-p/tidesensor/pkg/config"
	"github.com/spencer-p/tidesensor/pkg/kartverket"
	"github.com/spencer-p/tidesensor/pkg/metrics"
	"github.com/spencer-p/tidesensor/pkg/poller"
	"github.com/spencer-p/tidesensor/pkg/sensor"
)

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatal(err.Error())
	}

	client, err := kartverket.New(env.Latitude, env.Longitude, env.Interval, env.Language,
		kartverket.WithBaseURL(env.BaseURL),
		kartverket.WithFetchHook(metrics.ObserveFetch))
	if err != nil {
		log.Fatal(err.Error())
	}
	defer client.Close()

	s := sensor.New(client, sensor.Config{
		Name:         env.Name,
		UTC:          env.EnableUTC,
		Location:     env.Location(),
		ScanInterval: env.ScanInterval,
	})

	p := poller.New(s, env.ScanInterval)
	if err := p.Start(); err != nil {
		log.Fatalf("Failed to start poller: %v", err)
	}
	defer p.Stop()

	srv := &http.Server{
		Handler:      newRouter(env, s),
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	log.Printf("Listening and serving on %s/%s", srv.Addr, env.RoutePrefix[1:])
	if err := srv.ListenAndServe(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
