// Package poller refreshes a sensor on a fixed interval.
package poller

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// runTimeout bounds one run: two fetches of at most 15 seconds each, plus
// slack.
const runTimeout = 45 * time.Second

// Updater is refreshed by the Poller. *sensor.Sensor implements it.
type Updater interface {
	Name() string
	Update(ctx context.Context) error
}

// Poller periodically updates a single sensor. Runs never overlap.
type Poller struct {
	scheduler *gocron.Scheduler
	target    Updater
	interval  time.Duration
}

// New creates a Poller that updates target every interval.
func New(target Updater, interval time.Duration) *Poller {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Poller{
		scheduler: s,
		target:    target,
		interval:  interval,
	}
}

// Start schedules the job and starts the underlying scheduler. The first run
// happens immediately.
func (p *Poller) Start() error {
	_, err := p.scheduler.Every(p.interval).StartImmediately().Do(p.run)
	if err != nil {
		return err
	}
	p.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (p *Poller) Stop() {
	p.scheduler.Stop()
}

func (p *Poller) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := p.target.Update(ctx); err != nil {
		log.Printf("poller: update of %s failed: %v", p.target.Name(), err)
	}
}
