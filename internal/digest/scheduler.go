package digest

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the aggregator on a cron expression evaluated in JST, so
// the default "0 0 * * *" fires at Japan midnight.
type Scheduler struct {
	cron       *cron.Cron
	aggregator *Aggregator
	spec       string
}

func NewScheduler(aggregator *Aggregator, spec string) *Scheduler {
	if spec == "" {
		spec = "0 0 * * *"
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(jst)),
		aggregator: aggregator,
		spec:       spec,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := s.aggregator.Run(ctx, time.Now()); err != nil {
			log.Printf("daily digest run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("daily digest scheduled with spec %q (JST)", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
