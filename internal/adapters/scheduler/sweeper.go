package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	ingestCommands "github.com/andrescamacho/floorsense-go/internal/application/ingest/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/mediator"
	viewQueries "github.com/andrescamacho/floorsense-go/internal/application/views/queries"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// Sweeper periodically refreshes RFID presence in every zone that carries
// antennas, standing in for readers that re-report the whole floor on an
// interval. Without it, presence only moves when live reads arrive and idle
// tags age out of snapshots even though they never left the shelf.
type Sweeper struct {
	med       mediator.Mediator
	scheduler gocron.Scheduler
	interval  time.Duration
	clock     shared.Clock
	logger    *slog.Logger
}

// NewSweeper creates the sweeper. Run only begins once Start is called.
func NewSweeper(med mediator.Mediator, interval time.Duration, clock shared.Clock, logger *slog.Logger) (*Sweeper, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create sweep scheduler: %w", err)
	}
	return &Sweeper{
		med:       med,
		scheduler: s,
		interval:  interval,
		clock:     clock,
		logger:    logger.With("component", "sweeper"),
	}, nil
}

// Start registers the sweep job and begins executing it.
func (s *Sweeper) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweepAll),
		gocron.WithName("zone-sweep"),
	)
	if err != nil {
		return fmt.Errorf("create sweep job: %w", err)
	}
	s.scheduler.Start()
	s.logger.Info("auto sweep started", "interval", s.interval)
	return nil
}

// Stop shuts down the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Sweeper) sweepAll() {
	ctx := context.Background()

	response, err := s.med.Send(ctx, &viewQueries.ListLocationsQuery{})
	if err != nil {
		s.logger.Error("sweep aborted, zone list failed", "error", err)
		return
	}
	zones, ok := response.(*viewQueries.ListLocationsResponse)
	if !ok {
		s.logger.Error("sweep aborted, unexpected zone list response")
		return
	}

	now := s.clock.Now()
	for _, zone := range zones.Locations {
		if len(zone.Antennas) == 0 {
			continue
		}
		if _, err := s.med.Send(ctx, &ingestCommands.ForceZoneSweepCommand{
			LocationID: zone.ID,
			Timestamp:  now,
		}); err != nil {
			s.logger.Error("zone sweep failed", "zone", zone.ID, "error", err)
		}
	}
}
