// Package sweeper drives the time-based expiry of unanswered booking
// requests. It is safe to run concurrently with host actions and with
// overlapping sweep windows: selection only sees pending bookings past their
// deadline, and the forced transition is guarded by a compare-and-set on the
// pending status.
package sweeper

//go:generate go run go.uber.org/mock/mockgen -source=./sweeper.go -destination=../mocks/sweeper_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rhx/config"
	"rhx/infras/otel"
	"rhx/internal/domains/booking/repository"
	"rhx/internal/domains/booking/service"
	"rhx/shared/constant"
	"rhx/shared/timezone"

	"github.com/rs/zerolog/log"
)

// ItemError records one booking whose forced expiry failed. Failures are
// isolated per item; the sweep continues with the rest of the batch.
type ItemError struct {
	BookingID string `json:"booking_id"`
	Reason    string `json:"reason"`
}

// Report summarizes one sweep run.
type Report struct {
	ProcessedCount int         `json:"processed_count"`
	Errors         []ItemError `json:"errors"`
}

type Sweeper interface {
	Sweep(ctx context.Context) (Report, error)
	Run(ctx context.Context)
}

type sweeperImpl struct {
	repo    repository.Booking
	booking service.Booking
	cfg     *config.Config
	otel    otel.Otel
}

func New(repo repository.Booking, booking service.Booking, cfg *config.Config, otel otel.Otel) Sweeper {
	return &sweeperImpl{
		repo:    repo,
		booking: booking,
		cfg:     cfg,
		otel:    otel,
	}
}

// Sweep expires every pending booking past its host response deadline. It
// returns an error only when the candidate query itself fails; per-booking
// failures are collected in the report.
func (s *sweeperImpl) Sweep(ctx context.Context) (report Report, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".sweeper.Sweep")
	defer scope.End()
	defer scope.TraceIfError(err)

	report.Errors = []ItemError{}

	now := timezone.Now()

	for {
		expired, err := s.repo.FindExpiredPending(ctx, now, s.cfg.Booking.SweepBatchSize)
		if err != nil {
			log.Error().Err(err).Msg("failed to find expired pending bookings")

			return report, fmt.Errorf("failed to find expired pending bookings: %w", err)
		}

		if len(expired) == 0 {
			return report, nil
		}

		batchProcessed := 0

		for _, booking := range expired {
			if expireErr := s.booking.Expire(ctx, booking.ID); expireErr != nil {
				// Lost the race against a host action; the booking is
				// decided either way.
				if errors.Is(expireErr, service.ErrStaleState) {
					continue
				}

				log.Error().Err(expireErr).Str("bookingID", booking.ID).Msg("failed to expire booking")

				report.Errors = append(report.Errors, ItemError{
					BookingID: booking.ID,
					Reason:    expireErr.Error(),
				})

				continue
			}

			report.ProcessedCount++
			batchProcessed++
		}

		// A batch without progress would reselect the same failing
		// bookings forever; stop and let the next run retry them.
		if batchProcessed == 0 || len(expired) < s.cfg.Booking.SweepBatchSize {
			return report, nil
		}
	}
}

// Run executes Sweep on the configured interval until the context is
// cancelled. One run fires immediately so a restart never waits a full
// interval with an overdue backlog.
func (s *sweeperImpl) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.Booking.SweepIntervalMinutes) * time.Minute

	log.Info().Dur("interval", interval).Msg("booking expiry sweeper started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := s.Sweep(ctx)
		if err != nil {
			log.Error().Err(err).Msg("sweep run failed")
		} else {
			log.Info().
				Int("processed", report.ProcessedCount).
				Int("failed", len(report.Errors)).
				Msg("sweep run finished")
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("booking expiry sweeper stopped")

			return
		case <-ticker.C:
		}
	}
}
