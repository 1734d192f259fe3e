package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rhx/config"
	"rhx/infras/otel/mocks"
	pgMocks "rhx/infras/postgres/mocks"
	bookingMocks "rhx/internal/domains/booking/mocks"
	"rhx/internal/domains/booking/model"
	"rhx/internal/domains/booking/model/dto"
	"rhx/internal/domains/booking/service"
	ledgerMocks "rhx/internal/domains/ledger/mocks"
	ledgerModel "rhx/internal/domains/ledger/model"
	ledgerDto "rhx/internal/domains/ledger/model/dto"
	propertyMocks "rhx/internal/domains/property/mocks"
	propertyModel "rhx/internal/domains/property/model"
	raceMocks "rhx/internal/domains/race/mocks"
	raceModel "rhx/internal/domains/race/model"
	notificationMocks "rhx/internal/notification/mocks"
	"rhx/internal/notification"
	cacheMocks "rhx/shared/cache/mocks"
	"rhx/shared/constant"
	"rhx/shared/timezone"
)

type bookingMockSet struct {
	repo      *bookingMocks.MockBooking
	raceRepo  *raceMocks.MockRace
	propRepo  *propertyMocks.MockProperty
	ledger    *ledgerMocks.MockLedgerService
	publisher *notificationMocks.MockPublisher
	cache     *cacheMocks.MockRedisCache
}

func newBookingService(t *testing.T) (service.Booking, bookingMockSet) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := bookingMockSet{
		repo:      bookingMocks.NewMockBooking(ctrl),
		raceRepo:  raceMocks.NewMockRace(ctrl),
		propRepo:  propertyMocks.NewMockProperty(ctrl),
		ledger:    ledgerMocks.NewMockLedgerService(ctrl),
		publisher: notificationMocks.NewMockPublisher(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	// Cache writes and invalidations happen asynchronously after the
	// operation returns; they are irrelevant to these assertions.
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.ResponseWindowHours = 48
	cfg.Booking.HostPenaltyPoints = 30

	svc := service.New(m.repo, m.raceRepo, m.propRepo, m.ledger, m.publisher, pgMocks.NewTxRunner(), cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func guestCtx(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func activeRace() raceModel.Race {
	return raceModel.Race{
		ID:         "race-1",
		HostID:     "host-1",
		PropertyID: "property-1",
		Name:       "Maratón de Valencia",
		RaceDate:   timezone.Now().AddDate(0, 2, 0),
		PointsCost: 120,
		MaxGuests:  4,
		Active:     true,
	}
}

func activeProperty() propertyModel.Property {
	return propertyModel.Property{
		ID:        "property-1",
		OwnerID:   "host-1",
		Title:     "Piso junto a la salida",
		City:      "Valencia",
		MaxGuests: 3,
		Active:    true,
	}
}

func validCreateRequest() dto.CreateBookingRequest {
	checkIn := timezone.Now().AddDate(0, 1, 0)

	return dto.CreateBookingRequest{
		RaceID:         "race-1",
		CheckInDate:    checkIn.Format("2006-01-02"),
		CheckOutDate:   checkIn.AddDate(0, 0, 3).Format("2006-01-02"),
		GuestsCount:    2,
		GuestPhone:     "+34600000000",
		RequestMessage: "first marathon abroad",
	}
}

func pendingBooking() model.Booking {
	now := timezone.Now()

	return model.Booking{
		ID:                   "booking-1",
		RaceID:               "race-1",
		GuestID:              "guest-1",
		HostID:               "host-1",
		PropertyID:           "property-1",
		CheckInDate:          now.AddDate(0, 1, 0),
		CheckOutDate:         now.AddDate(0, 1, 3),
		GuestsCount:          2,
		GuestPhone:           "+34600000000",
		PointsCost:           120,
		Status:               model.StatusPending,
		HostResponseDeadline: now.Add(24 * time.Hour),
		CreatedAt:            now,
		CreatedBy:            "guest-1",
		ModifiedBy:           "guest-1",
	}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("successful request snapshots the race cost", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRace(), nil)
		m.propRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeProperty(), nil)
		m.repo.EXPECT().ActiveExists(gomock.Any(), "race-1", "guest-1").Return(false, nil)

		var inserted model.Booking

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b model.Booking) error {
				inserted = b

				return nil
			})

		res, err := svc.Create(guestCtx("guest-1"), validCreateRequest())

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
		assert.Equal(t, 120, res.PointsCost)
		assert.Equal(t, "host-1", inserted.HostID)
		assert.Equal(t, "property-1", inserted.PropertyID)
		assert.WithinDuration(t, timezone.Now().Add(48*time.Hour), inserted.HostResponseDeadline, time.Minute)
	})

	t.Run("inactive race fails before anything is written", func(t *testing.T) {
		svc, m := newBookingService(t)

		race := activeRace()
		race.Active = false

		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(race, nil)

		_, err := svc.Create(guestCtx("guest-1"), validCreateRequest())

		assert.ErrorIs(t, err, service.ErrRaceInactive)
	})

	t.Run("host cannot book their own race", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRace(), nil)

		_, err := svc.Create(guestCtx("host-1"), validCreateRequest())

		assert.ErrorIs(t, err, service.ErrOwnRace)
	})

	t.Run("inactive property fails the request", func(t *testing.T) {
		svc, m := newBookingService(t)

		property := activeProperty()
		property.Active = false

		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRace(), nil)
		m.propRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(property, nil)

		_, err := svc.Create(guestCtx("guest-1"), validCreateRequest())

		assert.ErrorIs(t, err, service.ErrPropertyInactive)
	})

	t.Run("check-out must be after check-in", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRace(), nil)
		m.propRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeProperty(), nil)

		req := validCreateRequest()
		req.CheckOutDate = req.CheckInDate

		_, err := svc.Create(guestCtx("guest-1"), req)

		assert.ErrorIs(t, err, service.ErrInvalidDates)
	})

	t.Run("check-in in the past is rejected", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRace(), nil)
		m.propRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeProperty(), nil)

		req := validCreateRequest()
		req.CheckInDate = timezone.Now().AddDate(0, 0, -2).Format("2006-01-02")
		req.CheckOutDate = timezone.Now().AddDate(0, 0, 2).Format("2006-01-02")

		_, err := svc.Create(guestCtx("guest-1"), req)

		assert.ErrorIs(t, err, service.ErrCheckInPast)
	})

	t.Run("guest count is capped by the smaller of race and property", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRace(), nil)
		m.propRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeProperty(), nil)

		req := validCreateRequest()
		req.GuestsCount = 4 // race allows 4, property only 3

		_, err := svc.Create(guestCtx("guest-1"), req)

		assert.ErrorIs(t, err, service.ErrGuestsExceedMax)
	})

	t.Run("second active booking for the same race is rejected", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRace(), nil)
		m.propRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeProperty(), nil)
		m.repo.EXPECT().ActiveExists(gomock.Any(), "race-1", "guest-1").Return(true, nil)

		_, err := svc.Create(guestCtx("guest-1"), validCreateRequest())

		assert.ErrorIs(t, err, service.ErrDuplicateActiveBooking)
	})
}

func TestBookingService_Accept(t *testing.T) {
	t.Run("host accepts within the response window", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		var fields map[string]any

		m.repo.EXPECT().
			TransitionTx(gomock.Any(), gomock.Any(), "booking-1", model.StatusPending, model.StatusAccepted, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _, _, _ string, f map[string]any) (bool, error) {
				fields = f

				return true, nil
			})

		err := svc.Accept(guestCtx("host-1"), "booking-1", "host-1", dto.HostDecisionRequest{Message: "see you there"})

		assert.NoError(t, err)
		assert.Contains(t, fields, model.FieldAcceptedAt)
		assert.Equal(t, "see you there", fields[model.FieldHostResponseMessage])
	})

	t.Run("accepting an already accepted booking is a no-op", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := pendingBooking()
		booking.Status = model.StatusAccepted

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Accept(guestCtx("host-1"), "booking-1", "host-1", dto.HostDecisionRequest{})

		assert.NoError(t, err)
	})

	t.Run("only the host may accept", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		err := svc.Accept(guestCtx("guest-1"), "booking-1", "guest-1", dto.HostDecisionRequest{})

		assert.ErrorIs(t, err, service.ErrNotHost)
	})

	t.Run("acceptance after the deadline is refused", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := pendingBooking()
		booking.HostResponseDeadline = timezone.Now().Add(-time.Minute)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Accept(guestCtx("host-1"), "booking-1", "host-1", dto.HostDecisionRequest{})

		assert.ErrorIs(t, err, service.ErrResponseWindowClosed)
	})

	t.Run("lost CAS against the sweeper surfaces a stale conflict", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		m.repo.EXPECT().
			TransitionTx(gomock.Any(), gomock.Any(), "booking-1", model.StatusPending, model.StatusAccepted, gomock.Any()).
			Return(false, nil)

		expired := pendingBooking()
		expired.Status = model.StatusRejected

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(expired, nil)

		err := svc.Accept(guestCtx("host-1"), "booking-1", "host-1", dto.HostDecisionRequest{})

		assert.ErrorIs(t, err, service.ErrStaleState)
	})

	t.Run("lost CAS against a concurrent accept is treated as success", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		m.repo.EXPECT().
			TransitionTx(gomock.Any(), gomock.Any(), "booking-1", model.StatusPending, model.StatusAccepted, gomock.Any()).
			Return(false, nil)

		accepted := pendingBooking()
		accepted.Status = model.StatusAccepted

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(accepted, nil)

		err := svc.Accept(guestCtx("host-1"), "booking-1", "host-1", dto.HostDecisionRequest{})

		assert.NoError(t, err)
	})
}

func TestBookingService_Confirm(t *testing.T) {
	t.Run("confirmation debits the guest the snapshotted cost", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := pendingBooking()
		booking.Status = model.StatusAccepted

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		m.repo.EXPECT().
			TransitionTx(gomock.Any(), gomock.Any(), "booking-1", model.StatusAccepted, model.StatusConfirmed, gomock.Any()).
			Return(true, nil)

		var recorded ledgerDto.RecordRequest

		m.ledger.EXPECT().
			RecordTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req ledgerDto.RecordRequest) error {
				recorded = req

				return nil
			})

		err := svc.Confirm(guestCtx("guest-1"), "booking-1", "guest-1")

		assert.NoError(t, err)
		assert.Equal(t, "guest-1", recorded.UserID)
		assert.Equal(t, -120, recorded.Amount)
		assert.Equal(t, ledgerModel.TypeBookingPayment, recorded.Type)
	})

	t.Run("confirming an already confirmed booking debits nothing", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := pendingBooking()
		booking.Status = model.StatusConfirmed

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Confirm(guestCtx("guest-1"), "booking-1", "guest-1")

		assert.NoError(t, err)
	})

	t.Run("insufficient balance aborts both the debit and the flip", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := pendingBooking()
		booking.Status = model.StatusAccepted

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		m.repo.EXPECT().
			TransitionTx(gomock.Any(), gomock.Any(), "booking-1", model.StatusAccepted, model.StatusConfirmed, gomock.Any()).
			Return(true, nil)

		m.ledger.EXPECT().
			RecordTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("insufficient points balance"))

		err := svc.Confirm(guestCtx("guest-1"), "booking-1", "guest-1")

		assert.Error(t, err)
	})

	t.Run("outsiders cannot confirm", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := pendingBooking()
		booking.Status = model.StatusAccepted

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Confirm(guestCtx("someone-else"), "booking-1", "someone-else")

		assert.ErrorIs(t, err, service.ErrNotParticipant)
	})

	t.Run("confirming a pending booking is an invalid transition", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		err := svc.Confirm(guestCtx("guest-1"), "booking-1", "guest-1")

		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})
}

func TestBookingService_Complete(t *testing.T) {
	t.Run("completion credits the host after the stay", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := pendingBooking()
		booking.Status = model.StatusConfirmed
		booking.CheckInDate = timezone.Now().AddDate(0, 0, -5)
		booking.CheckOutDate = timezone.Now().AddDate(0, 0, -1)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		m.repo.EXPECT().
			TransitionTx(gomock.Any(), gomock.Any(), "booking-1", model.StatusConfirmed, model.StatusCompleted, gomock.Any()).
			Return(true, nil)

		var recorded ledgerDto.RecordRequest

		m.ledger.EXPECT().
			RecordTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req ledgerDto.RecordRequest) error {
				recorded = req

				return nil
			})

		err := svc.Complete(guestCtx("host-1"), "booking-1", "host-1")

		assert.NoError(t, err)
		assert.Equal(t, "host-1", recorded.UserID)
		assert.Equal(t, 120, recorded.Amount)
		assert.Equal(t, ledgerModel.TypeBookingEarning, recorded.Type)
	})

	t.Run("completion before check-out is refused", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := pendingBooking()
		booking.Status = model.StatusConfirmed

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Complete(guestCtx("host-1"), "booking-1", "host-1")

		assert.ErrorIs(t, err, service.ErrStayNotFinished)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("cancelling a pending booking refunds nothing", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		m.repo.EXPECT().
			TransitionTx(gomock.Any(), gomock.Any(), "booking-1", model.StatusPending, model.StatusCancelled, gomock.Any()).
			Return(true, nil)

		err := svc.Cancel(guestCtx("guest-1"), "booking-1", "guest-1")

		assert.NoError(t, err)
	})

	t.Run("cancelling a confirmed booking refunds the guest", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := pendingBooking()
		booking.Status = model.StatusConfirmed

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		m.repo.EXPECT().
			TransitionTx(gomock.Any(), gomock.Any(), "booking-1", model.StatusConfirmed, model.StatusCancelled, gomock.Any()).
			Return(true, nil)

		m.ledger.EXPECT().
			RefundTx(gomock.Any(), gomock.Any(), "booking-1", "guest-1", 120, gomock.Any()).
			Return(true, nil)

		err := svc.Cancel(guestCtx("guest-1"), "booking-1", "guest-1")

		assert.NoError(t, err)
	})

	t.Run("terminal bookings cannot be cancelled", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := pendingBooking()
		booking.Status = model.StatusCompleted

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Cancel(guestCtx("guest-1"), "booking-1", "guest-1")

		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})
}

func TestBookingService_Expire(t *testing.T) {
	overdue := func() model.Booking {
		booking := pendingBooking()
		booking.HostResponseDeadline = timezone.Now().Add(-time.Hour)

		return booking
	}

	t.Run("expiry refunds the guest, penalizes the host and reopens the race", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(overdue(), nil)
		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRace(), nil)

		m.repo.EXPECT().
			TransitionTx(gomock.Any(), gomock.Any(), "booking-1", model.StatusPending, model.StatusRejected, gomock.Any()).
			Return(true, nil)

		m.ledger.EXPECT().
			RefundTx(gomock.Any(), gomock.Any(), "booking-1", "guest-1", 120, gomock.Any()).
			Return(true, nil)

		m.ledger.EXPECT().
			PenaltyTx(gomock.Any(), gomock.Any(), "booking-1", "host-1", 30, gomock.Any()).
			Return(30, nil)

		var reopen map[string]any

		m.raceRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ any) error {
				reopen = req

				return nil
			})

		var published []notification.Intent

		m.publisher.EXPECT().
			Publish(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, intents ...notification.Intent) error {
				published = intents

				return nil
			})

		err := svc.Expire(context.Background(), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, true, reopen[raceModel.FieldActive])

		if assert.Len(t, published, 2) {
			assert.Equal(t, notification.IntentHostExpiryPenalty, published[0].Type)
			assert.Equal(t, "host-1", published[0].UserID)
			assert.Equal(t, notification.IntentGuestExpiryRefund, published[1].Type)
			assert.Equal(t, "guest-1", published[1].UserID)
		}
	})

	t.Run("expiring an already decided booking is a no-op", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := pendingBooking()
		booking.Status = model.StatusAccepted

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Expire(context.Background(), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("a booking still inside the window cannot be expired", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		err := svc.Expire(context.Background(), "booking-1")

		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})

	t.Run("a failed publish does not fail the expiry", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(overdue(), nil)
		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRace(), nil)

		m.repo.EXPECT().
			TransitionTx(gomock.Any(), gomock.Any(), "booking-1", model.StatusPending, model.StatusRejected, gomock.Any()).
			Return(true, nil)

		m.ledger.EXPECT().
			RefundTx(gomock.Any(), gomock.Any(), "booking-1", "guest-1", 120, gomock.Any()).
			Return(true, nil)

		m.ledger.EXPECT().
			PenaltyTx(gomock.Any(), gomock.Any(), "booking-1", "host-1", 30, gomock.Any()).
			Return(30, nil)

		m.raceRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.publisher.EXPECT().
			Publish(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("broker unavailable"))

		err := svc.Expire(context.Background(), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("losing the CAS to a host action leaves everything untouched", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(overdue(), nil)
		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRace(), nil)

		m.repo.EXPECT().
			TransitionTx(gomock.Any(), gomock.Any(), "booking-1", model.StatusPending, model.StatusRejected, gomock.Any()).
			Return(false, nil)

		accepted := pendingBooking()
		accepted.Status = model.StatusAccepted

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(accepted, nil)

		err := svc.Expire(context.Background(), "booking-1")

		assert.ErrorIs(t, err, service.ErrStaleState)
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("participants see the joined detail", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		m.raceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRace(), nil)
		m.propRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeProperty(), nil)

		res, err := svc.Get(context.Background(), "booking-1", "guest-1")

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)

		if assert.NotNil(t, res.Race) {
			assert.Equal(t, "Maratón de Valencia", res.Race.Name)
		}

		if assert.NotNil(t, res.Property) {
			assert.Equal(t, "Valencia", res.Property.City)
		}
	})

	t.Run("outsiders are refused", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		_, err := svc.Get(context.Background(), "booking-1", "someone-else")

		assert.ErrorIs(t, err, service.ErrNotParticipant)
	})

	t.Run("missing booking yields not found", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), "booking-1", "guest-1")

		assert.ErrorIs(t, err, service.ErrBookingNotFound)
	})
}

func TestBookingService_HostStats(t *testing.T) {
	svc, m := newBookingService(t)

	m.repo.EXPECT().
		StatsByHost(gomock.Any(), "host-1").
		Return(model.HostStatsRow{
			TotalBookings:      10,
			PendingRequests:    2,
			CompletedBookings:  5,
			AcceptedOrLater:    6,
			Rejected:           2,
			AvgResponseSeconds: 5400,
		}, nil)

	m.ledger.EXPECT().
		SumByType(gomock.Any(), "host-1", ledgerModel.TypeBookingEarning).
		Return(600, nil)

	m.ledger.EXPECT().
		SumByType(gomock.Any(), "host-1", ledgerModel.TypeBookingPayment).
		Return(-240, nil)

	res, err := svc.HostStats(context.Background(), "host-1")

	assert.NoError(t, err)
	assert.Equal(t, 10, res.TotalBookings)
	assert.Equal(t, 2, res.PendingRequests)
	assert.Equal(t, 5, res.CompletedBookings)
	assert.Equal(t, 600, res.TotalPointsEarned)
	assert.Equal(t, 240, res.TotalPointsSpent)
	assert.InDelta(t, 0.75, res.AcceptanceRate, 0.0001)
	assert.InDelta(t, 5400, res.AverageResponseSeconds, 0.0001)
}
