package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"time"

	"rhx/config"
	"rhx/infras/otel"
	"rhx/infras/postgres"
	"rhx/internal/domains/booking/model"
	"rhx/internal/domains/booking/model/dto"
	"rhx/internal/domains/booking/repository"
	ledgerModel "rhx/internal/domains/ledger/model"
	ledgerDto "rhx/internal/domains/ledger/model/dto"
	ledgerService "rhx/internal/domains/ledger/service"
	propertyModel "rhx/internal/domains/property/model"
	propertyRepo "rhx/internal/domains/property/repository"
	raceModel "rhx/internal/domains/race/model"
	raceRepo "rhx/internal/domains/race/repository"
	"rhx/internal/notification"
	"rhx/shared"
	"rhx/shared/cache"
	"rhx/shared/constant"
	gDto "rhx/shared/dto"
	"rhx/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Accept(ctx context.Context, bookingID, actor string, req dto.HostDecisionRequest) error
	Reject(ctx context.Context, bookingID, actor string, req dto.HostDecisionRequest) error
	Confirm(ctx context.Context, bookingID, actor string) error
	Complete(ctx context.Context, bookingID, actor string) error
	Cancel(ctx context.Context, bookingID, actor string) error
	Expire(ctx context.Context, bookingID string) error
	Get(ctx context.Context, bookingID, actor string) (dto.BookingDetailResponse, error)
	GetByGuest(ctx context.Context, guestID string, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	GetByHost(ctx context.Context, hostID string, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	HostStats(ctx context.Context, hostID string) (dto.HostStatsResponse, error)
}

type serviceImpl struct {
	repo         repository.Booking
	raceRepo     raceRepo.Race
	propertyRepo propertyRepo.Property
	ledger       ledgerService.Ledger
	publisher    notification.Publisher
	txr          postgres.TxRunner
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	raceRepo raceRepo.Race,
	propertyRepo propertyRepo.Property,
	ledger ledgerService.Ledger,
	publisher notification.Publisher,
	txr postgres.TxRunner,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		raceRepo:     raceRepo,
		propertyRepo: propertyRepo,
		ledger:       ledger,
		publisher:    publisher,
		txr:          txr,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) responseWindow() time.Duration {
	return time.Duration(s.cfg.Booking.ResponseWindowHours) * time.Hour
}

// Create validates every request guard before any row is written. No points
// move here; payment is deferred until confirmation.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	guest, _ := ctx.Value(constant.ContextKeyUserID).(string)

	race, err := s.raceRepo.Get(ctx, shared.FilterByID(req.RaceID, raceModel.FieldID, raceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get race")

		return res, fmt.Errorf("failed to get race: %w", err)
	}

	if race.ID == constant.Empty || !race.Active {
		return res, ErrRaceInactive
	}

	if race.HostID == guest {
		return res, ErrOwnRace
	}

	property, err := s.propertyRepo.Get(ctx, shared.FilterByID(race.PropertyID, propertyModel.FieldID, propertyModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return res, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty || !property.Active {
		return res, ErrPropertyInactive
	}

	booking, err := req.ToModel(guest, race, s.responseWindow())
	if err != nil {
		return res, ErrInvalidDates
	}

	if !booking.CheckOutDate.After(booking.CheckInDate) {
		return res, ErrInvalidDates
	}

	if booking.CheckInDate.Before(startOfToday()) {
		return res, ErrCheckInPast
	}

	maxGuests := min(property.MaxGuests, race.MaxGuests)
	if booking.GuestsCount > maxGuests {
		return res, ErrGuestsExceedMax
	}

	exists, err := s.repo.ActiveExists(ctx, race.ID, guest)
	if err != nil {
		log.Error().Err(err).Msg("failed to check active bookings")

		return res, fmt.Errorf("failed to check active bookings: %w", err)
	}

	if exists {
		return res, ErrDuplicateActiveBooking
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.invalidateLists(ctx)

	res.FromModel(booking)

	return res, nil
}

// Accept moves a pending booking to accepted. Host only, and only while the
// response window is still open. Accepting an already-accepted booking is a
// no-op success.
func (s *serviceImpl) Accept(ctx context.Context, bookingID, actor string, req dto.HostDecisionRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Accept")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status == model.StatusAccepted {
		return nil
	}

	if booking.HostID != actor {
		return ErrNotHost
	}

	if booking.Status != model.StatusPending {
		return ErrInvalidTransition
	}

	now := timezone.Now()
	if !now.Before(booking.HostResponseDeadline) {
		return ErrResponseWindowClosed
	}

	fields := map[string]any{
		model.FieldAcceptedAt:    now,
		constant.FieldModifiedBy: actor,
	}
	if req.Message != constant.Empty {
		fields[model.FieldHostResponseMessage] = req.Message
	}

	err = s.transition(ctx, bookingID, model.StatusPending, model.StatusAccepted, fields, nil)
	if err != nil {
		return err
	}

	s.invalidate(ctx, bookingID)

	return nil
}

// Reject moves a pending booking to rejected. The guest never paid, so no
// ledger entry is involved.
func (s *serviceImpl) Reject(ctx context.Context, bookingID, actor string, req dto.HostDecisionRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status == model.StatusRejected {
		return nil
	}

	if booking.HostID != actor {
		return ErrNotHost
	}

	if booking.Status != model.StatusPending {
		return ErrInvalidTransition
	}

	fields := map[string]any{
		model.FieldRejectedAt:    timezone.Now(),
		constant.FieldModifiedBy: actor,
	}
	if req.Message != constant.Empty {
		fields[model.FieldHostResponseMessage] = req.Message
	}

	err = s.transition(ctx, bookingID, model.StatusPending, model.StatusRejected, fields, nil)
	if err != nil {
		return err
	}

	s.invalidate(ctx, bookingID)

	return nil
}

// Confirm moves an accepted booking to confirmed and debits the guest the
// snapshotted points cost. This is the actual payment point. Status flip and
// debit commit in one transaction; an insufficient balance aborts both and
// the booking stays accepted.
func (s *serviceImpl) Confirm(ctx context.Context, bookingID, actor string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status == model.StatusConfirmed {
		return nil
	}

	if !booking.IsParticipant(actor) {
		return ErrNotParticipant
	}

	if booking.Status != model.StatusAccepted {
		return ErrInvalidTransition
	}

	fields := map[string]any{
		model.FieldConfirmedAt:   timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	err = s.transition(ctx, bookingID, model.StatusAccepted, model.StatusConfirmed, fields, func(txCtx context.Context, tx *sqlx.Tx) error {
		return s.ledger.RecordTx(txCtx, tx, ledgerDto.RecordRequest{
			UserID:      booking.GuestID,
			Amount:      -booking.PointsCost,
			Type:        ledgerModel.TypeBookingPayment,
			BookingID:   &booking.ID,
			Description: "payment for confirmed booking",
		})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, bookingID)

	return nil
}

// Complete closes out a confirmed booking after the stay has finished and
// credits the host's earning in the same transaction.
func (s *serviceImpl) Complete(ctx context.Context, bookingID, actor string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status == model.StatusCompleted {
		return nil
	}

	if !booking.IsParticipant(actor) {
		return ErrNotParticipant
	}

	if booking.Status != model.StatusConfirmed {
		return ErrInvalidTransition
	}

	if timezone.Now().Before(booking.CheckOutDate) {
		return ErrStayNotFinished
	}

	fields := map[string]any{
		model.FieldCompletedAt:   timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	err = s.transition(ctx, bookingID, model.StatusConfirmed, model.StatusCompleted, fields, func(txCtx context.Context, tx *sqlx.Tx) error {
		return s.ledger.RecordTx(txCtx, tx, ledgerDto.RecordRequest{
			UserID:      booking.HostID,
			Amount:      booking.PointsCost,
			Type:        ledgerModel.TypeBookingEarning,
			BookingID:   &booking.ID,
			Description: "earning for completed booking",
		})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, bookingID)

	return nil
}

// Cancel moves any non-terminal booking to cancelled. The guest is refunded
// only when points had already been debited, which is the case exactly when
// the booking was confirmed.
func (s *serviceImpl) Cancel(ctx context.Context, bookingID, actor string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status == model.StatusCancelled {
		return nil
	}

	if !booking.IsParticipant(actor) {
		return ErrNotParticipant
	}

	if booking.IsTerminal() {
		return ErrInvalidTransition
	}

	fields := map[string]any{
		model.FieldCancelledAt:   timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	var sideEffect func(context.Context, *sqlx.Tx) error
	if booking.Status == model.StatusConfirmed {
		sideEffect = func(txCtx context.Context, tx *sqlx.Tx) error {
			_, refundErr := s.ledger.RefundTx(txCtx, tx, booking.ID, booking.GuestID, booking.PointsCost, "refund for cancelled booking")

			return refundErr
		}
	}

	err = s.transition(ctx, bookingID, booking.Status, model.StatusCancelled, fields, sideEffect)
	if err != nil {
		return err
	}

	s.invalidate(ctx, bookingID)

	return nil
}

// Expire force-rejects a pending booking whose host response deadline has
// passed. In one transaction it flips the status, refunds the guest, debits
// the host penalty and reopens the race for search. The two notification
// intents are published only after the transaction commits.
func (s *serviceImpl) Expire(ctx context.Context, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Expire")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}

	// Already decided by a host action or an earlier sweep.
	if booking.Status != model.StatusPending {
		return nil
	}

	if timezone.Now().Before(booking.HostResponseDeadline) {
		return ErrInvalidTransition
	}

	race, err := s.raceRepo.Get(ctx, shared.FilterByID(booking.RaceID, raceModel.FieldID, raceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get race for expiry")

		return fmt.Errorf("failed to get race for expiry: %w", err)
	}

	now := timezone.Now()

	fields := map[string]any{
		model.FieldRejectedAt:    now,
		constant.FieldModifiedBy: constant.SystemActor,
	}

	err = s.transition(ctx, bookingID, model.StatusPending, model.StatusRejected, fields, func(txCtx context.Context, tx *sqlx.Tx) error {
		if _, refundErr := s.ledger.RefundTx(txCtx, tx, booking.ID, booking.GuestID, booking.PointsCost, "refund for expired booking request"); refundErr != nil {
			return refundErr
		}

		if _, penaltyErr := s.ledger.PenaltyTx(txCtx, tx, booking.ID, booking.HostID, s.cfg.Booking.HostPenaltyPoints, "penalty for unanswered booking request"); penaltyErr != nil {
			return penaltyErr
		}

		reopen := map[string]any{
			raceModel.FieldActive:    true,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: constant.SystemActor,
		}

		return s.raceRepo.UpdateTx(txCtx, tx, reopen, shared.FilterByID(race.ID, raceModel.FieldID, raceModel.TableName))
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, bookingID)

	intents := []notification.Intent{
		notification.HostExpiryIntent(booking.HostID, booking.ID),
		notification.GuestExpiryIntent(booking.GuestID, booking.ID, race.Name, booking.PointsCost),
	}

	if pubErr := s.publisher.Publish(ctx, intents...); pubErr != nil {
		log.Error().Err(pubErr).Str("bookingID", booking.ID).Msg("failed to publish expiry notifications")
	}

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, bookingID, actor string) (res dto.BookingDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.fetch(ctx, bookingID)
	if err != nil {
		return res, err
	}

	if !booking.IsParticipant(actor) {
		return res, ErrNotParticipant
	}

	res.FromModel(booking)

	race, err := s.raceRepo.Get(ctx, shared.FilterByID(booking.RaceID, raceModel.FieldID, raceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get race for booking detail")

		return res, fmt.Errorf("failed to get race for booking detail: %w", err)
	}

	if race.ID != constant.Empty {
		res.Race = &dto.RaceSummary{
			ID:         race.ID,
			Name:       race.Name,
			RaceDate:   race.RaceDate.Format("2006-01-02"),
			PointsCost: race.PointsCost,
			MaxGuests:  race.MaxGuests,
			Active:     race.Active,
		}
	}

	property, err := s.propertyRepo.Get(ctx, shared.FilterByID(booking.PropertyID, propertyModel.FieldID, propertyModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property for booking detail")

		return res, fmt.Errorf("failed to get property for booking detail: %w", err)
	}

	if property.ID != constant.Empty {
		res.Property = &dto.PropertySummary{
			ID:        property.ID,
			Title:     property.Title,
			City:      property.City,
			MaxGuests: property.MaxGuests,
		}
	}

	return res, nil
}

func (s *serviceImpl) GetByGuest(ctx context.Context, guestID string, params gDto.QueryParams) (dto.GetBookingsResponse, error) {
	return s.list(ctx, model.FieldGuestID, guestID, params)
}

func (s *serviceImpl) GetByHost(ctx context.Context, hostID string, params gDto.QueryParams) (dto.GetBookingsResponse, error) {
	return s.list(ctx, model.FieldHostID, hostID, params)
}

// HostStats folds the host's bookings and ledger entries into the stats
// view. Acceptance rate excludes still-pending requests from the
// denominator.
func (s *serviceImpl) HostStats(ctx context.Context, hostID string) (res dto.HostStatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HostStats")
	defer scope.End()
	defer scope.TraceIfError(err)

	row, err := s.repo.StatsByHost(ctx, hostID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fold host stats")

		return res, fmt.Errorf("failed to fold host stats: %w", err)
	}

	earned, err := s.ledger.SumByType(ctx, hostID, ledgerModel.TypeBookingEarning)
	if err != nil {
		log.Error().Err(err).Msg("failed to sum earnings")

		return res, fmt.Errorf("failed to sum earnings: %w", err)
	}

	spent, err := s.ledger.SumByType(ctx, hostID, ledgerModel.TypeBookingPayment)
	if err != nil {
		log.Error().Err(err).Msg("failed to sum payments")

		return res, fmt.Errorf("failed to sum payments: %w", err)
	}

	res = dto.HostStatsResponse{
		TotalBookings:          row.TotalBookings,
		PendingRequests:        row.PendingRequests,
		CompletedBookings:      row.CompletedBookings,
		TotalPointsEarned:      earned,
		TotalPointsSpent:       -spent,
		AverageResponseSeconds: row.AvgResponseSeconds,
	}

	if decided := row.AcceptedOrLater + row.Rejected; decided > 0 {
		res.AcceptanceRate = float64(row.AcceptedOrLater) / float64(decided)
	}

	return res, nil
}

// transition performs the compare-and-set status flip and the optional
// ledger/race side effect atomically. A CAS miss is resolved by refetching:
// if the booking already reached the target status the call is treated as
// success, otherwise the caller gets ErrStaleState.
func (s *serviceImpl) transition(
	ctx context.Context,
	bookingID, fromStatus, toStatus string,
	fields map[string]any,
	sideEffect func(context.Context, *sqlx.Tx) error,
) error {
	var moved bool

	err := s.txr.WithTx(ctx, func(tx *sqlx.Tx) error {
		var txErr error

		moved, txErr = s.repo.TransitionTx(ctx, tx, bookingID, fromStatus, toStatus, fields)
		if txErr != nil {
			return txErr
		}

		if !moved {
			return nil
		}

		if sideEffect != nil {
			return sideEffect(ctx, tx)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if !moved {
		return s.resolveStale(ctx, bookingID, toStatus)
	}

	return nil
}

// resolveStale decides whether a CAS miss means the desired outcome already
// happened.
func (s *serviceImpl) resolveStale(ctx context.Context, bookingID, targetStatus string) error {
	booking, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status == targetStatus {
		return nil
	}

	return ErrStaleState
}

func (s *serviceImpl) fetch(ctx context.Context, bookingID string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, ErrBookingNotFound
	}

	return booking, nil
}

func (s *serviceImpl) list(ctx context.Context, field, userID string, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".list")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(userID, field, model.TableName)

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetAllBooking, field, userID), params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, bookingID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, bookingID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	}()
}

func startOfToday() time.Time {
	now := timezone.Now()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

