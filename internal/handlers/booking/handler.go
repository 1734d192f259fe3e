package booking

import (
	"context"
	"net/http"
	"rhx/infras/otel"
	"rhx/internal/domains/booking/model/dto"
	"rhx/internal/domains/booking/service"
	"rhx/shared/constant"
	gDto "rhx/shared/dto"
	"rhx/shared/failure"
	"rhx/shared/validator"
	"rhx/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/mine", handler.GetMyBookings)
		routerGroup.Get("/hosted", handler.GetHostedBookings)
		routerGroup.Get("/stats", handler.GetHostStats)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Post("/{id}/accept", handler.AcceptBooking)
		routerGroup.Post("/{id}/reject", handler.RejectBooking)
		routerGroup.Post("/{id}/confirm", handler.ConfirmBooking)
		routerGroup.Post("/{id}/complete", handler.CompleteBooking)
		routerGroup.Post("/{id}/cancel", handler.CancelBooking)
	})
}

// CreateBooking submits a lodging request for a race.
// @Summary Create a booking request
// @Description Submit a lodging request for a race. No points are charged until the booking is confirmed.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking request created"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking request created by user " + user)

	response.WithJSON(w, http.StatusCreated, booking)
}

// GetMyBookings lists the bookings the authenticated user requested as guest.
// @Summary Get my bookings
// @Description Retrieve the authenticated user's bookings as guest, with pagination.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of the user's bookings"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.GetByGuest(ctx, userID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guest bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guest bookings retrieved for user " + userID)

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetHostedBookings lists the booking requests received by the authenticated host.
// @Summary Get hosted bookings
// @Description Retrieve the booking requests received by the authenticated user as host, with pagination.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of hosted bookings"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/hosted [get]
// @Security BearerAuth
func (handler *Handler) GetHostedBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHostedBookings")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.GetByHost(ctx, userID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hosted bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Hosted bookings retrieved for user " + userID)

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetHostStats returns the aggregate booking statistics of the authenticated host.
// @Summary Get host statistics
// @Description Retrieve aggregate booking and points statistics for the authenticated user as host.
// @Tags Booking
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.HostStatsResponse] "Host statistics"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/stats [get]
// @Security BearerAuth
func (handler *Handler) GetHostStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHostStats")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	stats, err := handler.service.HostStats(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get host stats")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Host stats retrieved for user " + userID)

	response.WithJSON(w, http.StatusOK, stats)
}

// GetBookingByID retrieves one booking with its race and property summaries.
// @Summary Get a booking by ID
// @Description Retrieve a booking with joined race and property summaries. Only the guest or host may view it.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingDetailResponse] "Booking details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := handler.service.Get(ctx, id, actor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// AcceptBooking accepts a pending booking request as host.
// @Summary Accept a booking request
// @Description Accept a pending booking request. Host only, and only while the response window is open.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.HostDecisionRequest false "Optional response message"
// @Success 200 {object} response.Message "Booking accepted"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/accept [post]
// @Security BearerAuth
func (handler *Handler) AcceptBooking(w http.ResponseWriter, r *http.Request) {
	handler.decide(w, r, "AcceptBooking", handler.service.Accept, "Booking accepted")
}

// RejectBooking rejects a pending booking request as host.
// @Summary Reject a booking request
// @Description Reject a pending booking request. Host only. The guest never paid, so no points move.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.HostDecisionRequest false "Optional response message"
// @Success 200 {object} response.Message "Booking rejected"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	handler.decide(w, r, "RejectBooking", handler.service.Reject, "Booking rejected")
}

// ConfirmBooking confirms an accepted booking, charging the guest.
// @Summary Confirm a booking
// @Description Confirm an accepted booking. The guest is debited the snapshotted points cost exactly once.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking confirmed"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/confirm [post]
// @Security BearerAuth
func (handler *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	handler.act(w, r, "ConfirmBooking", handler.service.Confirm, "Booking confirmed")
}

// CompleteBooking completes a confirmed booking after the stay.
// @Summary Complete a booking
// @Description Mark a confirmed booking as completed after check-out, crediting the host's earning.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking completed"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/complete [post]
// @Security BearerAuth
func (handler *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	handler.act(w, r, "CompleteBooking", handler.service.Complete, "Booking completed")
}

// CancelBooking cancels a non-terminal booking.
// @Summary Cancel a booking
// @Description Cancel a pending, accepted or confirmed booking. Confirmed bookings are refunded to the guest.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking cancelled"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	handler.act(w, r, "CancelBooking", handler.service.Cancel, "Booking cancelled")
}

// decide handles the two host decisions, which share the optional message
// body.
func (handler *Handler) decide(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	fn func(ctx context.Context, bookingID, actor string, req dto.HostDecisionRequest) error,
	message string,
) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	req := dto.HostDecisionRequest{}
	if r.Body != nil && r.ContentLength > 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	if err := fn(ctx, id, actor, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to apply host decision")

		response.WithError(w, err)

		return
	}

	scope.AddEvent(message + " by user " + actor)

	response.WithMessage(w, http.StatusOK, message)
}

// act handles the transitions that take no body.
func (handler *Handler) act(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	fn func(ctx context.Context, bookingID, actor string) error,
	message string,
) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err := fn(ctx, id, actor); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to transition booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent(message + " by user " + actor)

	response.WithMessage(w, http.StatusOK, message)
}
