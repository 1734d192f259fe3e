package sweep

import (
	"net/http"
	"rhx/infras/otel"
	"rhx/internal/domains/booking/sweeper"
	"rhx/shared/constant"
	"rhx/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

// Handler exposes the expiry sweep to an external scheduler. The sweep also
// runs on the in-process ticker; this endpoint exists for cron-style
// triggers and operational reruns.
type Handler struct {
	sweeper sweeper.Sweeper
	otel    otel.Otel
}

func New(sweeper sweeper.Sweeper, otel otel.Otel) Handler {
	return Handler{
		sweeper: sweeper,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/sweeps", func(routerGroup chi.Router) {
		routerGroup.Post("/bookings", handler.SweepBookings)
	})
}

// SweepBookings force-expires every pending booking past its deadline.
// @Summary Run the booking expiry sweep
// @Description Expire every pending booking past its host response deadline. Safe to invoke repeatedly. Admin only.
// @Tags Sweep
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[sweeper.Report] "Sweep report"
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/sweeps/bookings [post]
// @Security BearerAuth
func (handler *Handler) SweepBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SweepBookings")
	defer scope.End()

	report, err := handler.sweeper.Sweep(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to run booking sweep")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking sweep finished")

	response.WithJSON(w, http.StatusOK, report)
}
