package race

import (
	"net/http"
	"rhx/infras/otel"
	"rhx/internal/domains/race/model"
	"rhx/internal/domains/race/model/dto"
	"rhx/internal/domains/race/service"
	"rhx/shared/constant"
	gDto "rhx/shared/dto"
	"rhx/shared/validator"
	"rhx/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Race
	otel    otel.Otel
}

func New(service service.Race, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/races", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRace)
		routerGroup.Get("/", handler.GetRaces)
		routerGroup.Get("/{id}", handler.GetRaceByID)
		routerGroup.Patch("/{id}", handler.UpdateRace)
		routerGroup.Delete("/{id}", handler.DeleteRace)
	})
}

// CreateRace publishes a lodging offer tied to a race.
// @Summary Create a race offer
// @Description Publish a lodging offer for a race on one of the host's properties.
// @Tags Race
// @Accept json
// @Produce json
// @Param request body dto.CreateRaceRequest true "Create Race Request"
// @Success 201 {object} response.Message "Race created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/races [post]
// @Security BearerAuth
func (handler *Handler) CreateRace(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRace")
	defer scope.End()

	req := dto.CreateRaceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create race")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Race created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Race created successfully")
}

// GetRaces searches races with optional filtering and pagination.
// @Summary Get all races
// @Description Retrieve races with optional filtering by city, host and active flag, with pagination.
// @Tags Race
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param city query string false "Filter by city"
// @Param host_id query string false "Filter by host ID"
// @Param active query string false "Filter by active flag (true/false)"
// @Success 200 {object} response.Data[dto.GetRacesResponse] "List of races"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/races [get]
func (handler *Handler) GetRaces(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRaces")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	city := r.URL.Query().Get(model.FieldCity)
	hostID := r.URL.Query().Get(model.FieldHostID)
	active := r.URL.Query().Get(model.FieldActive)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if city != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCity,
			Operator: gDto.FilterOperatorEq,
			Value:    city,
			Table:    model.TableName,
		})
	}

	if hostID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldHostID,
			Operator: gDto.FilterOperatorEq,
			Value:    hostID,
			Table:    model.TableName,
		})
	}

	if active != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    active == "true",
			Table:    model.TableName,
		})
	}

	races, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get races")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Races retrieved successfully")

	response.WithJSON(w, http.StatusOK, races)
}

// GetRaceByID retrieves a race by its ID.
// @Summary Get a race by ID
// @Description Retrieve a race by its unique identifier.
// @Tags Race
// @Accept json
// @Produce json
// @Param id path string true "Race ID"
// @Success 200 {object} response.Data[dto.RaceResponse] "Race details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/races/{id} [get]
func (handler *Handler) GetRaceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRaceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	race, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get race by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Race retrieved successfully")

	response.WithJSON(w, http.StatusOK, race)
}

// UpdateRace updates an existing race by its ID.
// @Summary Update a race by ID
// @Description Update a race's details. Only the race host may update it.
// @Tags Race
// @Accept json
// @Produce json
// @Param id path string true "Race ID"
// @Param request body dto.UpdateRaceRequest true "Update Race Request"
// @Success 200 {object} response.Message "Race updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/races/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRace(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRace")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	req := dto.UpdateRaceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id, actor); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update race")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Race updated successfully by user " + actor)

	response.WithMessage(w, http.StatusOK, "Race updated successfully")
}

// DeleteRace deletes a race by its ID.
// @Summary Delete a race by ID
// @Description Delete a race. Only the race host may delete it.
// @Tags Race
// @Accept json
// @Produce json
// @Param id path string true "Race ID"
// @Success 200 {object} response.Message "Race deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/races/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRace(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRace")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err := handler.service.Delete(ctx, id, actor); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete race")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Race deleted successfully by user " + actor)

	response.WithMessage(w, http.StatusOK, "Race deleted successfully")
}
