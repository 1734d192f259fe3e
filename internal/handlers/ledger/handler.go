package ledger

import (
	"net/http"
	"rhx/infras/otel"
	"rhx/internal/domains/ledger/model/dto"
	"rhx/internal/domains/ledger/service"
	"rhx/shared/constant"
	gDto "rhx/shared/dto"
	"rhx/shared/failure"
	"rhx/shared/validator"
	"rhx/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Ledger
	otel    otel.Otel
}

func New(service service.Ledger, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/points", func(routerGroup chi.Router) {
		routerGroup.Get("/balance", handler.GetBalance)
		routerGroup.Get("/transactions", handler.GetTransactions)
		routerGroup.Post("/bonus", handler.GrantBonus)
	})
}

// GetBalance returns the authenticated user's derived points balance.
// @Summary Get points balance
// @Description Retrieve the authenticated user's points balance, derived from the transaction log.
// @Tags Points
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.BalanceResponse] "Points balance"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/points/balance [get]
// @Security BearerAuth
func (handler *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBalance")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	balance, err := handler.service.Balance(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get balance")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Balance retrieved for user " + userID)

	response.WithJSON(w, http.StatusOK, balance)
}

// GetTransactions lists the authenticated user's points transactions.
// @Summary Get points transactions
// @Description Retrieve the authenticated user's points transaction history, with pagination.
// @Tags Points
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetTransactionsResponse] "Points transactions"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/points/transactions [get]
// @Security BearerAuth
func (handler *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTransactions")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	transactions, err := handler.service.History(ctx, userID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get transactions")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Transactions retrieved for user " + userID)

	response.WithJSON(w, http.StatusOK, transactions)
}

// GrantBonus credits bonus points to a user.
// @Summary Grant bonus points
// @Description Credit bonus points to a user. Admin only.
// @Tags Points
// @Accept json
// @Produce json
// @Param request body dto.GrantBonusRequest true "Grant Bonus Request"
// @Success 200 {object} response.Message "Bonus granted"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/points/bonus [post]
// @Security BearerAuth
func (handler *Handler) GrantBonus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GrantBonus")
	defer scope.End()

	req := dto.GrantBonusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.GrantBonus(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to grant bonus")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Bonus granted by user " + user)

	response.WithMessage(w, http.StatusOK, "Bonus granted")
}
