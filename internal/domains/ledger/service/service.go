package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Ledger=MockLedgerService

import (
	"context"
	"fmt"
	"net/http"
	"rhx/config"
	"rhx/infras/otel"
	"rhx/infras/postgres"
	"rhx/internal/domains/ledger/model"
	"rhx/internal/domains/ledger/model/dto"
	"rhx/internal/domains/ledger/repository"
	"rhx/shared"
	"rhx/shared/cache"
	"rhx/shared/constant"
	gDto "rhx/shared/dto"
	"rhx/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBalance      = "ledger:balance"
	cacheGetTransactions = "ledger:gets"
)

// ErrInsufficientBalance rejects any debit that would drive the user's
// derived balance below zero. The triggering operation is aborted entirely.
var ErrInsufficientBalance = &failure.Failure{Code: http.StatusUnprocessableEntity, Message: "insufficient points balance"}

type Ledger interface {
	Record(ctx context.Context, req dto.RecordRequest) error
	RecordTx(ctx context.Context, tx *sqlx.Tx, req dto.RecordRequest) error
	RefundTx(ctx context.Context, tx *sqlx.Tx, bookingID, userID string, amount int, description string) (bool, error)
	PenaltyTx(ctx context.Context, tx *sqlx.Tx, bookingID, userID string, points int, description string) (int, error)
	Balance(ctx context.Context, userID string) (dto.BalanceResponse, error)
	SumByType(ctx context.Context, userID, txType string) (int, error)
	BalanceTx(ctx context.Context, tx *sqlx.Tx, userID string) (int, error)
	GrantBonus(ctx context.Context, req dto.GrantBonusRequest) error
	History(ctx context.Context, userID string, params gDto.QueryParams) (dto.GetTransactionsResponse, error)
}

type serviceImpl struct {
	repo  repository.Ledger
	txr   postgres.TxRunner
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Ledger, txr postgres.TxRunner, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Ledger {
	return &serviceImpl{
		repo:  repo,
		txr:   txr,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Record appends a single ledger entry inside its own transaction.
func (s *serviceImpl) Record(ctx context.Context, req dto.RecordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Record")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.txr.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.RecordTx(ctx, tx, req)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, req.UserID)

	return nil
}

// RecordTx appends a ledger entry inside a caller-owned transaction. Debits
// are checked against the derived balance within the same transaction, so
// the no-overdraft invariant holds even under concurrent appends.
func (s *serviceImpl) RecordTx(ctx context.Context, tx *sqlx.Tx, req dto.RecordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Amount == 0 {
		return failure.BadRequestFromString("transaction amount cannot be zero") // nolint:wrapcheck
	}

	if req.Amount < 0 {
		balance, err := s.repo.SumByUserTx(ctx, tx, req.UserID)
		if err != nil {
			log.Error().Err(err).Msg("failed to derive balance before debit")

			return fmt.Errorf("failed to derive balance before debit: %w", err)
		}

		if balance+req.Amount < 0 {
			return ErrInsufficientBalance
		}
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.InsertTx(ctx, tx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to record points transaction")

		return fmt.Errorf("failed to record points transaction: %w", err)
	}

	return nil
}

// RefundTx credits a booking refund exactly once per booking. It reports
// whether an entry was appended; a second call for the same booking is a
// no-op returning false.
func (s *serviceImpl) RefundTx(ctx context.Context, tx *sqlx.Tx, bookingID, userID string, amount int, description string) (appended bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefundTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.repo.ExistForBookingTx(ctx, tx, bookingID, userID, model.TypeBookingRefund)
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing refund")

		return false, fmt.Errorf("failed to check existing refund: %w", err)
	}

	if exists {
		return false, nil
	}

	err = s.RecordTx(ctx, tx, dto.RecordRequest{
		UserID:      userID,
		Amount:      amount,
		Type:        model.TypeBookingRefund,
		BookingID:   &bookingID,
		Description: description,
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// PenaltyTx debits a flat penalty exactly once per booking, clamped to the
// user's current balance so the debit never overdraws. It returns the points
// actually deducted; zero means the user had nothing left to deduct or the
// penalty was already applied.
func (s *serviceImpl) PenaltyTx(ctx context.Context, tx *sqlx.Tx, bookingID, userID string, points int, description string) (applied int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".PenaltyTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.repo.ExistForBookingTx(ctx, tx, bookingID, userID, model.TypeHostPenalty)
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing penalty")

		return 0, fmt.Errorf("failed to check existing penalty: %w", err)
	}

	if exists {
		return 0, nil
	}

	balance, err := s.repo.SumByUserTx(ctx, tx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to derive balance before penalty")

		return 0, fmt.Errorf("failed to derive balance before penalty: %w", err)
	}

	applied = min(points, balance)
	if applied <= 0 {
		return 0, nil
	}

	err = s.RecordTx(ctx, tx, dto.RecordRequest{
		UserID:      userID,
		Amount:      -applied,
		Type:        model.TypeHostPenalty,
		BookingID:   &bookingID,
		Description: description,
	})
	if err != nil {
		return 0, err
	}

	return applied, nil
}

// SumByType totals one entry type for a user; the stats read model folds
// earned and spent points through it.
func (s *serviceImpl) SumByType(ctx context.Context, userID, txType string) (int, error) {
	return s.repo.SumByUserAndType(ctx, userID, txType) // nolint:wrapcheck
}

func (s *serviceImpl) Balance(ctx context.Context, userID string) (res dto.BalanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Balance")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBalance, userID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for balance")

		return res, nil
	}

	total, err := s.repo.SumByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get balance")

		return res, fmt.Errorf("failed to get balance: %w", err)
	}

	res = dto.BalanceResponse{UserID: userID, Balance: total}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save balance to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) BalanceTx(ctx context.Context, tx *sqlx.Tx, userID string) (int, error) {
	return s.repo.SumByUserTx(ctx, tx, userID) // nolint:wrapcheck
}

func (s *serviceImpl) GrantBonus(ctx context.Context, req dto.GrantBonusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GrantBonus")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.Record(ctx, dto.RecordRequest{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Type:        model.TypeSubscriptionBonus,
		Description: req.Description,
	})
}

func (s *serviceImpl) History(ctx context.Context, userID string, params gDto.QueryParams) (res dto.GetTransactionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".History")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(userID, model.FieldUserID, model.TableName)

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetTransactions, userID), params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for transactions")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count points transactions")

		return res, fmt.Errorf("failed to count points transactions: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get points transactions")

		return res, fmt.Errorf("failed to get points transactions: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save transactions to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, userID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetBalance, userID))
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetTransactions, userID))
	}()
}
