package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"rhx/infras/otel"
	"rhx/infras/postgres"
	"rhx/internal/domains/ledger/model"
	"rhx/shared/constant"
	gDto "rhx/shared/dto"
	"rhx/shared/logger"
	gRepo "rhx/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Ledger interface {
	Insert(ctx context.Context, model model.PointsTransaction) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.PointsTransaction) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.PointsTransaction, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.PointsTransaction, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	SumByUser(ctx context.Context, userID string) (int, error)
	SumByUserAndType(ctx context.Context, userID, txType string) (int, error)
	SumByUserTx(ctx context.Context, tx *sqlx.Tx, userID string) (int, error)
	ExistForBookingTx(ctx context.Context, tx *sqlx.Tx, bookingID, userID, txType string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.PointsTransaction]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Ledger {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.PointsTransaction](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const sumByUserQuery = `SELECT COALESCE(SUM(amount), 0) FROM points_transactions WHERE user_id = $1`

// SumByUser derives the user's spendable balance from the ledger. A user
// without any entries has a balance of zero.
func (r *repositoryImpl) SumByUser(ctx context.Context, userID string) (total int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".points_transaction.SumByUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, sumByUserQuery)

	if err = r.db.Read.GetContext(ctx, &total, sumByUserQuery, userID); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to sum points transactions (%s): %w", model.EntityName, err)
	}

	return total, nil
}

const sumByUserAndTypeQuery = `SELECT COALESCE(SUM(amount), 0) FROM points_transactions WHERE user_id = $1 AND type = $2`

// SumByUserAndType totals one entry type for a user; used by the stats read
// model to fold earned and spent points from the ledger.
func (r *repositoryImpl) SumByUserAndType(ctx context.Context, userID, txType string) (total int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".points_transaction.SumByUserAndType")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, sumByUserAndTypeQuery)

	if err = r.db.Read.GetContext(ctx, &total, sumByUserAndTypeQuery, userID, txType); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to sum points transactions (%s): %w", model.EntityName, err)
	}

	return total, nil
}

// SumByUserTx is SumByUser inside a caller-owned transaction, so that an
// overdraft check and the debit it protects commit atomically.
func (r *repositoryImpl) SumByUserTx(ctx context.Context, tx *sqlx.Tx, userID string) (total int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".points_transaction.SumByUserTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, sumByUserQuery)

	if err = tx.GetContext(ctx, &total, sumByUserQuery, userID); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to sum points transactions (%s): %w", model.EntityName, err)
	}

	return total, nil
}

const existForBookingQuery = `SELECT EXISTS(SELECT 1 FROM points_transactions WHERE booking_id = $1 AND user_id = $2 AND type = $3)`

// ExistForBookingTx reports whether an entry of the given type has already
// been recorded for a booking and user. Callers use it to keep refunds,
// earnings and penalties idempotent per booking.
func (r *repositoryImpl) ExistForBookingTx(ctx context.Context, tx *sqlx.Tx, bookingID, userID, txType string) (exist bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".points_transaction.ExistForBookingTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, existForBookingQuery)

	if err = tx.GetContext(ctx, &exist, existForBookingQuery, bookingID, userID, txType); err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check existing points transaction (%s): %w", model.EntityName, err)
	}

	return exist, nil
}
