package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"rhx/infras/otel"
	"rhx/infras/postgres"
	"rhx/internal/domains/booking/model"
	"rhx/shared/constant"
	gDto "rhx/shared/dto"
	"rhx/shared/logger"
	gRepo "rhx/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	ActiveExists(ctx context.Context, raceID, guestID string) (bool, error)
	FindExpiredPending(ctx context.Context, deadline time.Time, limit int) ([]model.Booking, error)
	TransitionTx(ctx context.Context, tx *sqlx.Tx, bookingID, fromStatus, toStatus string, fields map[string]any) (bool, error)
	StatsByHost(ctx context.Context, hostID string) (model.HostStatsRow, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ActiveExists reports whether the guest already has a non-terminal booking
// for the race.
func (r *repositoryImpl) ActiveExists(ctx context.Context, raceID, guestID string) (bool, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRaceID,
				Operator: gDto.FilterOperatorEq,
				Value:    raceID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldGuestID,
				Operator: gDto.FilterOperatorEq,
				Value:    guestID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    model.ActiveStatuses,
				Table:    model.TableName,
			},
		},
	}

	return r.Exist(ctx, filter) // nolint:wrapcheck
}

// FindExpiredPending returns pending bookings whose host response deadline
// has passed. Already decided bookings are excluded by the status filter, so
// overlapping sweep runs never select the same booking twice after it flips.
func (r *repositoryImpl) FindExpiredPending(ctx context.Context, deadline time.Time, limit int) ([]model.Booking, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.StatusPending,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldHostResponseDeadline,
				Operator: gDto.FilterOperatorLessEq,
				Value:    deadline,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		Limit:   limit,
		SortBy:  model.FieldHostResponseDeadline,
		SortDir: gDto.SortDirAsc,
	}

	return r.GetAll(ctx, params, filter) // nolint:wrapcheck
}

// TransitionTx flips a booking's status with a compare-and-set on the
// expected current status, optionally setting extra columns in the same
// statement. It reports false when the booking was no longer in fromStatus
// at commit time, which callers surface as a stale-state conflict.
func (r *repositoryImpl) TransitionTx(ctx context.Context, tx *sqlx.Tx, bookingID, fromStatus, toStatus string, fields map[string]any) (moved bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.TransitionTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	setClauses := []string{fmt.Sprintf("%s = :to_status", model.FieldStatus)}

	args := map[string]any{
		"id":          bookingID,
		"from_status": fromStatus,
		"to_status":   toStatus,
	}

	for col := range maps.Keys(fields) {
		setClauses = append(setClauses, fmt.Sprintf("%s = :%s", col, col))
	}

	maps.Copy(args, fields)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = :id AND %s = :from_status",
		model.TableName,
		strings.Join(setClauses, ", "),
		model.FieldID,
		model.FieldStatus,
	)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := tx.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to transition booking (%s): %w", model.EntityName, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to read affected rows (%s): %w", model.EntityName, err)
	}

	return rows > 0, nil
}

const statsByHostQuery = `SELECT
	COUNT(*) AS total_bookings,
	COUNT(*) FILTER (WHERE status = 'pending') AS pending_requests,
	COUNT(*) FILTER (WHERE status = 'completed') AS completed_bookings,
	COUNT(*) FILTER (WHERE accepted_at IS NOT NULL) AS accepted_or_later,
	COUNT(*) FILTER (WHERE accepted_at IS NULL AND rejected_at IS NOT NULL) AS rejected,
	COALESCE(EXTRACT(EPOCH FROM AVG(COALESCE(accepted_at, rejected_at) - created_at) FILTER (WHERE COALESCE(accepted_at, rejected_at) IS NOT NULL)), 0) AS avg_response_seconds
FROM bookings WHERE host_id = $1`

// StatsByHost folds the host's bookings into the aggregate figures of the
// stats view. Everything is derived on demand; no stored counters.
func (r *repositoryImpl) StatsByHost(ctx context.Context, hostID string) (row model.HostStatsRow, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.StatsByHost")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, statsByHostQuery)

	if err = r.db.Read.GetContext(ctx, &row, statsByHostQuery, hostID); err != nil {
		logger.ErrorWithStack(err)

		return row, fmt.Errorf("failed to fold host stats (%s): %w", model.EntityName, err)
	}

	return row, nil
}
