package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rhx/config"
	"rhx/infras/otel/mocks"
	pgMocks "rhx/infras/postgres/mocks"
	ledgerMocks "rhx/internal/domains/ledger/mocks"
	"rhx/internal/domains/ledger/model"
	"rhx/internal/domains/ledger/model/dto"
	"rhx/internal/domains/ledger/service"
	cacheMocks "rhx/shared/cache/mocks"
	"rhx/shared/constant"
)

func newLedgerService(t *testing.T) (service.Ledger, *ledgerMocks.MockLedger, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := ledgerMocks.NewMockLedger(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, pgMocks.NewTxRunner(), cfg, mockCache, mocks.NewOtel())

	return svc, mockRepo, mockCache
}

func TestLedgerService_RecordTx(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "actor-id")

	tests := []struct {
		name      string
		req       dto.RecordRequest
		setupMock func(repo *ledgerMocks.MockLedger)
		wantErr   bool
	}{
		{
			name: "credit skips the balance check",
			req: dto.RecordRequest{
				UserID: "user-1",
				Amount: 100,
				Type:   model.TypeSubscriptionBonus,
			},
			setupMock: func(repo *ledgerMocks.MockLedger) {
				repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "debit within balance",
			req: dto.RecordRequest{
				UserID: "user-1",
				Amount: -40,
				Type:   model.TypeBookingPayment,
			},
			setupMock: func(repo *ledgerMocks.MockLedger) {
				repo.EXPECT().
					SumByUserTx(gomock.Any(), gomock.Any(), "user-1").
					Return(100, nil)

				repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "debit exactly to zero is allowed",
			req: dto.RecordRequest{
				UserID: "user-1",
				Amount: -100,
				Type:   model.TypeBookingPayment,
			},
			setupMock: func(repo *ledgerMocks.MockLedger) {
				repo.EXPECT().
					SumByUserTx(gomock.Any(), gomock.Any(), "user-1").
					Return(100, nil)

				repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "overdraft is rejected without an insert",
			req: dto.RecordRequest{
				UserID: "user-1",
				Amount: -101,
				Type:   model.TypeBookingPayment,
			},
			setupMock: func(repo *ledgerMocks.MockLedger) {
				repo.EXPECT().
					SumByUserTx(gomock.Any(), gomock.Any(), "user-1").
					Return(100, nil)
			},
			wantErr: true,
		},
		{
			name: "zero amount is rejected",
			req: dto.RecordRequest{
				UserID: "user-1",
				Amount: 0,
				Type:   model.TypeSubscriptionBonus,
			},
			setupMock: func(repo *ledgerMocks.MockLedger) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newLedgerService(t)
			tt.setupMock(mockRepo)

			err := svc.RecordTx(ctx, nil, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLedgerService_RecordTx_Overdraft(t *testing.T) {
	svc, mockRepo, _ := newLedgerService(t)

	mockRepo.EXPECT().
		SumByUserTx(gomock.Any(), gomock.Any(), "user-1").
		Return(30, nil)

	err := svc.RecordTx(context.Background(), nil, dto.RecordRequest{
		UserID: "user-1",
		Amount: -31,
		Type:   model.TypeBookingPayment,
	})

	assert.ErrorIs(t, err, service.ErrInsufficientBalance)
}

func TestLedgerService_RefundTx(t *testing.T) {
	bookingID := "booking-1"

	t.Run("first refund appends an entry", func(t *testing.T) {
		svc, mockRepo, _ := newLedgerService(t)

		mockRepo.EXPECT().
			ExistForBookingTx(gomock.Any(), gomock.Any(), bookingID, "guest-1", model.TypeBookingRefund).
			Return(false, nil)

		var recorded model.PointsTransaction

		mockRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, m model.PointsTransaction) error {
				recorded = m

				return nil
			})

		appended, err := svc.RefundTx(context.Background(), nil, bookingID, "guest-1", 120, "refund")

		assert.NoError(t, err)
		assert.True(t, appended)
		assert.Equal(t, 120, recorded.Amount)
		assert.Equal(t, model.TypeBookingRefund, recorded.Type)
		if assert.NotNil(t, recorded.BookingID) {
			assert.Equal(t, bookingID, *recorded.BookingID)
		}
	})

	t.Run("second refund for the same booking is a no-op", func(t *testing.T) {
		svc, mockRepo, _ := newLedgerService(t)

		mockRepo.EXPECT().
			ExistForBookingTx(gomock.Any(), gomock.Any(), bookingID, "guest-1", model.TypeBookingRefund).
			Return(true, nil)

		appended, err := svc.RefundTx(context.Background(), nil, bookingID, "guest-1", 120, "refund")

		assert.NoError(t, err)
		assert.False(t, appended)
	})
}

func TestLedgerService_PenaltyTx(t *testing.T) {
	bookingID := "booking-1"

	t.Run("full penalty when balance covers it", func(t *testing.T) {
		svc, mockRepo, _ := newLedgerService(t)

		mockRepo.EXPECT().
			ExistForBookingTx(gomock.Any(), gomock.Any(), bookingID, "host-1", model.TypeHostPenalty).
			Return(false, nil)

		mockRepo.EXPECT().
			SumByUserTx(gomock.Any(), gomock.Any(), "host-1").
			Return(200, nil)

		var recorded model.PointsTransaction

		mockRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, m model.PointsTransaction) error {
				recorded = m

				return nil
			})

		applied, err := svc.PenaltyTx(context.Background(), nil, bookingID, "host-1", 30, "penalty")

		assert.NoError(t, err)
		assert.Equal(t, 30, applied)
		assert.Equal(t, -30, recorded.Amount)
	})

	t.Run("penalty is clamped to the remaining balance", func(t *testing.T) {
		svc, mockRepo, _ := newLedgerService(t)

		mockRepo.EXPECT().
			ExistForBookingTx(gomock.Any(), gomock.Any(), bookingID, "host-1", model.TypeHostPenalty).
			Return(false, nil)

		mockRepo.EXPECT().
			SumByUserTx(gomock.Any(), gomock.Any(), "host-1").
			Return(10, nil)

		var recorded model.PointsTransaction

		mockRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, m model.PointsTransaction) error {
				recorded = m

				return nil
			})

		applied, err := svc.PenaltyTx(context.Background(), nil, bookingID, "host-1", 30, "penalty")

		assert.NoError(t, err)
		assert.Equal(t, 10, applied)
		assert.Equal(t, -10, recorded.Amount)
	})

	t.Run("zero balance skips the entry entirely", func(t *testing.T) {
		svc, mockRepo, _ := newLedgerService(t)

		mockRepo.EXPECT().
			ExistForBookingTx(gomock.Any(), gomock.Any(), bookingID, "host-1", model.TypeHostPenalty).
			Return(false, nil)

		mockRepo.EXPECT().
			SumByUserTx(gomock.Any(), gomock.Any(), "host-1").
			Return(0, nil)

		applied, err := svc.PenaltyTx(context.Background(), nil, bookingID, "host-1", 30, "penalty")

		assert.NoError(t, err)
		assert.Equal(t, 0, applied)
	})

	t.Run("already applied penalty is a no-op", func(t *testing.T) {
		svc, mockRepo, _ := newLedgerService(t)

		mockRepo.EXPECT().
			ExistForBookingTx(gomock.Any(), gomock.Any(), bookingID, "host-1", model.TypeHostPenalty).
			Return(true, nil)

		applied, err := svc.PenaltyTx(context.Background(), nil, bookingID, "host-1", 30, "penalty")

		assert.NoError(t, err)
		assert.Equal(t, 0, applied)
	})
}

func TestLedgerService_Balance(t *testing.T) {
	t.Run("cache miss derives the balance from the ledger", func(t *testing.T) {
		svc, mockRepo, mockCache := newLedgerService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		mockRepo.EXPECT().
			SumByUser(gomock.Any(), "user-1").
			Return(250, nil)

		res, err := svc.Balance(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 250, res.Balance)
		assert.Equal(t, "user-1", res.UserID)
	})

	t.Run("repository error is propagated", func(t *testing.T) {
		svc, mockRepo, mockCache := newLedgerService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		mockRepo.EXPECT().
			SumByUser(gomock.Any(), "user-1").
			Return(0, errors.New("database error"))

		_, err := svc.Balance(context.Background(), "user-1")

		assert.Error(t, err)
	})
}

func TestLedgerService_GrantBonus(t *testing.T) {
	svc, mockRepo, mockCache := newLedgerService(t)

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	var recorded model.PointsTransaction

	mockRepo.EXPECT().
		InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, m model.PointsTransaction) error {
			recorded = m

			return nil
		})

	err := svc.GrantBonus(context.Background(), dto.GrantBonusRequest{
		UserID:      "user-1",
		Amount:      500,
		Description: "welcome bonus",
	})

	assert.NoError(t, err)
	assert.Equal(t, 500, recorded.Amount)
	assert.Equal(t, model.TypeSubscriptionBonus, recorded.Type)
	assert.Nil(t, recorded.BookingID)
}
