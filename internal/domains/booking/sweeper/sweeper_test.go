package sweeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rhx/config"
	"rhx/infras/otel/mocks"
	bookingMocks "rhx/internal/domains/booking/mocks"
	"rhx/internal/domains/booking/model"
	"rhx/internal/domains/booking/service"
	"rhx/internal/domains/booking/sweeper"
)

func newSweeper(t *testing.T, batchSize int) (sweeper.Sweeper, *bookingMocks.MockBooking, *bookingMocks.MockBookingService) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockService := bookingMocks.NewMockBookingService(ctrl)

	cfg := &config.Config{}
	cfg.Booking.SweepBatchSize = batchSize
	cfg.Booking.SweepIntervalMinutes = 60

	return sweeper.New(mockRepo, mockService, cfg, mocks.NewOtel()), mockRepo, mockService
}

func expiredBooking(id string) model.Booking {
	return model.Booking{
		ID:                   id,
		Status:               model.StatusPending,
		HostResponseDeadline: time.Now().Add(-time.Hour),
	}
}

func TestSweeper_Sweep(t *testing.T) {
	t.Run("all candidates expire", func(t *testing.T) {
		swp, mockRepo, mockService := newSweeper(t, 200)

		mockRepo.EXPECT().
			FindExpiredPending(gomock.Any(), gomock.Any(), 200).
			Return([]model.Booking{expiredBooking("b-1"), expiredBooking("b-2")}, nil)

		mockService.EXPECT().Expire(gomock.Any(), "b-1").Return(nil)
		mockService.EXPECT().Expire(gomock.Any(), "b-2").Return(nil)

		report, err := swp.Sweep(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, report.ProcessedCount)
		assert.Empty(t, report.Errors)
	})

	t.Run("one failure does not stop the batch", func(t *testing.T) {
		swp, mockRepo, mockService := newSweeper(t, 200)

		mockRepo.EXPECT().
			FindExpiredPending(gomock.Any(), gomock.Any(), 200).
			Return([]model.Booking{expiredBooking("b-1"), expiredBooking("b-2"), expiredBooking("b-3")}, nil)

		mockService.EXPECT().Expire(gomock.Any(), "b-1").Return(nil)
		mockService.EXPECT().Expire(gomock.Any(), "b-2").Return(errors.New("database error"))
		mockService.EXPECT().Expire(gomock.Any(), "b-3").Return(nil)

		report, err := swp.Sweep(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, report.ProcessedCount)

		if assert.Len(t, report.Errors, 1) {
			assert.Equal(t, "b-2", report.Errors[0].BookingID)
			assert.Contains(t, report.Errors[0].Reason, "database error")
		}
	})

	t.Run("a booking decided mid-sweep is not an error", func(t *testing.T) {
		swp, mockRepo, mockService := newSweeper(t, 200)

		mockRepo.EXPECT().
			FindExpiredPending(gomock.Any(), gomock.Any(), 200).
			Return([]model.Booking{expiredBooking("b-1")}, nil)

		mockService.EXPECT().Expire(gomock.Any(), "b-1").Return(service.ErrStaleState)

		report, err := swp.Sweep(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0, report.ProcessedCount)
		assert.Empty(t, report.Errors)
	})

	t.Run("a full batch triggers another selection round", func(t *testing.T) {
		swp, mockRepo, mockService := newSweeper(t, 2)

		first := mockRepo.EXPECT().
			FindExpiredPending(gomock.Any(), gomock.Any(), 2).
			Return([]model.Booking{expiredBooking("b-1"), expiredBooking("b-2")}, nil)

		mockRepo.EXPECT().
			FindExpiredPending(gomock.Any(), gomock.Any(), 2).
			Return([]model.Booking{}, nil).
			After(first)

		mockService.EXPECT().Expire(gomock.Any(), "b-1").Return(nil)
		mockService.EXPECT().Expire(gomock.Any(), "b-2").Return(nil)

		report, err := swp.Sweep(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, report.ProcessedCount)
	})

	t.Run("a batch of stale losses does not loop forever", func(t *testing.T) {
		swp, mockRepo, mockService := newSweeper(t, 2)

		mockRepo.EXPECT().
			FindExpiredPending(gomock.Any(), gomock.Any(), 2).
			Return([]model.Booking{expiredBooking("b-1"), expiredBooking("b-2")}, nil)

		mockService.EXPECT().Expire(gomock.Any(), "b-1").Return(service.ErrStaleState)
		mockService.EXPECT().Expire(gomock.Any(), "b-2").Return(service.ErrStaleState)

		report, err := swp.Sweep(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0, report.ProcessedCount)
		assert.Empty(t, report.Errors)
	})

	t.Run("selection failure aborts the sweep", func(t *testing.T) {
		swp, mockRepo, _ := newSweeper(t, 200)

		mockRepo.EXPECT().
			FindExpiredPending(gomock.Any(), gomock.Any(), 200).
			Return(nil, errors.New("database error"))

		_, err := swp.Sweep(context.Background())

		assert.Error(t, err)
	})
}
