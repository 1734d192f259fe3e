package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rhx/config"
	"rhx/infras/kafka"
	kafkaMocks "rhx/infras/kafka/mocks"
	"rhx/internal/notification"
)

func newPublisher(t *testing.T) (notification.Publisher, *kafkaMocks.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockClient := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Topics.Notifications = "rhx.notifications"

	return notification.NewKafkaPublisher(mockClient, cfg), mockClient
}

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Run("intents are keyed by recipient", func(t *testing.T) {
		publisher, mockClient := newPublisher(t)

		var sentTopic string

		var sent []kafka.Message

		mockClient.EXPECT().
			SendMessages(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, topic string, messages ...kafka.Message) error {
				sentTopic = topic
				sent = messages

				return nil
			})

		intents := []notification.Intent{
			notification.HostExpiryIntent("host-1", "booking-1"),
			notification.GuestExpiryIntent("guest-1", "booking-1", "Maratón de Valencia", 120),
		}

		err := publisher.Publish(context.Background(), intents...)

		assert.NoError(t, err)
		assert.Equal(t, "rhx.notifications", sentTopic)

		if assert.Len(t, sent, 2) {
			assert.Equal(t, "host-1", sent[0].Key)
			assert.Equal(t, "guest-1", sent[1].Key)
		}
	})

	t.Run("no intents means no broker round trip", func(t *testing.T) {
		publisher, _ := newPublisher(t)

		assert.NoError(t, publisher.Publish(context.Background()))
	})

	t.Run("broker failure is surfaced", func(t *testing.T) {
		publisher, mockClient := newPublisher(t)

		mockClient.EXPECT().
			SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("broker unavailable"))

		err := publisher.Publish(context.Background(), notification.HostExpiryIntent("host-1", "booking-1"))

		assert.Error(t, err)
	})
}

func TestExpiryIntents(t *testing.T) {
	t.Run("host penalty notice carries the exact wording", func(t *testing.T) {
		intent := notification.HostExpiryIntent("host-1", "booking-1")

		assert.Equal(t, notification.IntentHostExpiryPenalty, intent.Type)
		assert.Equal(t, "host-1", intent.UserID)
		assert.Equal(t, "booking-1", intent.BookingID)
		assert.Equal(t,
			"Recibiste una solicitud de carrera pero no respondiste antes de la fecha límite, por lo que tu carrera aparece nuevamente en la búsqueda de carreras como activa a menos que la elimines, y tú como anfitrión eres penalizado con una deducción de 30 puntos...",
			intent.Message,
		)
	})

	t.Run("guest refund notice interpolates race and points", func(t *testing.T) {
		intent := notification.GuestExpiryIntent("guest-1", "booking-1", "Maratón de Valencia", 120)

		assert.Equal(t, notification.IntentGuestExpiryRefund, intent.Type)
		assert.Equal(t, "guest-1", intent.UserID)
		assert.Equal(t,
			"Tu solicitud para Maratón de Valencia ha expirado porque el anfitrión no respondió a tiempo. Se han reembolsado 120 puntos a tu cuenta automáticamente.",
			intent.Message,
		)
	})
}
