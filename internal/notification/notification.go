package notification

//go:generate go run go.uber.org/mock/mockgen -source=./notification.go -destination=./mocks/notification_mock.go -package=mocks

import (
	"context"
	"fmt"

	"rhx/config"
	"rhx/infras/kafka"

	"github.com/rs/zerolog/log"
)

const (
	IntentHostExpiryPenalty = "host_expiry_penalty"
	IntentGuestExpiryRefund = "guest_expiry_refund"
)

// The expiry messages are a literal user-facing contract; the wording must
// not be altered.
const (
	hostExpiryMessage = "Recibiste una solicitud de carrera pero no respondiste antes de la fecha límite, por lo que tu carrera aparece nuevamente en la búsqueda de carreras como activa a menos que la elimines, y tú como anfitrión eres penalizado con una deducción de 30 puntos..."

	guestExpiryMessageFormat = "Tu solicitud para %s ha expirado porque el anfitrión no respondió a tiempo. Se han reembolsado %d puntos a tu cuenta automáticamente."
)

// Intent is a notification the core wants delivered. Delivery itself is out
// of scope; intents are published to the notifications topic and picked up
// by a downstream consumer.
type Intent struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	BookingID string `json:"booking_id"`
	Message   string `json:"message"`
}

// HostExpiryIntent is the penalty notice sent to a host whose pending
// request ran out the response window.
func HostExpiryIntent(hostID, bookingID string) Intent {
	return Intent{
		Type:      IntentHostExpiryPenalty,
		UserID:    hostID,
		BookingID: bookingID,
		Message:   hostExpiryMessage,
	}
}

// GuestExpiryIntent is the automatic refund notice sent to the guest of an
// expired request.
func GuestExpiryIntent(guestID, bookingID, raceName string, pointsCost int) Intent {
	return Intent{
		Type:      IntentGuestExpiryRefund,
		UserID:    guestID,
		BookingID: bookingID,
		Message:   fmt.Sprintf(guestExpiryMessageFormat, raceName, pointsCost),
	}
}

type Publisher interface {
	Publish(ctx context.Context, intents ...Intent) error
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
}

func NewKafkaPublisher(client kafka.Client, cfg *config.Config) Publisher {
	return &kafkaPublisher{
		client: client,
		topic:  cfg.Kafka.Topics.Notifications,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, intents ...Intent) error {
	if len(intents) == 0 {
		return nil
	}

	messages := make([]kafka.Message, len(intents))
	for i, intent := range intents {
		messages[i] = kafka.Message{
			Key:   intent.UserID,
			Value: intent,
		}
	}

	if err := p.client.SendMessages(ctx, p.topic, messages...); err != nil {
		log.Error().Err(err).Msg("failed to publish notification intents")

		return fmt.Errorf("failed to publish notification intents: %w", err)
	}

	return nil
}
