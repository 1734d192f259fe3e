package model

import "time"

const (
	TableName  = "points_transactions"
	EntityName = "points_transaction"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldBookingID   = "booking_id"
	FieldAmount      = "amount"
	FieldType        = "type"
	FieldDescription = "description"
	FieldCreatedAt   = "created_at"
)

// Transaction types. Balances are derived exclusively from the signed
// amounts of these entries; there is no stored balance counter.
const (
	TypeBookingPayment    = "booking_payment"
	TypeBookingEarning    = "booking_earning"
	TypeBookingRefund     = "booking_refund"
	TypeHostPenalty       = "host_penalty"
	TypeSubscriptionBonus = "subscription_bonus"
)

// PointsTransaction is one immutable entry of the points ledger. Amount is
// signed: positive entries credit the user, negative entries debit them.
// BookingID is nil for entries not tied to a booking (bonuses).
type PointsTransaction struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	BookingID   *string   `db:"booking_id"`
	Amount      int       `db:"amount"`
	Type        string    `db:"type"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	CreatedBy   string    `db:"created_by"`
}
