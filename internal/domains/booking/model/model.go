package model

import "time"

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                   = "id"
	FieldRaceID               = "race_id"
	FieldGuestID              = "guest_id"
	FieldHostID               = "host_id"
	FieldPropertyID           = "property_id"
	FieldCheckInDate          = "check_in_date"
	FieldCheckOutDate         = "check_out_date"
	FieldGuestsCount          = "guests_count"
	FieldEstimatedArrival     = "estimated_arrival_time"
	FieldGuestPhone           = "guest_phone"
	FieldPointsCost           = "points_cost"
	FieldStatus               = "status"
	FieldHostResponseDeadline = "host_response_deadline"
	FieldRequestMessage       = "request_message"
	FieldSpecialRequests      = "special_requests"
	FieldHostResponseMessage  = "host_response_message"
	FieldCreatedAt            = "created_at"
	FieldAcceptedAt           = "accepted_at"
	FieldRejectedAt           = "rejected_at"
	FieldConfirmedAt          = "confirmed_at"
	FieldCompletedAt          = "completed_at"
	FieldCancelledAt          = "cancelled_at"
)

// Booking statuses. pending is the initial state; rejected, completed and
// cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// ActiveStatuses are the non-terminal statuses. A guest may hold at most one
// booking in any of these statuses per race.
var ActiveStatuses = []string{StatusPending, StatusAccepted, StatusConfirmed}

// Booking is one lodging request of a guest for a race. The foreign
// references and the points cost snapshot are immutable after creation; the
// status only changes through the transition methods of the booking service.
type Booking struct {
	ID                   string     `db:"id"`
	RaceID               string     `db:"race_id"`
	GuestID              string     `db:"guest_id"`
	HostID               string     `db:"host_id"`
	PropertyID           string     `db:"property_id"`
	CheckInDate          time.Time  `db:"check_in_date"`
	CheckOutDate         time.Time  `db:"check_out_date"`
	GuestsCount          int        `db:"guests_count"`
	EstimatedArrival     *string    `db:"estimated_arrival_time"`
	GuestPhone           string     `db:"guest_phone"`
	PointsCost           int        `db:"points_cost"`
	Status               string     `db:"status"`
	HostResponseDeadline time.Time  `db:"host_response_deadline"`
	RequestMessage       string     `db:"request_message"`
	SpecialRequests      *string    `db:"special_requests"`
	HostResponseMessage  *string    `db:"host_response_message"`
	CreatedAt            time.Time  `db:"created_at"`
	AcceptedAt           *time.Time `db:"accepted_at"`
	RejectedAt           *time.Time `db:"rejected_at"`
	ConfirmedAt          *time.Time `db:"confirmed_at"`
	CompletedAt          *time.Time `db:"completed_at"`
	CancelledAt          *time.Time `db:"cancelled_at"`
	CreatedBy            string     `db:"created_by"`
	ModifiedBy           string     `db:"modified_by"`
}

// IsTerminal reports whether no further transition is allowed.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsParticipant reports whether the actor is the booking's guest or host.
func (b *Booking) IsParticipant(actor string) bool {
	return actor == b.GuestID || actor == b.HostID
}

// HostStatsRow is the aggregate the stats query folds from the host's
// bookings. AcceptedOrLater counts bookings that were ever accepted;
// Rejected counts the ones declined without acceptance.
type HostStatsRow struct {
	TotalBookings      int     `db:"total_bookings"`
	PendingRequests    int     `db:"pending_requests"`
	CompletedBookings  int     `db:"completed_bookings"`
	AcceptedOrLater    int     `db:"accepted_or_later"`
	Rejected           int     `db:"rejected"`
	AvgResponseSeconds float64 `db:"avg_response_seconds"`
}
