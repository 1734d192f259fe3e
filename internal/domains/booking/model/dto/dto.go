package dto

import (
	"time"

	"rhx/internal/domains/booking/model"
	raceModel "rhx/internal/domains/race/model"
	"rhx/shared"
	"rhx/shared/constant"
	"rhx/shared/timezone"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	RaceID           string `json:"race_id"                validate:"required"`
	CheckInDate      string `json:"check_in_date"          validate:"required"`
	CheckOutDate     string `json:"check_out_date"         validate:"required"`
	GuestsCount      int    `json:"guests_count"           validate:"required,gte=1"`
	EstimatedArrival string `json:"estimated_arrival_time" validate:"omitempty"`
	GuestPhone       string `json:"guest_phone"            validate:"required,max=20"`
	RequestMessage   string `json:"request_message"        validate:"required,max=500"`
	SpecialRequests  string `json:"special_requests"       validate:"omitempty,max=300"`
}

// ToModel builds a pending booking from the request. The points cost, host
// and property references are snapshotted from the race at request time and
// never track later race changes.
func (c *CreateBookingRequest) ToModel(guest string, race raceModel.Race, responseWindow time.Duration) (model.Booking, error) {
	checkIn, err := time.Parse(dateLayout, c.CheckInDate)
	if err != nil {
		return model.Booking{}, err
	}

	checkOut, err := time.Parse(dateLayout, c.CheckOutDate)
	if err != nil {
		return model.Booking{}, err
	}

	now := timezone.Now()

	var arrival *string
	if c.EstimatedArrival != "" {
		arrival = &c.EstimatedArrival
	}

	var special *string
	if c.SpecialRequests != "" {
		special = &c.SpecialRequests
	}

	return model.Booking{
		ID:                   uuid.NewString(),
		RaceID:               race.ID,
		GuestID:              guest,
		HostID:               race.HostID,
		PropertyID:           race.PropertyID,
		CheckInDate:          checkIn,
		CheckOutDate:         checkOut,
		GuestsCount:          c.GuestsCount,
		EstimatedArrival:     arrival,
		GuestPhone:           c.GuestPhone,
		PointsCost:           race.PointsCost,
		Status:               model.StatusPending,
		HostResponseDeadline: now.Add(responseWindow),
		RequestMessage:       c.RequestMessage,
		SpecialRequests:      special,
		CreatedAt:            now,
		CreatedBy:            guest,
		ModifiedBy:           guest,
	}, nil
}

// HostDecisionRequest carries the optional message a host attaches when
// accepting or rejecting a request.
type HostDecisionRequest struct {
	Message string `json:"message" validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID                   string  `json:"id"`
	RaceID               string  `json:"race_id"`
	GuestID              string  `json:"guest_id"`
	HostID               string  `json:"host_id"`
	PropertyID           string  `json:"property_id"`
	CheckInDate          string  `json:"check_in_date"`
	CheckOutDate         string  `json:"check_out_date"`
	GuestsCount          int     `json:"guests_count"`
	EstimatedArrival     *string `json:"estimated_arrival_time,omitempty"`
	GuestPhone           string  `json:"guest_phone"`
	PointsCost           int     `json:"points_cost"`
	Status               string  `json:"status"`
	HostResponseDeadline string  `json:"host_response_deadline"`
	RequestMessage       string  `json:"request_message"`
	SpecialRequests      *string `json:"special_requests,omitempty"`
	HostResponseMessage  *string `json:"host_response_message,omitempty"`
	CreatedAt            string  `json:"created_at"`
	AcceptedAt           *string `json:"accepted_at,omitempty"`
	RejectedAt           *string `json:"rejected_at,omitempty"`
	ConfirmedAt          *string `json:"confirmed_at,omitempty"`
	CompletedAt          *string `json:"completed_at,omitempty"`
	CancelledAt          *string `json:"cancelled_at,omitempty"`
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RaceID = model.RaceID
	r.GuestID = model.GuestID
	r.HostID = model.HostID
	r.PropertyID = model.PropertyID
	r.CheckInDate = model.CheckInDate.Format(dateLayout)
	r.CheckOutDate = model.CheckOutDate.Format(dateLayout)
	r.GuestsCount = model.GuestsCount
	r.EstimatedArrival = model.EstimatedArrival
	r.GuestPhone = model.GuestPhone
	r.PointsCost = model.PointsCost
	r.Status = model.Status
	r.HostResponseDeadline = timezone.Format(model.HostResponseDeadline, constant.DateFormat)
	r.RequestMessage = model.RequestMessage
	r.SpecialRequests = model.SpecialRequests
	r.HostResponseMessage = model.HostResponseMessage
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
	r.AcceptedAt = formatOptional(model.AcceptedAt)
	r.RejectedAt = formatOptional(model.RejectedAt)
	r.ConfirmedAt = formatOptional(model.ConfirmedAt)
	r.CompletedAt = formatOptional(model.CompletedAt)
	r.CancelledAt = formatOptional(model.CancelledAt)
}

// RaceSummary and PropertySummary are the joined reference details exposed
// by the booking detail view.
type RaceSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RaceDate   string `json:"race_date"`
	PointsCost int    `json:"points_cost"`
	MaxGuests  int    `json:"max_guests"`
	Active     bool   `json:"active"`
}

type PropertySummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	City      string `json:"city"`
	MaxGuests int    `json:"max_guests"`
}

type BookingDetailResponse struct {
	BookingResponse
	Race     *RaceSummary     `json:"race,omitempty"`
	Property *PropertySummary `json:"property,omitempty"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// HostStatsResponse is folded from the booking and ledger collections on
// demand; none of these figures is kept as a stored counter.
type HostStatsResponse struct {
	TotalBookings          int     `json:"total_bookings"`
	PendingRequests        int     `json:"pending_requests"`
	CompletedBookings      int     `json:"completed_bookings"`
	TotalPointsEarned      int     `json:"total_points_earned"`
	TotalPointsSpent       int     `json:"total_points_spent"`
	AverageResponseSeconds float64 `json:"average_response_seconds"`
	AcceptanceRate         float64 `json:"acceptance_rate"`
}
