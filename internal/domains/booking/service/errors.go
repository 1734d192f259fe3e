package service

import (
	"net/http"

	"rhx/shared/failure"
)

// Transition and guard failures. Each maps to an HTTP code through the
// shared failure type so handlers surface them without translation.
var (
	ErrBookingNotFound = &failure.Failure{Code: http.StatusNotFound, Message: "booking not found"}

	ErrInvalidTransition = &failure.Failure{Code: http.StatusConflict, Message: "transition not allowed from the current booking state"}
	ErrStaleState        = &failure.Failure{Code: http.StatusConflict, Message: "booking state changed concurrently, refetch and retry"}

	ErrNotHost        = &failure.Failure{Code: http.StatusForbidden, Message: "only the host can respond to this request"}
	ErrNotParticipant = &failure.Failure{Code: http.StatusForbidden, Message: "only the booking guest or host can perform this action"}

	ErrResponseWindowClosed = &failure.Failure{Code: http.StatusConflict, Message: "the host response window has closed"}
	ErrStayNotFinished      = &failure.Failure{Code: http.StatusConflict, Message: "the stay has not finished yet"}

	ErrRaceInactive           = &failure.Failure{Code: http.StatusBadRequest, Message: "race is not active"}
	ErrPropertyInactive       = &failure.Failure{Code: http.StatusBadRequest, Message: "property is not active"}
	ErrOwnRace                = &failure.Failure{Code: http.StatusBadRequest, Message: "hosts cannot book their own race"}
	ErrInvalidDates           = &failure.Failure{Code: http.StatusBadRequest, Message: "check-out date must be after check-in date"}
	ErrCheckInPast            = &failure.Failure{Code: http.StatusBadRequest, Message: "check-in date cannot be in the past"}
	ErrGuestsExceedMax        = &failure.Failure{Code: http.StatusBadRequest, Message: "guests count exceeds the allowed maximum"}
	ErrDuplicateActiveBooking = &failure.Failure{Code: http.StatusConflict, Message: "an active booking for this race already exists"}
)
