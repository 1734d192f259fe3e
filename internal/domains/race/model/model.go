package model

import (
	"time"

	"rhx/shared/model"
)

const (
	TableName  = "races"
	EntityName = "race"

	FieldID          = "id"
	FieldHostID      = "host_id"
	FieldPropertyID  = "property_id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCity        = "city"
	FieldRaceDate    = "race_date"
	FieldPointsCost  = "points_cost"
	FieldMaxGuests   = "max_guests"
	FieldActive      = "active"
)

// Race is a lodging offer tied to a running event. PointsCost is the price
// a guest pays for the stay; bookings snapshot it at request time.
type Race struct {
	ID          string    `db:"id"`
	HostID      string    `db:"host_id"`
	PropertyID  string    `db:"property_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	City        string    `db:"city"`
	RaceDate    time.Time `db:"race_date"`
	PointsCost  int       `db:"points_cost"`
	MaxGuests   int       `db:"max_guests"`
	Active      bool      `db:"active"`
	model.Metadata
}
