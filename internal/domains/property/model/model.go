package model

import "rhx/shared/model"

const (
	TableName  = "properties"
	EntityName = "property"

	FieldID          = "id"
	FieldOwnerID     = "owner_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCity        = "city"
	FieldMaxGuests   = "max_guests"
	FieldActive      = "active"
)

type Property struct {
	ID          string `db:"id"`
	OwnerID     string `db:"owner_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	City        string `db:"city"`
	MaxGuests   int    `db:"max_guests"`
	Active      bool   `db:"active"`
	model.Metadata
}
