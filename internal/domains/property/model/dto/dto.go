package dto

import (
	"rhx/internal/domains/property/model"
	"rhx/shared"
	gDto "rhx/shared/dto"
	gModel "rhx/shared/model"
	"rhx/shared/timezone"

	"github.com/google/uuid"
)

type CreatePropertyRequest struct {
	Title       string `json:"title"       validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	City        string `json:"city"        validate:"required,max=100"`
	MaxGuests   int    `json:"max_guests"  validate:"required,gte=1"`
	Active      *bool  `json:"active"      validate:"omitempty"`
}

func (c *CreatePropertyRequest) ToModel(owner string) model.Property {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Property{
		ID:          uuid.NewString(),
		OwnerID:     owner,
		Title:       c.Title,
		Description: c.Description,
		City:        c.City,
		MaxGuests:   c.MaxGuests,
		Active:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  owner,
			ModifiedBy: owner,
		},
	}
}

type UpdatePropertyRequest struct {
	Title       string `db:"title"       json:"title"       validate:"omitempty,max=100"`
	Description string `db:"description" json:"description" validate:"omitempty,max=1000"`
	City        string `db:"city"        json:"city"        validate:"omitempty,max=100"`
	MaxGuests   *int   `db:"max_guests"  json:"max_guests"  validate:"omitempty,gte=1"`
	Active      *bool  `db:"active"      json:"active"      validate:"omitempty"`
}

type PropertyResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	City        string `json:"city"`
	MaxGuests   int    `json:"max_guests"`
	Active      bool   `json:"active"`
	gDto.Metadata
}

func (r *PropertyResponse) FromModel(model model.Property) {
	r.ID = model.ID
	r.OwnerID = model.OwnerID
	r.Title = model.Title
	r.Description = model.Description
	r.City = model.City
	r.MaxGuests = model.MaxGuests
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetPropertiesResponse struct {
	Properties []PropertyResponse `json:"properties"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetPropertiesResponse) FromModels(models []model.Property, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Properties = make([]PropertyResponse, len(models))
	for i, mod := range models {
		r.Properties[i].FromModel(mod)
	}
}
