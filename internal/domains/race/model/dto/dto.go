package dto

import (
	"time"

	"rhx/internal/domains/race/model"
	"rhx/shared"
	gDto "rhx/shared/dto"
	gModel "rhx/shared/model"
	"rhx/shared/timezone"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type CreateRaceRequest struct {
	PropertyID  string `json:"property_id" validate:"required"`
	Name        string `json:"name"        validate:"required,max=150"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	City        string `json:"city"        validate:"required,max=100"`
	RaceDate    string `json:"race_date"   validate:"required"`
	PointsCost  int    `json:"points_cost" validate:"required,gt=0"`
	MaxGuests   int    `json:"max_guests"  validate:"required,gte=1"`
	Active      *bool  `json:"active"      validate:"omitempty"`
}

func (c *CreateRaceRequest) ToModel(host string) (model.Race, error) {
	raceDate, err := time.Parse(dateLayout, c.RaceDate)
	if err != nil {
		return model.Race{}, err
	}

	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Race{
		ID:          uuid.NewString(),
		HostID:      host,
		PropertyID:  c.PropertyID,
		Name:        c.Name,
		Description: c.Description,
		City:        c.City,
		RaceDate:    raceDate,
		PointsCost:  c.PointsCost,
		MaxGuests:   c.MaxGuests,
		Active:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  host,
			ModifiedBy: host,
		},
	}, nil
}

type UpdateRaceRequest struct {
	Name        string `db:"name"        json:"name"        validate:"omitempty,max=150"`
	Description string `db:"description" json:"description" validate:"omitempty,max=1000"`
	City        string `db:"city"        json:"city"        validate:"omitempty,max=100"`
	PointsCost  *int   `db:"points_cost" json:"points_cost" validate:"omitempty,gt=0"`
	MaxGuests   *int   `db:"max_guests"  json:"max_guests"  validate:"omitempty,gte=1"`
	Active      *bool  `db:"active"      json:"active"      validate:"omitempty"`
}

type RaceResponse struct {
	ID          string `json:"id"`
	HostID      string `json:"host_id"`
	PropertyID  string `json:"property_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	City        string `json:"city"`
	RaceDate    string `json:"race_date"`
	PointsCost  int    `json:"points_cost"`
	MaxGuests   int    `json:"max_guests"`
	Active      bool   `json:"active"`
	gDto.Metadata
}

func (r *RaceResponse) FromModel(model model.Race) {
	r.ID = model.ID
	r.HostID = model.HostID
	r.PropertyID = model.PropertyID
	r.Name = model.Name
	r.Description = model.Description
	r.City = model.City
	r.RaceDate = model.RaceDate.Format(dateLayout)
	r.PointsCost = model.PointsCost
	r.MaxGuests = model.MaxGuests
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRacesResponse struct {
	Races     []RaceResponse `json:"races"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRacesResponse) FromModels(models []model.Race, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Races = make([]RaceResponse, len(models))
	for i, mod := range models {
		r.Races[i].FromModel(mod)
	}
}
