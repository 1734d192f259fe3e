package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rhx/infras/otel"
	"rhx/infras/postgres"
	"rhx/internal/domains/race/model"
	gDto "rhx/shared/dto"
	gRepo "rhx/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Race interface {
	Insert(ctx context.Context, model model.Race) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Race, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Race, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Race]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Race {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Race](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
