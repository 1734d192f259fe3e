package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Race=MockRaceService

import (
	"context"
	"fmt"

	"rhx/config"
	"rhx/infras/otel"
	propertyModel "rhx/internal/domains/property/model"
	propertyRepo "rhx/internal/domains/property/repository"
	"rhx/internal/domains/race/model"
	"rhx/internal/domains/race/model/dto"
	"rhx/internal/domains/race/repository"
	"rhx/shared"
	"rhx/shared/cache"
	"rhx/shared/constant"
	gDto "rhx/shared/dto"
	"rhx/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRace    = "race:get"
	cacheGetAllRace = "race:gets"
	cacheCountRace  = "race:count"
)

type Race interface {
	Create(ctx context.Context, req dto.CreateRaceRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRacesResponse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RaceResponse, error)
	GetModel(ctx context.Context, id string) (model.Race, error)
	Update(ctx context.Context, req dto.UpdateRaceRequest, id, actor string) error
	Delete(ctx context.Context, id, actor string) error
}

type serviceImpl struct {
	repo         repository.Race
	propertyRepo propertyRepo.Property
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Race, propertyRepo propertyRepo.Property, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Race {
	return &serviceImpl{
		repo:         repo,
		propertyRepo: propertyRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// Create publishes a lodging offer for a race. The offer must point at a
// property the acting user owns.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRaceRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)

	property, err := s.propertyRepo.Get(ctx, shared.FilterByID(req.PropertyID, propertyModel.FieldID, propertyModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return failure.NotFound("property not found") // nolint:wrapcheck
	}

	if property.OwnerID != host {
		return failure.Forbidden("only the property owner can offer it for a race") // nolint:wrapcheck
	}

	if !property.Active {
		return failure.BadRequestFromString("property is not active") // nolint:wrapcheck
	}

	race, err := req.ToModel(host)
	if err != nil {
		return failure.BadRequestFromString("invalid race date") // nolint:wrapcheck
	}

	if race.MaxGuests > property.MaxGuests {
		return failure.BadRequestFromString("race capacity exceeds the property capacity") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, race); err != nil {
		log.Error().Err(err).Msg("failed to create race")

		return fmt.Errorf("failed to create race: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRace)
		shared.InvalidateCaches(c, s.cache, cacheCountRace)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRacesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRace, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for races")

		return res, nil
	}

	total, err := s.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count races")

		return res, fmt.Errorf("failed to count races: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get races")

		return res, fmt.Errorf("failed to get races: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save races to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count races")

		return res, fmt.Errorf("failed to count races: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RaceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRace, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for race")

		return res, nil
	}

	race, err := s.GetModel(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(race)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save race to cache")
		}
	}()

	return res, nil
}

// GetModel fetches a race without the cache layer. Booking guards read
// through it so that capacity and cost checks always see current rows.
func (s *serviceImpl) GetModel(ctx context.Context, id string) (race model.Race, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetModel")
	defer scope.End()
	defer scope.TraceIfError(err)

	race, err = s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get race")

		return race, fmt.Errorf("failed to get race: %w", err)
	}

	if race.ID == constant.Empty {
		return race, failure.NotFound("race not found") // nolint:wrapcheck
	}

	return race, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRaceRequest, id, actor string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()

	if req == (dto.UpdateRaceRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	race, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get race")

		return fmt.Errorf("failed to get race: %w", err)
	}

	if race.ID == constant.Empty {
		return failure.NotFound("race not found") // nolint:wrapcheck
	}

	if race.HostID != actor {
		return failure.Forbidden("only the race host can update it") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, actor)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update race")

		return fmt.Errorf("failed to update race: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id, actor string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	race, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get race")

		return fmt.Errorf("failed to get race: %w", err)
	}

	if race.ID == constant.Empty {
		return failure.NotFound("race not found") // nolint:wrapcheck
	}

	if race.HostID != actor {
		return failure.Forbidden("only the race host can delete it") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete race")

		return fmt.Errorf("failed to delete race: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRace, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete race from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRace)
		shared.InvalidateCaches(c, s.cache, cacheCountRace)
	}()
}
