//go:build wireinject
// +build wireinject

package di

import (
	"rhx/config"
	"rhx/infras/jwt"
	"rhx/infras/kafka"
	"rhx/infras/otel"
	"rhx/infras/postgres"
	"rhx/infras/redis"
	"rhx/internal/notification"
	"rhx/permissions"
	"rhx/shared/cache"
	"rhx/transport/http"
	"rhx/transport/http/middleware"
	"rhx/transport/http/router"

	bookingRepository "rhx/internal/domains/booking/repository"
	bookingService "rhx/internal/domains/booking/service"
	bookingSweeper "rhx/internal/domains/booking/sweeper"
	ledgerRepository "rhx/internal/domains/ledger/repository"
	ledgerService "rhx/internal/domains/ledger/service"
	propertyRepository "rhx/internal/domains/property/repository"
	propertyService "rhx/internal/domains/property/service"
	raceRepository "rhx/internal/domains/race/repository"
	raceService "rhx/internal/domains/race/service"

	authService "rhx/internal/domains/auth/service"
	userRepository "rhx/internal/domains/user/repository"
	userService "rhx/internal/domains/user/service"

	authHandler "rhx/internal/handlers/auth"
	bookingHandler "rhx/internal/handlers/booking"
	ledgerHandler "rhx/internal/handlers/ledger"
	propertyHandler "rhx/internal/handlers/property"
	raceHandler "rhx/internal/handlers/race"
	sweepHandler "rhx/internal/handlers/sweep"
	userHandler "rhx/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.TxRunner), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var lodgingDomain = wire.NewSet(
	propertyRepository.New,
	propertyService.New,
	raceRepository.New,
	raceService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	bookingSweeper.New,
	ledgerRepository.New,
	ledgerService.New,
	notification.NewKafkaPublisher,
)

var domains = wire.NewSet(
	authDomain,
	lodgingDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	propertyHandler.New,
	raceHandler.New,
	bookingHandler.New,
	ledgerHandler.New,
	sweepHandler.New,
	router.New,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
