package fx

import (
	"strive-tracker/internal/api"
	"strive-tracker/internal/config"
	"strive-tracker/internal/database"
	"strive-tracker/internal/logger"
	"strive-tracker/internal/repository"
	"strive-tracker/internal/server"
	"strive-tracker/internal/service"
	"strive-tracker/internal/wire"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewReplayRepository),
	fx.Provide(repository.NewPlayerRepository),
	// api client + decoder
	fx.Provide(api.NewGGSTClient),
	fx.Provide(wire.NewDecoder),
	// svc
	fx.Provide(service.NewReplayService),
	fx.Provide(service.NewUserService),
	// server
	fx.Provide(server.NewTrackerServer),
)
