//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"vera/internal/app/client"
	"vera/internal/app/client/config"
	"vera/internal/domain/chat"
	"vera/internal/domain/clothing"
	"vera/internal/domain/credential"
	"vera/internal/domain/location"
	"vera/internal/domain/person"
	"vera/internal/domain/session"
	"vera/internal/domain/storage"
	"vera/internal/domain/user"
)

func InitApp(cfg *config.Config) (*client.App, func(), error) {

	wire.Build(
		client.ProvideLogger,
		client.ProvideMetrics,
		client.ProvideDB,
		client.ProvideSessionRepository,
		client.ProvideVault,
		client.ProvideSealer,
		client.ProvideRecorder,
		client.ProvideLocator,
		client.ProvidePermission,
		client.ProvideGeocoder,
		client.ProvideTracker,

		session.NewStore,
		wire.Bind(new(client.TokenSourcer), new(*session.Store)),
		wire.Bind(new(user.Sessions), new(*session.Store)),

		client.NewHTTPClient,
		wire.Bind(new(user.API), new(*client.HTTPClient)),
		wire.Bind(new(storage.Remote), new(*client.HTTPClient)),

		user.NewInputValidator,
		wire.Bind(new(user.Validator), new(*user.InputValidator)),
		user.NewAuthService,

		credential.NewService,
		clothing.NewService,
		person.NewService,
		location.NewService,
		chat.NewService,

		client.NewApp,
	)

	return nil, nil, nil
}
