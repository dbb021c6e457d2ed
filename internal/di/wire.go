//go:build wireinject

package di

import (
	"github.com/google/wire"
	"github.com/kcaldas/netterm/pkg/config"
	"github.com/kcaldas/netterm/pkg/server"
)

// InjectSettings loads ~/.netterm/settings.yaml with environment overrides
func InjectSettings() (*config.Settings, error) {
	wire.Build(SettingsSet)
	return nil, nil
}

// InjectEngine builds the command engine for settings
func InjectEngine(settings *config.Settings) (*Engine, error) {
	wire.Build(EngineSet)
	return nil, nil
}

// InjectServer builds the toolkit server listening on addr
func InjectServer(addr string) *server.Server {
	wire.Build(ServerSet)
	return nil
}
