//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build wireinject
// +build wireinject

package tui

import (
	"github.com/google/wire"
	"github.com/kcaldas/netterm/internal/di"
	"github.com/kcaldas/netterm/pkg/config"
)

var AppDepsSet = wire.NewSet(
	di.InjectEngine,
	NewApp,
)

func InjectTUI(settings *config.Settings) (*TUI, error) {
	wire.Build(AppDepsSet, New)
	return nil, nil
}
