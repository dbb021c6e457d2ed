package di

import (
	"github.com/google/wire"
	"github.com/kcaldas/netterm/pkg/commands"
	"github.com/kcaldas/netterm/pkg/commands/builtin"
	"github.com/kcaldas/netterm/pkg/config"
	"github.com/kcaldas/netterm/pkg/events"
	"github.com/kcaldas/netterm/pkg/history"
	"github.com/kcaldas/netterm/pkg/logging"
	"github.com/kcaldas/netterm/pkg/output"
	"github.com/kcaldas/netterm/pkg/remote"
	"github.com/kcaldas/netterm/pkg/server"
	"github.com/kcaldas/netterm/pkg/terminal"
)

// Engine is the command engine shared by the TUI and the headless runner
type Engine struct {
	Bus        *events.InMemoryBus
	Registry   *commands.Registry
	Output     *output.Log
	History    *history.Log
	Dispatcher *commands.Dispatcher
	Session    *terminal.Session
}

// Close stops accepting output and drains the event bus
func (e *Engine) Close() {
	e.Output.Close()
	e.Bus.Shutdown()
}

// EngineSet provides everything an Engine is built from
var EngineSet = wire.NewSet(
	ProvideEventBus,
	wire.Bind(new(events.Publisher), new(*events.InMemoryBus)),
	ProvideRegistry,
	ProvideOutputLog,
	ProvideHistoryLog,
	ProvidePoster,
	ProvideDispatcher,
	ProvideSessionOptions,
	terminal.NewSession,
	wire.Struct(new(Engine), "*"),
)

func ProvideEventBus() *events.InMemoryBus {
	return events.NewEventBus()
}

func ProvideConfigManager() config.Manager {
	return config.NewConfigManager()
}

// SettingsSet resolves the user's settings file with environment overrides
var SettingsSet = wire.NewSet(
	ProvideConfigManager,
	ProvideSettings,
)

func ProvideSettings(manager config.Manager) (*config.Settings, error) {
	path, err := config.SettingsPath()
	if err != nil {
		return nil, err
	}
	return config.LoadSettings(path, manager)
}

// ProvideRegistry registers the built-in commands and selects the starting mode
func ProvideRegistry(settings *config.Settings, bus events.Publisher) (*commands.Registry, error) {
	registry := commands.NewRegistry(bus)
	if err := builtin.Register(registry, builtin.Options{Clipboard: builtin.SystemClipboard{}}); err != nil {
		return nil, err
	}
	if settings.Mode != "" {
		mode, err := commands.ParseMode(settings.Mode)
		if err != nil {
			return nil, err
		}
		registry.SetMode(mode)
	}
	return registry, nil
}

func ProvideOutputLog(bus events.Publisher) *output.Log {
	return output.NewLog(bus)
}

func ProvideHistoryLog() *history.Log {
	return history.NewLog()
}

// ProvidePoster returns nil when no backend URL is configured
func ProvidePoster(settings *config.Settings) commands.Poster {
	if settings.APIURL == "" {
		return nil
	}
	return remote.NewClient(settings.APIURL, settings.Timeout, logging.NewComponentLogger("remote"))
}

func ProvideDispatcher(registry *commands.Registry, out *output.Log, hist *history.Log, poster commands.Poster, bus events.Publisher) *commands.Dispatcher {
	return commands.NewDispatcher(registry, out, hist, poster, bus, logging.NewComponentLogger("dispatcher"))
}

func ProvideSessionOptions(settings *config.Settings) terminal.Options {
	return terminal.Options{
		KeyboardVisible: settings.KeyboardVisible,
		CapsLock:        settings.CapsLock,
		Logger:          logging.NewComponentLogger("terminal"),
	}
}

func ProvideAPILogger() logging.Logger {
	return logging.NewAPILogger("toolkit")
}

// ServerSet provides the toolkit HTTP server
var ServerSet = wire.NewSet(
	server.DefaultToolkit,
	ProvideAPILogger,
	server.New,
)
