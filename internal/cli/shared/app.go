package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/ariel-frischer/occtl/internal/config"
	"github.com/ariel-frischer/occtl/internal/events"
	"github.com/ariel-frischer/occtl/internal/instance"
	"github.com/ariel-frischer/occtl/internal/launcher"
	"github.com/ariel-frischer/occtl/internal/logger"
	"github.com/ariel-frischer/occtl/internal/notify"
	"github.com/ariel-frischer/occtl/internal/provider"
	"github.com/ariel-frischer/occtl/internal/provider/registry"
	"github.com/ariel-frischer/occtl/internal/root"
	"github.com/ariel-frischer/occtl/internal/server"
	"github.com/spf13/cobra"
)

// App is the wired set of collaborators one command invocation works with.
type App struct {
	Config *config.Configuration
	// ConfigErr is set when loading failed and Config holds the defaults.
	ConfigErr error

	Probes root.System
	Root   string

	Descriptors []provider.Descriptor
	Options     provider.Options
	// Provider is nil when selection failed; SelectErr says why.
	Provider  provider.Provider
	SelectErr error

	Ports    *server.Manager
	Events   *events.Client
	Notifier *notify.Notifier
}

// Setup loads configuration, initialises logging, resolves the project root
// and selects the provider. args are the command's positional arguments.
//
// A configuration error is returned together with an App built on the
// defaults, so callers that diagnose problems can keep going.
func Setup(cmd *cobra.Command, args []string) (*App, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	debug, _ := flags.GetBool("debug")
	file, _ := flags.GetString("file")
	lspRoots, _ := flags.GetStringArray("lsp-root")

	app := &App{}
	app.Config, app.ConfigErr = config.Load(configPath)
	if app.ConfigErr != nil {
		app.Config = config.Defaults()
		logger.Init(debug)
	} else {
		initLogging(debug, app.Config.Log)
	}

	app.Probes = root.System{Positional: args, File: file, LanguageServerRoots: lspRoots}
	app.Root = root.Resolve(ctx, app.Probes)
	logger.Debug().Str("root", app.Root).Msg("resolved project root")

	cfg := app.Config
	app.Descriptors = registry.List()
	app.Options = provider.Options{
		Cmd:              cfg.Cmd,
		Port:             cfg.Port,
		Root:             app.Root,
		TmuxOptions:      cfg.Tmux.Options,
		KittyLocation:    cfg.Kitty.Location,
		WeztermDirection: cfg.Wezterm.Direction,
		WeztermPercent:   cfg.Wezterm.Percent,
		TerminalEmulator: cfg.Terminal.Emulator,
		Store:            instance.NewStore(config.RuntimeDir()),
	}
	app.Provider, app.SelectErr = registry.Select(ctx, cfg.Provider, app.Options, app.Descriptors)
	if app.SelectErr != nil {
		logger.Warn().Err(app.SelectErr).Str("provider", cfg.Provider).Msg("no provider selected")
	} else {
		logger.Debug().Str("provider", app.Provider.Name()).Msg("selected provider")
	}

	app.Ports = server.NewManager(server.Config{
		Port:         cfg.Port,
		Cmd:          cfg.Cmd,
		ReadyTimeout: cfg.Server.ReadyTimeout,
	})
	app.Events = events.NewClient(JSONLines(cmd.OutOrStdout()))
	app.Notifier = notify.New(notify.Config{Desktop: cfg.Notify.Desktop})

	return app, app.ConfigErr
}

// Launcher returns a launcher dispatching to the selected provider. Background
// subscriptions run under ctx.
func (a *App) Launcher(ctx context.Context) *launcher.Launcher {
	settings := &launcher.Settings{
		Provider:      a.Provider,
		EventsEnabled: a.Config.Events.Enabled,
	}
	return launcher.New(settings,
		launcher.WithPortSource(a.Ports),
		launcher.WithSubscriber(a.Events),
		launcher.WithNotifier(a.Notifier),
		launcher.WithProbes(a.Probes),
		launcher.WithContext(ctx),
	)
}

// JSONLines returns an event handler that writes each event as one JSON line.
// It is safe for concurrent use.
func JSONLines(w io.Writer) events.Handler {
	var mu sync.Mutex
	return func(ev events.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Debug().Err(err).Str("type", ev.Type).Msg("dropping unencodable event")
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "%s\n", data)
	}
}

func initLogging(debug bool, cfg config.LogConfig) {
	err := logger.InitWithFile(debug, config.StateDir(), &logger.LoggingConfig{
		FileEnabled: cfg.File,
		MaxSizeMB:   cfg.MaxSizeMB,
		MaxAgeDays:  cfg.MaxAgeDays,
		MaxBackups:  cfg.MaxBackups,
	})
	if err != nil {
		logger.Init(debug)
		logger.Warn().Err(err).Msg("file logging disabled")
	}
}
