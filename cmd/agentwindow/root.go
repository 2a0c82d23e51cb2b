package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"agentwindow/internal/config"
	"agentwindow/internal/events"
	"agentwindow/internal/history"
	"agentwindow/internal/logger"
	"agentwindow/internal/script"
	"agentwindow/internal/tui"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type rootArgs struct {
	cfgPath     string
	scriptPath  string
	overrides   []string
	className   string
	noAnimation bool
	altScreen   bool
	noLog       bool
	noHistory   bool
}

func newRootCmd() *cobra.Command {
	args := &rootArgs{}
	cmd := &cobra.Command{
		Use:   "agentwindow",
		Short: "Terminal chat window for an autonomous agent run",
		Long: `agentwindow renders an agent's transcript (goals, tasks, thinking and
actions) in a scrolling window that stays pinned to the newest message.

Without --script the built-in demo run is replayed.

Examples:
  agentwindow                              Replay the demo run
  agentwindow --script run.toml            Replay a scripted run
  agentwindow --class compact              Borderless message rows
  agentwindow -c height=20 -c animations=false
  agentwindow validate run.toml            Check a script without running it`,
		Args:          cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWindow(cmd.Context(), args)
		},
	}

	flags := cmd.Flags()
	cmd.PersistentFlags().StringVar(&args.cfgPath, "config", "", "Path to config file (default ~/.agentwindow/config.toml)")
	flags.StringVar(&args.scriptPath, "script", "", "TOML script to replay instead of the built-in demo")
	flags.StringArrayVarP(&args.overrides, "config-override", "c", nil, "Override a config value (key=value), repeatable")
	flags.StringVar(&args.className, "class", "", "Space separated class names applied to the window")
	flags.BoolVar(&args.noAnimation, "no-animation", false, "Disable insertion and placeholder animations")
	flags.BoolVar(&args.altScreen, "alt-screen", false, "Run in the alternate screen buffer")
	flags.BoolVar(&args.noLog, "no-log", false, "Do not write a log file")
	flags.BoolVar(&args.noHistory, "no-history", false, "Do not persist search queries")

	cmd.AddCommand(newValidateCmd(), newConfigCmd())
	return cmd
}

// loadRuntimeConfig 读取配置文件并依次应用 -c 覆盖与命令行开关。
func loadRuntimeConfig(args *rootArgs) (config.Config, error) {
	cfg, err := config.Load(args.cfgPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	cfg = config.ApplyKVOverrides(cfg, args.overrides)
	if args.noAnimation {
		cfg.Animations = false
	}
	return cfg, nil
}

// setupLogging 配置全局日志；返回的 closer 可能为 nil。
func setupLogging(cfg config.Config, disabled bool) (io.Closer, error) {
	if err := logger.Configure(cfg.LogLevel); err != nil {
		return nil, err
	}
	if disabled {
		logger.Discard()
		return nil, nil
	}
	path := cfg.LogPath
	if path == "" {
		path = logger.DefaultLogPath
	}
	closer, resolved, err := logger.SetupFile(path, logger.Rotation{
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		logger.Discard()
		return nil, err
	}
	log.WithField("path", resolved).Debug("logging to file")
	return closer, nil
}

func loadScript(path string) (script.Script, error) {
	if path == "" {
		return script.Builtin(), nil
	}
	return script.Load(path)
}

func runWindow(ctx context.Context, args *rootArgs) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadRuntimeConfig(args)
	if err != nil {
		return err
	}
	closer, err := setupLogging(cfg, args.noLog)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	run, err := loadScript(args.scriptPath)
	if err != nil {
		return err
	}

	bus := events.NewBus(len(run.Entries) + 2)
	recorded := events.Record(bus, logger.NewTranscriptLogger(logger.Root()))

	app := tui.NewApp(tui.Options{
		Config:    cfg,
		ClassName: args.className,
		Bus:       bus,
		History:   searchStore(args.noHistory),
	})

	runID := uuid.NewString()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	log.WithField("run", runID).Infof("replaying %q (%d messages)", run.Name, len(run.Entries))
	go func() {
		if err := script.Replay(ctx, run, bus, runID); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Warn("replay stopped")
		}
	}()

	result, err := tui.RunApp(app, args.altScreen)
	cancel()
	bus.Close()
	<-recorded
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	log.WithField("run", runID).Infof("window closed with %d messages", len(result.Messages))
	return nil
}

func searchStore(disabled bool) *history.Store {
	if disabled {
		return nil
	}
	store, err := history.NewDefault()
	if err != nil {
		log.WithError(err).Warn("search history disabled")
		return nil
	}
	return store
}
