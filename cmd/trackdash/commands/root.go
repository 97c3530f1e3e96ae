package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/strrl/trackdash/internal/apiclient"
	"github.com/strrl/trackdash/internal/config"
	"github.com/strrl/trackdash/internal/logging"
	"github.com/strrl/trackdash/internal/tui"
)

var (
	configPath string
	apiURL     string
	logFile    string
	debugMode  bool
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trackdash",
		Short: "Terminal dashboard for the TrackMyTime activity tracker",
		Long: `trackdash is a TUI dashboard for a running TrackMyTime tracker.
It polls the tracker's HTTP API and shows the current activity, totals,
top applications and the hourly timeline for a period.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/trackdash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Tracker API base URL (default http://localhost:8787)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file used while the dashboard is open")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(NewSnapshotCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewHealthCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig resolves defaults, the config file, the environment and then flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.New(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api") {
		cfg.API.BaseURL = apiURL
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("debug") {
		cfg.Log.Debug = debugMode
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newClient builds the API client for one-shot commands, logging to stderr
func newClient(cmd *cobra.Command, cfg *config.Config) (*apiclient.Client, *log.Logger, error) {
	logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Debug)
	client, err := apiclient.New(cfg.API.BaseURL, cfg.API.RequestTimeout, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, logger, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the dashboard owns the terminal, so logs go to a file
	logger, closer, err := logging.OpenFile(cfg.Log.File, cfg.Log.Debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := apiclient.New(cfg.API.BaseURL, cfg.API.RequestTimeout, logger)
	if err != nil {
		return err
	}

	return tui.Run(cmd.Context(), client, tui.Options{
		Grouped:         cfg.View.Grouped,
		RefreshInterval: cfg.Refresh.Interval,
		CountdownStart:  cfg.Refresh.CountdownStart,
		ExportDir:       cfg.Export.Dir,
		Logger:          logger,
	})
}
