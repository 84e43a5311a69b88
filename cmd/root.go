/*
Copyright © 2026 ReUp contributors
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reupapp/reup/internal/remote"
	"github.com/reupapp/reup/internal/session"
	"github.com/reupapp/reup/internal/snapshot"
	"github.com/reupapp/reup/internal/telemetry"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// userFlag overrides the configured user for one invocation.
	userFlag string
	// ErrNoUser is returned when a command needs a user but none is
	// configured or passed via --user.
	ErrNoUser = errors.New("no user configured (set user.id in .reup.yaml or pass --user)")
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reup",
	Short: "ReUp CLI keeps your daily tasks and schedule in reach.",
	Long: `ReUp CLI is a companion for the ReUp productivity app.
It talks to the same backend as the mobile app: list today's tasks,
complete and reschedule them, generate your daily schedule, and watch
your day update live.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.reup/.reup.yaml or $HOME/.reup.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user id (overrides user.id from config)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// newLogger builds the CLI logger; --verbose lowers the level to debug.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// activeUser resolves the user id for a command invocation.
func activeUser() (string, error) {
	if userFlag != "" {
		return userFlag, nil
	}
	if id := GetConfig().User.ID; id != "" {
		return id, nil
	}
	return "", ErrNoUser
}

// newBackendClient builds the HTTP client for all four backend services.
func newBackendClient(log *slog.Logger) (*remote.Client, error) {
	cfg := GetConfig()
	client, err := remote.NewClient(remote.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout(),
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("configure backend client: %w", err)
	}
	return client, nil
}

// newCoordinator wires a session coordinator over the backend client.
func newCoordinator(log *slog.Logger) (*session.Coordinator, error) {
	client, err := newBackendClient(log)
	if err != nil {
		return nil, err
	}

	cfg := GetConfig()
	opts := []session.Option{
		session.WithLogger(log),
	}
	if cfg.Refresh.IntervalMinutes > 0 {
		opts = append(opts, session.WithRefreshInterval(cfg.Refresh.Interval()))
	}
	if cfg.Snapshot.Enabled {
		snap, err := snapshot.NewStore(afero.NewOsFs(), cfg.Snapshot.Dir, cfg.Snapshot.Format)
		if err != nil {
			return nil, fmt.Errorf("configure snapshot store: %w", err)
		}
		opts = append(opts, session.WithSnapshots(snap))
	}

	return session.New(session.Services{
		Gateway:      client,
		Orchestrator: client,
		Scheduler:    client,
		Generator:    client,
	}, opts...), nil
}

// newTelemetry builds the telemetry client from config; disabled or keyless
// configs get a no-op client.
func newTelemetry() telemetry.Client {
	cfg := GetConfig()
	if !cfg.Telemetry.Enabled {
		return telemetry.NoopClient{}
	}
	client, err := telemetry.New(telemetry.Options{
		APIKey:     cfg.Telemetry.APIKey,
		Version:    version,
		DistinctID: cfg.Telemetry.DistinctID,
	})
	if err != nil {
		return telemetry.NoopClient{}
	}
	return client
}
