package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/campusportal/internal/app/services"
	"github.com/yigit/campusportal/internal/bootstrap"
	"github.com/yigit/campusportal/internal/config"
	"github.com/yigit/campusportal/internal/pkg/logger"
	"github.com/yigit/campusportal/internal/pkg/websocket"
)

// openUserService is replaced in tests
var openUserService = defaultOpenUserService

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "portalctl",
		Short:         "Campus portal maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := logger.WarnLevel
			if opts.verbose {
				level = logger.DebugLevel
			}
			logger.Configure(logger.Config{Level: level, Pretty: true, Output: cmd.ErrOrStderr()})
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (defaults to $CONFIG_PATH or "+config.DefaultConfigPath+")")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newCreateAdminCmd(opts),
		newResetPasswordCmd(opts),
		newAddStudentCmd(opts),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return config.Load()
	}
	return config.LoadConfig(o.configPath)
}

// defaultOpenUserService connects to the configured store. Events are not
// published: the CLI runs outside the API process and has no sessions.
func defaultOpenUserService(ctx context.Context, cfg *config.Config) (services.UserService, func(), error) {
	lgr := logger.Component("portalctl")
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Database driver is memory, changes are discarded on exit")
	}

	database, repos, err := bootstrap.SetupDatabase(ctx, cfg, zerolog.Nop())
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if database != nil {
			database.Close()
		}
	}
	return services.NewUserService(repos.Users, websocket.NopPublisher{}, lgr), cleanup, nil
}

func (o *rootOptions) userService(ctx context.Context) (services.UserService, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	svc, cleanup, err := openUserService(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return svc, cleanup, nil
}

func stdinFd() int {
	return int(os.Stdin.Fd())
}
