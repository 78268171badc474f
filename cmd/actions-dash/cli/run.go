package cli

import (
	"os/signal"
	"syscall"

	"github.com/davarch/actions-dash/internal/application"
	"github.com/davarch/actions-dash/internal/domain"
	"github.com/davarch/actions-dash/internal/infrastructure/config"
	"github.com/davarch/actions-dash/internal/infrastructure/github_http"
	"github.com/davarch/actions-dash/internal/infrastructure/logging"
	"github.com/davarch/actions-dash/internal/infrastructure/openurl"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the dashboard core: poll, reconcile, react",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, loadErr := config.Load(cfgPath)

		log, err := logging.New(cfg.Log.File, cfg.Log.Level)
		if err != nil {
			log = zap.NewNop()
		}
		defer func() { _ = log.Sync() }()

		settings := cfg.Settings()
		client := github_http.New(settings, log)

		bus := application.NewBus()
		store := application.NewStore(bus, log)
		notices := application.NewNotices()
		input := application.NewInputStack(bus, store, log)
		fetcher := application.NewFetcher(client, bus, log)
		opener := openurl.NewSoft()
		loop := application.NewLoop(bus, store, notices, input, fetcher, client, opener, log)
		sched := application.NewScheduler(fetcher, bus, settings.ProjectsInterval, settings.JobsInterval, log)

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		go func() {
			err := config.Watch(ctx, cfgPath, log, func(c config.Config) {
				bus.Dispatch(domain.ConfigUpdate{Settings: c.Settings()})
			})
			if err != nil {
				log.Warn("config watch unavailable", zap.Error(err))
			}
		}()

		log.Info("start",
			zap.String("version", version),
			zap.String("config", cfgPath),
			zap.String("github", settings.BaseURL),
			zap.Duration("projects_interval", settings.ProjectsInterval),
			zap.Duration("jobs_interval", settings.JobsInterval),
		)

		sched.Start(ctx)

		if loadErr != nil {
			bus.Dispatch(domain.AppError{Err: domain.AsFailure(loadErr)})
		}
		if client.Configured() {
			bus.Dispatch(domain.ProjectsFetch{})
		} else {
			// Nothing useful can happen without credentials; drop the
			// user straight into the configuration screen.
			bus.Dispatch(domain.ConfigOpen{})
		}

		loop.Run(ctx)

		// Run also returns on AppExit with ctx still live; cancel so the
		// ticker loops exit instead of riding out the grace period.
		cancel()
		sched.Wait()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
