// Package cmd defines the brandscan command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/brandscan/internal/app"
	internalconfig "github.com/JakeFAU/brandscan/internal/config"
	"github.com/JakeFAU/brandscan/internal/logging"
	"github.com/JakeFAU/brandscan/internal/resolver"
	"github.com/JakeFAU/brandscan/pkg/config"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App is what commands need from the service container. Tests swap in a fake
// through newApp.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetConfig() internalconfig.Config
	ResolverFactory() resolver.Factory
}

// newApp is the application factory. It is a variable so tests can replace it.
var newApp = func(ctx context.Context, cfg internalconfig.Config) (App, error) {
	if err := logging.InitLogger(cfg.Logging.Development); err != nil {
		return nil, err
	}
	return app.NewApp(ctx, cfg, logging.L)
}

// session owns the App built for one invocation.
type session struct {
	app App
}

func (s *session) close() {
	if s.app != nil {
		s.app.Close()
		s.app = nil
	}
}

func newRootCmd(s *session) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "brandscan",
		Short: "Resolve logo and favicon URLs for a list of domains.",
		Long: `brandscan reads one host per line, fetches each site's landing page and
prints "domain, logo, favicon" for every host. Hosts can be processed
sequentially, with one goroutine per host, or by a bounded worker pool.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.InitConfig(cfgFile); err != nil {
				return fmt.Errorf("init config: %w", err)
			}
			cfg, err := internalconfig.FromViper(viper.GetViper())
			if err != nil {
				return err
			}
			appInstance, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			s.app = appInstance
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./brandscan.yaml)")
	flags.String("metrics-addr", "", "serve /metrics and /healthz on this address while running")
	flags.Bool("development", false, "human readable debug logging")
	mustBind("metrics.addr", flags.Lookup("metrics-addr"))
	mustBind("logging.development", flags.Lookup("development"))

	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newBenchCmd())
	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// run executes the root command and closes the App on every exit path,
// including a failed RunE. configure may adjust the command before it runs.
func run(ctx context.Context, configure func(*cobra.Command)) error {
	s := &session{}
	defer s.close()

	root := newRootCmd(s)
	if configure != nil {
		configure(root)
	}
	return root.ExecuteContext(ctx)
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, nil); err != nil {
		stop()
		logging.L.Error("command execution failed", zap.Error(err))
		_ = logging.L.Sync()
		os.Exit(1)
	}
}
