package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/brandscan/internal/sink"
	"github.com/JakeFAU/brandscan/internal/strategy"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve brand metadata for every host in file (or stdin)",
		Long: `Reads hosts one per line and writes one "domain, logo, favicon" line per
host to stdout. Missing fields are printed as null. Every line is a host,
so a blank line yields ", null, null".

Strategies:
  sequential  one host at a time, output in input order
  fanout      one goroutine per host, output in input order
  pool        --workers goroutines share a queue, output in completion order`,
		Args: cobra.MaximumNArgs(1),
		RunE: runResolveCommand,
	}
	cmd.Flags().String("strategy", "pool", "execution strategy: sequential, fanout or pool")
	cmd.Flags().Int("workers", 32, "pool size for the pool strategy")
	mustBind("strategy.default", cmd.Flags().Lookup("strategy"))
	mustBind("strategy.workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func runResolveCommand(cmd *cobra.Command, args []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.GetConfig()

	in, closeInput, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeInput()

	runner := strategy.NewRunner(
		appInstance.ResolverFactory(),
		sink.NewCSVWriter(cmd.OutOrStdout()),
		appInstance.GetLogger(),
	)
	if err := runner.Run(cmd.Context(), cfg.StrategyKind(), cfg.Strategy.Workers, in); err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	return nil
}

// openInput returns the named file or the command's stdin.
func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
