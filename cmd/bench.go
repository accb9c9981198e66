package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/brandscan/internal/strategy"
)

func newBenchCmd() *cobra.Command {
	var poolSizes []int

	cmd := &cobra.Command{
		Use:   "bench [file]",
		Short: "Compare strategies on the same input",
		Long: `Runs every strategy over the hosts in file (or stdin), once per pool size
for the pool strategy, and prints wall time, record count and the peak number
of goroutines seen during each run. Records are discarded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchCommand(cmd, args, poolSizes)
		},
	}
	cmd.Flags().IntSliceVar(&poolSizes, "workers", []int{1, 16, 64}, "pool sizes to measure")
	return cmd
}

func runBenchCommand(cmd *cobra.Command, args []string, poolSizes []int) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	for _, n := range poolSizes {
		if n < 1 {
			return fmt.Errorf("bench: pool size %d must be >= 1", n)
		}
	}

	in, closeInput, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeInput()

	hosts, err := strategy.ReadHosts(in)
	if err != nil {
		return err
	}

	stats, err := strategy.Compare(cmd.Context(), appInstance.ResolverFactory(), hosts, poolSizes, appInstance.GetLogger())
	if err != nil {
		return fmt.Errorf("bench: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tRECORDS\tELAPSED\tPEAK GOROUTINES")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n", s.Label(), s.Records, s.Elapsed.Round(time.Millisecond), s.PeakGoroutines)
	}
	return tw.Flush()
}
