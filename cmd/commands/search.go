package commands

import (
	"context"

	"github.com/guttosm/truckload/config"
	"github.com/guttosm/truckload/internal/app"
	"github.com/guttosm/truckload/internal/domain/dto"
	"github.com/spf13/cobra"
)

func newBatchesCmd(rt *session) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Find every batch of the first n categories matching a metric",
		Long: `Run the batch search over the first n categories (all by default) and
emit every batch whose total cost satisfies the metric.

Example:
  truckload batches --n 4 --metric perfectly-stackable:15 --output`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, app.CommandBatches, func(ctx context.Context, a *app.App) (dto.RunSummary, error) {
				return a.RunBatches(ctx, n)
			})
		},
	}
	addSearchFlags(cmd, rt, &n)
	return cmd
}

func newPrimeGroupsCmd(rt *session) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "prime-groups",
		Short: "Find minimal batches matching a metric",
		Long: `Run the prime-group search: like batches, but a batch is reported only
when no prefix of its non-empty categories already matched. Results are
written to one file per (groups, stacks) bucket.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, app.CommandPrimeGroups, func(ctx context.Context, a *app.App) (dto.RunSummary, error) {
				return a.RunPrimeGroups(ctx, n)
			})
		},
	}
	addSearchFlags(cmd, rt, &n)
	return cmd
}

func addSearchFlags(cmd *cobra.Command, rt *session, n *int) {
	cmd.Flags().IntVar(n, "n", 0, "Number of leading categories to combine (0 means all)")
	cmd.Flags().String("metric", rt.v.GetString(config.KeyMetric), "Cost metric, e.g. affordable, n-valid:12, perfectly-crateable:15")
}
