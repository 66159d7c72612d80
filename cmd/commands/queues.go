package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/guttosm/truckload/internal/app"
	"github.com/guttosm/truckload/internal/domain/dto"
	"github.com/guttosm/truckload/internal/itemset"
	"github.com/spf13/cobra"
)

func newQueuesCmd(rt *session) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "queues",
		Short: "Dump the admissible queue vectors of one category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, app.CommandQueues, func(ctx context.Context, a *app.App) (dto.RunSummary, error) {
				index, err := categoryIndex(a.ItemSet(), category)
				if err != nil {
					return dto.NewRunSummary(a.RunID(), app.CommandQueues, a.ItemSet().Name).WithError(err), err
				}
				return a.RunQueues(ctx, index)
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "0", "Category index or name")
	return cmd
}

// categoryIndex resolves a category given by index or by name.
func categoryIndex(set *itemset.ItemSet, s string) (int, error) {
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	for i, c := range set.Categories {
		if c.Name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no category named %q", itemset.ErrCategoryOutOfRange, s)
}

func newLegendCmd(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "legend",
		Short: "Write the item legend of the item set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, app.CommandLegend, func(ctx context.Context, a *app.App) (dto.RunSummary, error) {
				return a.RunLegend(ctx)
			})
		},
	}
}
