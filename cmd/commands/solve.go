package commands

import (
	"context"
	"fmt"

	"github.com/guttosm/truckload/config"
	"github.com/guttosm/truckload/internal/app"
	"github.com/guttosm/truckload/internal/domain/dto"
	"github.com/guttosm/truckload/internal/sink"
	"github.com/spf13/cobra"
)

func newSolveCmd(rt *session) *cobra.Command {
	var weightsPath string
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the integer program for one maximal truck batch",
		Long: `Formulate the batch as an integer program and maximise the weighted item
count. Weights are a JSON array with one array of item weights per category.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.run(cmd, app.CommandSolve, func(ctx context.Context, a *app.App) (dto.RunSummary, error) {
				var weights [][]float64
				if weightsPath != "" {
					w, err := app.LoadWeights(weightsPath, a.ItemSet())
					if err != nil {
						return dto.NewRunSummary(a.RunID(), app.CommandSolve, a.ItemSet().Name).WithError(err), err
					}
					weights = w
				}
				batch, summary, err := a.RunSolve(ctx, weights)
				if err != nil {
					return summary, err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Batch: %s\n", sink.FormatShort(batch))
				fmt.Fprintf(out, "       %s\n", sink.FormatLong(a.ItemSet(), batch))
				return summary, nil
			})
		},
	}
	cmd.Flags().StringVar(&weightsPath, "weights", "", "Item weights JSON file")
	cmd.Flags().Int("node-limit", rt.v.GetInt(config.KeyNodeLimit), "Branch-and-bound node limit")
	cmd.Flags().Float64("tolerance", rt.v.GetFloat64(config.KeyTolerance), "Integrality tolerance")
	return cmd
}
