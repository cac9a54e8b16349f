package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TudorHulban/tardiness/internal/config"
	"github.com/TudorHulban/tardiness/internal/workflow"
)

func newEvaluateCmd(root *rootOptions) *cobra.Command {
	var (
		flags       solveFlags
		order       string
		topological bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compute the tardiness of an order written by solve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, errLoad := loadConfig(cmd, root.configPath, &flags)
			if errLoad != nil {
				return errLoad
			}

			_, graph, errGraph := loadGraph(loggerFromContext(cmd.Context()), cfg)
			if errGraph != nil {
				return errGraph
			}

			ids := graph.TopologicalOrder()

			if !topological {
				var errRead error

				ids, errRead = workflow.ReadIDs(order)
				if errRead != nil {
					return errRead
				}
			}

			if !graph.IsFeasible(ids) {
				return errors.New("order is not a feasible permutation of the workflow tasks")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tardiness: %.4f\n", graph.TardinessOfOrder(ids))

			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", config.DefaultInputPath, "workflow JSON file")
	cmd.Flags().StringVarP(&flags.workflow, "workflow", "w", config.DefaultWorkflow, "workflow key inside the input file")
	cmd.Flags().StringVar(&flags.preset, "durations", config.PresetMeasured, "duration preset (measured|rounded)")
	cmd.Flags().StringVar(&order, "order", config.DefaultCSVPath, "CSV row of task IDs")
	cmd.Flags().BoolVar(&topological, "topological", false, "evaluate the topological order of the workflow instead of --order")

	return cmd
}
