package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/flamegraph/render"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
	"github.com/pbouda/jeffrey/jeffrey/pkg/xpflag"
)

var (
	flamegraphThreadMode bool
	flamegraphWeight     bool
	flamegraphThreads    []string
	flamegraphSink       sinkOptions

	flamegraphKind = xpflag.NewKind(record.KindExecutionSample)

	flamegraphCmd = &cobra.Command{
		Use:   "flamegraph FILE...",
		Short: "Render a flamegraph of collapsed stacks or pprof profiles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			app, err := makeCLI()
			if err != nil {
				return err
			}
			defer app.Shutdown()

			tree, err := loadTree(app.Context(), app, args, flamegraphKind.Kind(), flamegraphThreads, app.TreeOptions(flamegraphThreadMode)...)
			if err != nil {
				return err
			}

			graph := render.NewFlameGraphFormatter(renderOptions(app, flamegraphWeight)...).Format(tree)
			app.Logger().Info(app.Context(), "Rendered flamegraph",
				zap.Stringer("kind", flamegraphKind.Kind()),
				zap.Uint64("samples", tree.TotalSamples()),
				zap.Uint64("weight", tree.TotalWeight()),
				zap.Int("depth", graph.Depth),
			)

			return storeGraph(app, &flamegraphSink, graph)
		},
	}
)

func init() {
	flamegraphCmd.Flags().Var(flamegraphKind, "kind", "Event type of the input files")
	flamegraphCmd.Flags().BoolVar(&flamegraphThreadMode, "thread-mode", false, "Group stacks by thread")
	flamegraphCmd.Flags().StringSliceVar(&flamegraphThreads, "thread", nil, "Keep only stacks sampled on the named thread, may be repeated")
	flamegraphCmd.Flags().BoolVar(&flamegraphWeight, "weight", false, "Lay out frames by weight instead of samples")
	addSinkOptions(flamegraphCmd, &flamegraphSink)

	rootCmd.AddCommand(flamegraphCmd)
}
