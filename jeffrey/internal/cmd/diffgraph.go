package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pbouda/jeffrey/jeffrey/pkg/must"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/difftree"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/flamegraph/render"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
	"github.com/pbouda/jeffrey/jeffrey/pkg/xpflag"
)

var (
	diffBaselineFiles   []string
	diffComparisonFiles []string
	diffSink            sinkOptions

	diffKind = xpflag.NewKind(record.KindExecutionSample)

	diffgraphCmd = &cobra.Command{
		Use:   "diffgraph",
		Short: "Render a differential flamegraph of a baseline and a comparison recording",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := makeCLI()
			if err != nil {
				return err
			}
			defer app.Shutdown()

			kind := diffKind.Kind()
			opts := app.TreeOptions(false)

			var baseline, comparison *frametree.Tree
			g, ctx := errgroup.WithContext(app.Context())
			g.Go(func() (err error) {
				baseline, err = loadTree(ctx, app, diffBaselineFiles, kind, nil, opts...)
				return err
			})
			g.Go(func() (err error) {
				comparison, err = loadTree(ctx, app, diffComparisonFiles, kind, nil, opts...)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			diff := difftree.Generate(baseline, comparison)
			graph := render.NewDiffFormatter(renderOptions(app, false)...).Format(diff)
			app.Logger().Info(app.Context(), "Rendered differential graph",
				zap.Stringer("kind", kind),
				zap.Uint64("baseline.samples", baseline.TotalSamples()),
				zap.Uint64("comparison.samples", comparison.TotalSamples()),
				zap.Int("frames", diff.Len()),
			)

			return storeGraph(app, &diffSink, graph)
		},
	}
)

func init() {
	diffgraphCmd.Flags().Var(diffKind, "kind", "Event type of the input files")
	diffgraphCmd.Flags().StringSliceVarP(&diffBaselineFiles, "baseline", "b", nil, "Baseline recording files")
	diffgraphCmd.Flags().StringSliceVarP(&diffComparisonFiles, "comparison", "C", nil, "Comparison recording files")
	must.Must(diffgraphCmd.MarkFlagRequired("baseline"))
	must.Must(diffgraphCmd.MarkFlagRequired("comparison"))
	must.Must(diffgraphCmd.MarkFlagFilename("baseline"))
	must.Must(diffgraphCmd.MarkFlagFilename("comparison"))
	addSinkOptions(diffgraphCmd, &diffSink)

	rootCmd.AddCommand(diffgraphCmd)
}
