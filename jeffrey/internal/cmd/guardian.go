package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbouda/jeffrey/jeffrey/internal/cli"
	"github.com/pbouda/jeffrey/jeffrey/pkg/foreach"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/guard"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/preconditions"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
	"github.com/pbouda/jeffrey/jeffrey/pkg/xpflag"
)

var (
	guardianProfileID string
	guardianThreads   []string
	guardianSink      sinkOptions

	guardianInputs        = xpflag.NewKeyValue()
	guardianPreconditions = xpflag.NewKeyValue()

	guardianCmd = &cobra.Command{
		Use:   "guardian [FILE...]",
		Short: "Check a recording against the guard catalog",
		Long:  "Check a recording against the guard catalog. Positional files hold execution samples, other event types are passed as --input kind=path.",
		RunE: func(_ *cobra.Command, args []string) error {
			app, err := makeCLI()
			if err != nil {
				return err
			}
			defer app.Shutdown()

			files, err := parseInputs(guardianInputs.Values(), args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no input files")
			}

			ctx := app.Context()
			repo := app.Repository(files, guardianThreads...)
			summaries, err := repo.Summaries(ctx)
			if err != nil {
				return err
			}

			current, err := parsePreconditions(guardianPreconditions.Last(), summaries)
			if err != nil {
				return err
			}

			var treeOpts []frametree.Option
			if depth := app.Config().Source.MaxStackDepth; depth > 0 {
				treeOpts = append(treeOpts, frametree.WithMaxDepth(depth))
			}
			groups := cli.ConfigureGroups(guardian.DefaultGroups(), app.Config().Guardian)
			for _, group := range groups {
				group.TreeOptions = treeOpts
			}

			opts := []guardian.Option{
				guardian.WithLogger(app.Logger().WithName("guardian")),
				guardian.WithMetrics(app.Metrics()),
				guardian.WithGroups(groups...),
			}
			if guardianProfileID != "" {
				opts = append(opts, guardian.WithProfileID(guardianProfileID))
			}

			results, err := guardian.New(repo, opts...).Process(ctx, summaries, current)
			if err != nil {
				return err
			}
			logWarnings(ctx, app.Logger(), results)

			document, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return err
			}
			return makeSink(app, &guardianSink).Store(ctx, append(document, '\n'))
		},
	}
)

// parseInputs maps event types to files. Positional files are execution samples.
func parseInputs(inputs map[string][]string, args []string) (map[record.Kind][]string, error) {
	res := make(map[record.Kind][]string)
	for code, paths := range inputs {
		kind, err := record.ParseKind(code)
		if err != nil {
			return nil, fmt.Errorf("malformed --input: %w", err)
		}
		res[kind] = append(res[kind], paths...)
	}
	if len(args) > 0 {
		res[record.KindExecutionSample] = append(res[record.KindExecutionSample], args...)
	}
	return res, nil
}

// parsePreconditions defaults the event kinds to the kinds present in the recording.
func parsePreconditions(values map[string]string, summaries []record.Summary) (preconditions.Preconditions, error) {
	if _, ok := values[preconditions.KeyEventKinds]; !ok && len(summaries) > 0 {
		codes := foreach.Map(summaries, func(summary record.Summary) string {
			return summary.Kind.Code()
		})
		values[preconditions.KeyEventKinds] = strings.Join(codes, ",")
	}
	return preconditions.Parse(values)
}

func logWarnings(ctx context.Context, logger xlog.Logger, results []guard.Result) {
	for _, result := range results {
		if result.Severity != guard.SeverityWarning {
			continue
		}
		logger.Warn(ctx, "Guard failed",
			zap.String("guard", result.Name),
			zap.Stringer("category", result.Category),
			zap.String("matched", result.MatchedPercent),
			zap.String("summary", result.Summary),
		)
	}
}

func init() {
	guardianCmd.Flags().VarP(guardianInputs, "input", "i", "Recording file of an event type as kind=path, e.g. jdk.ThreadPark=park.pprof")
	guardianCmd.Flags().VarP(guardianPreconditions, "precondition", "p", "Known fact about the recording as key=value, e.g. gc_algorithm=G1")
	guardianCmd.Flags().StringVar(&guardianProfileID, "profile-id", "", "Profile id referenced by visualizations")
	guardianCmd.Flags().StringSliceVar(&guardianThreads, "thread", nil, "Keep only stacks sampled on the named thread, may be repeated")
	addSinkOptions(guardianCmd, &guardianSink)

	rootCmd.AddCommand(guardianCmd)
}
