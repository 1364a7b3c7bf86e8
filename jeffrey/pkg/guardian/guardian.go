package guardian

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pbouda/jeffrey/jeffrey/internal/xmetrics"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/guard"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/preconditions"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
)

type Option func(*Guardian)

func WithLogger(logger xlog.Logger) Option {
	return func(g *Guardian) {
		g.logger = logger
	}
}

func WithMetrics(registry xmetrics.Registry) Option {
	return func(g *Guardian) {
		g.metrics = newMetrics(registry)
	}
}

// WithGroups replaces the default groups.
func WithGroups(groups ...*Group) Option {
	return func(g *Guardian) {
		g.groups = groups
	}
}

// WithProfileID sets the profile referenced by visualizations. Defaults to a random request id.
func WithProfileID(id string) Option {
	return func(g *Guardian) {
		g.profileID = id
	}
}

// Guardian evaluates all its groups over a recording.
type Guardian struct {
	groups    []*Group
	repo      EventStreamRepository
	logger    xlog.Logger
	metrics   *metrics
	profileID string
}

func New(repo EventStreamRepository, opts ...Option) *Guardian {
	g := &Guardian{
		groups: DefaultGroups(),
		repo:   repo,
		logger: xlog.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guardian) Groups() []*Group {
	return g.groups
}

// Process runs every group having a matching summary. Groups are independent
// and run concurrently, each over its own frame tree. Results keep the order
// of the groups.
func (g *Guardian) Process(ctx context.Context, summaries []record.Summary, current preconditions.Preconditions) ([]guard.Result, error) {
	requestID := uuid.Must(uuid.NewV4()).String()
	ctx = xlog.WrapContext(ctx, zap.String("request.id", requestID))

	profileID := g.profileID
	if profileID == "" {
		profileID = requestID
	}

	g.logger.Info(ctx, "Evaluating guardian groups",
		zap.Int("groups", len(g.groups)),
		zap.Stringer("preconditions", current),
	)

	groupResults := make([][]guard.Result, len(g.groups))
	eg, ctx := errgroup.WithContext(ctx)
	for i, group := range g.groups {
		summary, ok := selectSummary(group, summaries)
		if !ok {
			g.logger.Debug(ctx, "No events for guardian group", zap.String("group", group.Name))
			continue
		}

		eg.Go(func() error {
			start := time.Now()
			info := guard.ProfileInfo{ProfileID: profileID, EventKind: summary.Kind}

			results, err := group.Execute(ctx, g.repo, summary, current, info)
			if err != nil {
				g.logger.Error(ctx, "Guardian group failed", zap.String("group", group.Name), zap.Error(err))
				return err
			}

			g.metrics.observe(group.Name, start, results)
			g.logger.Info(ctx, "Evaluated guardian group",
				zap.String("group", group.Name),
				zap.Stringer("kind", summary.Kind),
				zap.Uint64("samples", summary.Samples),
				zap.Int("warnings", countWarnings(results)),
				zap.Duration("duration", time.Since(start)),
			)
			groupResults[i] = results
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := make([]guard.Result, 0)
	for _, results := range groupResults {
		res = append(res, results...)
	}
	return res, nil
}

func selectSummary(group *Group, summaries []record.Summary) (record.Summary, bool) {
	for _, kind := range group.Kinds {
		for _, summary := range summaries {
			if summary.Kind == kind {
				return summary, true
			}
		}
	}
	return record.Summary{}, false
}

func countWarnings(results []guard.Result) int {
	count := 0
	for _, res := range results {
		if res.Severity == guard.SeverityWarning {
			count++
		}
	}
	return count
}
