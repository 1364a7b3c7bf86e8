package guardian

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"golang.org/x/exp/slices"

	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/catalog"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/guard"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/preconditions"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/traverse"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

// EventStreamRepository provides the events a frame tree is built from.
type EventStreamRepository interface {
	Stream(ctx context.Context, kind record.Kind, fn func(*record.Event) error) error
}

// Group is a catalog of guards evaluated over events of the same kinds.
type Group struct {
	Name string
	// Kinds the group analyses, the first one present in a recording wins.
	Kinds          []record.Kind
	MinimumSamples uint64
	Catalog        []catalog.Entry
	// Thresholds override the default thresholds of catalog entries by name.
	Thresholds  map[string]float64
	TreeOptions []frametree.Option
}

// Accepts reports whether the group analyses events of the kind.
func (g *Group) Accepts(kind record.Kind) bool {
	return slices.Contains(g.Kinds, kind)
}

// Execute evaluates every guard of the catalog over the events of summary.Kind.
//
// The total samples guard comes first. When the recording has fewer samples
// than the group minimum, no tree is built and every catalog guard is
// reported as not applicable. Otherwise the tree is built once and walked
// once, feeding every applicable guard. Results are ordered by category.
func (g *Group) Execute(
	ctx context.Context,
	repo EventStreamRepository,
	summary record.Summary,
	current preconditions.Preconditions,
	info guard.ProfileInfo,
) (results []guard.Result, err error) {
	ctx, span := otel.Tracer("Guardian").Start(ctx, "guardian.(*Group).Execute")
	defer span.End()
	defer func() {
		if err != nil {
			span.SetStatus(otelcodes.Error, err.Error())
			span.RecordError(err)
		}
	}()
	span.SetAttributes(
		attribute.String("group", g.Name),
		attribute.String("event.kind", summary.Kind.Code()),
		attribute.Int64("samples", int64(summary.Samples)),
	)

	totalSamples := guard.NewTotalSamplesGuard(summary.Samples, g.MinimumSamples)
	results = make([]guard.Result, 0, len(g.Catalog)+1)
	results = append(results, totalSamples.Result())

	if summary.Samples < g.MinimumSamples {
		for _, entry := range g.Catalog {
			results = append(results, guard.NotApplicable(entry.Name, entry.Category()))
		}
		sortByCategory(results)
		return results, nil
	}

	tree, err := g.buildTree(ctx, repo, summary.Kind)
	if err != nil {
		return nil, err
	}

	guards := make([]guard.Guard, 0, len(g.Catalog))
	applicable := make([]guard.Guard, 0, len(g.Catalog))
	for _, entry := range g.Catalog {
		instance := guard.New(entry.Build(g.Thresholds), info)
		guards = append(guards, instance)
		if instance.Initialize(current) {
			applicable = append(applicable, instance)
		}
	}
	span.SetAttributes(attribute.Int("guards.applicable", len(applicable)))

	walk(tree, applicable)

	for _, instance := range guards {
		results = append(results, instance.Result())
	}
	sortByCategory(results)
	return results, nil
}

func sortByCategory(results []guard.Result) {
	slices.SortStableFunc(results, func(a, b guard.Result) int {
		return int(a.Category) - int(b.Category)
	})
}

func (g *Group) buildTree(ctx context.Context, repo EventStreamRepository, kind record.Kind) (*frametree.Tree, error) {
	ctx, span := otel.Tracer("Guardian").Start(ctx, "frametree.(*Builder).Build")
	defer span.End()

	builder := frametree.NewBuilder(g.TreeOptions...)
	err := repo.Stream(ctx, kind, func(event *record.Event) error {
		builder.AddEvent(event)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s events: %w", kind.Code(), err)
	}

	tree := builder.Build()
	span.SetAttributes(attribute.Int("frames", tree.Len()))
	return tree, nil
}

// walk feeds every frame to every guard in a single depth-first pass.
// A subtree is skipped once all guards are done.
func walk(tree *frametree.Tree, guards []guard.Guard) {
	if len(guards) == 0 {
		return
	}

	next := make([]traverse.Next, len(guards))
	tree.Walk(func(frame frametree.Frame, depth int, path []string) bool {
		active := false
		for i, g := range guards {
			if next[i] == traverse.Done {
				continue
			}
			next[i] = g.Traverse(frame, depth, path)
			if next[i] != traverse.Done {
				active = true
			}
		}
		return active
	})
}
