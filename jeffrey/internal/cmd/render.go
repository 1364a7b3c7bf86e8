package cmd

import (
	"bytes"
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"

	"github.com/pbouda/jeffrey/jeffrey/internal/cli"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/flamegraph/render"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/flamegraph/render/format"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/source"
)

func loadTree(
	ctx context.Context,
	app *cli.App,
	files []string,
	kind record.Kind,
	threads []string,
	opts ...frametree.Option,
) (tree *frametree.Tree, err error) {
	ctx, span := otel.Tracer("CLI").Start(ctx, "cmd.loadTree")
	defer span.End()
	defer func() {
		if err != nil {
			span.SetStatus(otelcodes.Error, err.Error())
			span.RecordError(err)
		}
	}()
	span.SetAttributes(
		attribute.StringSlice("files", files),
		attribute.String("event.kind", kind.Code()),
		attribute.StringSlice("threads", threads),
	)

	repo := app.Repository(map[record.Kind][]string{kind: files}, threads...)
	return buildTree(ctx, repo, kind, opts...)
}

func buildTree(ctx context.Context, repo *source.FileRepository, kind record.Kind, opts ...frametree.Option) (*frametree.Tree, error) {
	b := frametree.NewBuilder(opts...)
	err := repo.Stream(ctx, kind, func(event *record.Event) error {
		b.AddEvent(event)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func renderOptions(app *cli.App, weight bool) []render.Option {
	conf := app.Config().FlameGraph
	return []render.Option{
		render.WithMaxDepth(conf.MaxDepth),
		render.WithMinWidthRatio(*conf.MinWidthRatio),
		render.WithWeight(weight || conf.Weight),
	}
}

func storeGraph(app *cli.App, opts *sinkOptions, graph *format.Graph) error {
	var buf bytes.Buffer
	if err := render.WriteJSON(&buf, graph); err != nil {
		return err
	}
	return makeSink(app, opts).Store(app.Context(), buf.Bytes())
}
