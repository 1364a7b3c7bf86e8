package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/samplefilter"
	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
)

// Loader decodes all events of one kind stored in a file.
type Loader interface {
	Load(ctx context.Context, path string, kind record.Kind) ([]*record.Event, error)
}

type FileLoader struct{}

func (FileLoader) Load(ctx context.Context, path string, kind record.Kind) ([]*record.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	events, err := Decode(r, DetectFormat(path), kind)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return events, nil
}

////////////////////////////////////////////////////////////////////////////////

type Option func(*FileRepository)

func WithLoader(loader Loader) Option {
	return func(r *FileRepository) {
		r.loader = loader
	}
}

func WithFilters(filters ...samplefilter.EventFilter) Option {
	return func(r *FileRepository) {
		r.filters = append(r.filters, filters...)
	}
}

func WithLogger(logger xlog.Logger) Option {
	return func(r *FileRepository) {
		r.logger = logger
	}
}

// FileRepository serves the events of a recording split into one or more files per event kind.
// It is safe for concurrent use as long as its loader is.
type FileRepository struct {
	files   map[record.Kind][]string
	loader  Loader
	filters []samplefilter.EventFilter
	logger  xlog.Logger
}

func NewFileRepository(files map[record.Kind][]string, opts ...Option) *FileRepository {
	r := &FileRepository{
		files:  files,
		loader: FileLoader{},
		logger: xlog.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Kinds returns the kinds with at least one file, in declaration order of record.Kind.
func (r *FileRepository) Kinds() []record.Kind {
	kinds := maps.Keys(r.files)
	slices.Sort(kinds)
	return kinds
}

// Events loads and filters all events of the kind.
func (r *FileRepository) Events(ctx context.Context, kind record.Kind) ([]*record.Event, error) {
	res := make([]*record.Event, 0)
	for _, path := range r.files[kind] {
		events, err := r.loader.Load(ctx, path, kind)
		if err != nil {
			return nil, err
		}

		filtered := samplefilter.FilterEvents(events, r.filters...)
		r.logger.Debug(ctx, "Loaded events",
			zap.String("path", path),
			zap.Stringer("kind", kind),
			zap.Int("events", len(events)),
			zap.Int("filtered", len(events)-len(filtered)),
		)
		res = append(res, filtered...)
	}
	return res, nil
}

// Stream calls fn for every event of the kind. Both load and callback errors abort the stream.
func (r *FileRepository) Stream(ctx context.Context, kind record.Kind, fn func(*record.Event) error) error {
	events, err := r.Events(ctx, kind)
	if err != nil {
		return err
	}
	for _, event := range events {
		if err := fn(event); err != nil {
			return err
		}
	}
	return nil
}

// Summaries aggregates samples and weight of every available kind.
func (r *FileRepository) Summaries(ctx context.Context) ([]record.Summary, error) {
	res := make([]record.Summary, 0, len(r.files))
	for _, kind := range r.Kinds() {
		events, err := r.Events(ctx, kind)
		if err != nil {
			return nil, err
		}
		res = append(res, record.Summarize(kind, events))
	}
	return res, nil
}
