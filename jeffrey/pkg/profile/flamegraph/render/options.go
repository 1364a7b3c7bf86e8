package render

const (
	// DefaultMaxDepth bounds the number of rendered layers.
	DefaultMaxDepth = 1000

	// DefaultMinWidthRatio hides frames narrower than 0.1% of the root.
	DefaultMinWidthRatio = 0.001
)

type options struct {
	maxDepth      int
	minWidthRatio float64
	weight        bool
}

func defaultOptions() options {
	return options{
		maxDepth:      DefaultMaxDepth,
		minWidthRatio: DefaultMinWidthRatio,
	}
}

type Option func(*options)

// WithMaxDepth limits the number of layers below the root. Non-positive values keep the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithMinWidthRatio sets the share of the root width a frame must exceed to be rendered.
func WithMinWidthRatio(ratio float64) Option {
	return func(o *options) {
		if ratio >= 0 {
			o.minWidthRatio = ratio
		}
	}
}

// WithWeight lays out flamegraph frames by weight instead of samples.
// The diff formatter always uses samples.
func WithWeight(weight bool) Option {
	return func(o *options) {
		o.weight = weight
	}
}

func makeOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
