package preconditions

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

const (
	KeyGarbageCollector = "gc_algorithm"
	KeyOldGenCollector  = "gc_old_collector"
	KeyEventSource      = "event_source"
	KeyDebugSymbols     = "debug_symbols"
	KeyKernelSymbols    = "kernel_symbols"
	KeyEventKinds       = "event_kinds"
)

// Preconditions are facts about a recording. A guard declares the facts it
// requires, the recording under analysis provides the current ones.
// The zero value requires nothing.
type Preconditions struct {
	eventSource      EventSource
	garbageCollector GarbageCollector
	debugSymbols     *bool
	kernelSymbols    *bool
	eventKinds       []record.Kind
}

func (p Preconditions) EventSource() EventSource {
	return p.eventSource
}

func (p Preconditions) GarbageCollector() GarbageCollector {
	return p.garbageCollector
}

func (p Preconditions) DebugSymbolsAvailable() (available, known bool) {
	return lookup(p.debugSymbols)
}

func (p Preconditions) KernelSymbolsAvailable() (available, known bool) {
	return lookup(p.kernelSymbols)
}

func (p Preconditions) EventKinds() []record.Kind {
	return slices.Clone(p.eventKinds)
}

func (p Preconditions) IsEmpty() bool {
	return p.eventSource == EventSourceUnknown &&
		p.garbageCollector == GarbageCollectorUnknown &&
		p.debugSymbols == nil &&
		p.kernelSymbols == nil &&
		len(p.eventKinds) == 0
}

// Matches reports whether the current facts satisfy every requirement of p.
func (p Preconditions) Matches(current Preconditions) bool {
	if p.eventSource != EventSourceUnknown && p.eventSource != current.eventSource {
		return false
	}
	if p.garbageCollector != GarbageCollectorUnknown && p.garbageCollector != current.garbageCollector {
		return false
	}
	if !matchFlag(p.debugSymbols, current.debugSymbols) || !matchFlag(p.kernelSymbols, current.kernelSymbols) {
		return false
	}
	for _, kind := range p.eventKinds {
		if !slices.Contains(current.eventKinds, kind) {
			return false
		}
	}
	return true
}

func (p Preconditions) String() string {
	parts := make([]string, 0)
	if p.garbageCollector != GarbageCollectorUnknown {
		parts = append(parts, KeyGarbageCollector+"="+p.garbageCollector.String())
	}
	if p.eventSource != EventSourceUnknown {
		parts = append(parts, KeyEventSource+"="+p.eventSource.String())
	}
	if p.debugSymbols != nil {
		parts = append(parts, KeyDebugSymbols+"="+strconv.FormatBool(*p.debugSymbols))
	}
	if p.kernelSymbols != nil {
		parts = append(parts, KeyKernelSymbols+"="+strconv.FormatBool(*p.kernelSymbols))
	}
	if len(p.eventKinds) > 0 {
		codes := make([]string, 0, len(p.eventKinds))
		for _, kind := range p.eventKinds {
			codes = append(codes, kind.Code())
		}
		parts = append(parts, KeyEventKinds+"="+strings.Join(codes, ","))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func lookup(flag *bool) (value, known bool) {
	if flag == nil {
		return false, false
	}
	return *flag, true
}

func matchFlag(required, current *bool) bool {
	if required == nil {
		return true
	}
	return current != nil && *current == *required
}

////////////////////////////////////////////////////////////////////////////////

type Builder struct {
	p Preconditions
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) WithEventSource(source EventSource) *Builder {
	b.p.eventSource = source
	return b
}

func (b *Builder) WithGarbageCollector(gc GarbageCollector) *Builder {
	b.p.garbageCollector = gc
	return b
}

func (b *Builder) WithDebugSymbolsAvailable(available bool) *Builder {
	b.p.debugSymbols = &available
	return b
}

func (b *Builder) WithKernelSymbolsAvailable(available bool) *Builder {
	b.p.kernelSymbols = &available
	return b
}

func (b *Builder) WithEventKinds(kinds ...record.Kind) *Builder {
	b.p.eventKinds = append(b.p.eventKinds, kinds...)
	return b
}

// Build returns the collected preconditions. The builder can be reused afterwards.
func (b *Builder) Build() Preconditions {
	res := b.p
	res.eventKinds = slices.Clone(b.p.eventKinds)
	return res
}

////////////////////////////////////////////////////////////////////////////////

// Parse builds preconditions from key=value facts, e.g. {"gc_algorithm": "G1"}.
func Parse(values map[string]string) (Preconditions, error) {
	b := NewBuilder()
	for key, value := range values {
		switch key {
		case KeyGarbageCollector:
			gc, err := ParseGarbageCollector(value)
			if err != nil {
				return Preconditions{}, err
			}
			b.WithGarbageCollector(gc)
		case KeyOldGenCollector:
			// An explicit collector name takes precedence.
			if _, ok := values[KeyGarbageCollector]; ok {
				continue
			}
			gc := FromOldGenCollector(value)
			if gc == GarbageCollectorUnknown {
				return Preconditions{}, fmt.Errorf("unknown old generation collector %q", value)
			}
			b.WithGarbageCollector(gc)
		case KeyEventSource:
			source, err := ParseEventSource(value)
			if err != nil {
				return Preconditions{}, err
			}
			b.WithEventSource(source)
		case KeyDebugSymbols, KeyKernelSymbols:
			flag, err := strconv.ParseBool(value)
			if err != nil {
				return Preconditions{}, fmt.Errorf("malformed %s: %w", key, err)
			}
			if key == KeyDebugSymbols {
				b.WithDebugSymbolsAvailable(flag)
			} else {
				b.WithKernelSymbolsAvailable(flag)
			}
		case KeyEventKinds:
			for _, code := range strings.Split(value, ",") {
				kind, err := record.ParseKind(strings.TrimSpace(code))
				if err != nil {
					return Preconditions{}, err
				}
				b.WithEventKinds(kind)
			}
		default:
			return Preconditions{}, fmt.Errorf("unknown precondition %q", key)
		}
	}
	return b.Build(), nil
}
