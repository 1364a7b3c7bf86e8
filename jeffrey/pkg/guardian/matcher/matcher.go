package matcher

import (
	"regexp"
	"strings"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

// FrameMatcher decides whether a frame of a frame tree is interesting for a guard.
type FrameMatcher interface {
	Match(frame frametree.Frame) bool
}

type Func func(frame frametree.Frame) bool

func (f Func) Match(frame frametree.Frame) bool {
	return f(frame)
}

////////////////////////////////////////////////////////////////////////////////

// MethodName matches frames named exactly like one of the names.
func MethodName(names ...string) FrameMatcher {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return Func(func(frame frametree.Frame) bool {
		_, ok := set[frame.Name()]
		return ok
	})
}

func Prefix(prefixes ...string) FrameMatcher {
	return Func(func(frame frametree.Frame) bool {
		name := frame.Name()
		for _, prefix := range prefixes {
			if strings.HasPrefix(name, prefix) {
				return true
			}
		}
		return false
	})
}

func Contains(substr string) FrameMatcher {
	return Func(func(frame frametree.Frame) bool {
		return strings.Contains(frame.Name(), substr)
	})
}

func Regexp(re *regexp.Regexp) FrameMatcher {
	return Func(func(frame frametree.Frame) bool {
		return re.MatchString(frame.Name())
	})
}

func FrameType(types ...record.FrameType) FrameMatcher {
	return Func(func(frame frametree.Frame) bool {
		typ := frame.Type()
		for _, t := range types {
			if t == typ {
				return true
			}
		}
		return false
	})
}

// CPP matches native C++ frames named exactly like one of the names.
func CPP(names ...string) FrameMatcher {
	return And(FrameType(record.FrameTypeCPP), MethodName(names...))
}

////////////////////////////////////////////////////////////////////////////////

func And(matchers ...FrameMatcher) FrameMatcher {
	return Func(func(frame frametree.Frame) bool {
		for _, m := range matchers {
			if !m.Match(frame) {
				return false
			}
		}
		return true
	})
}

func Or(matchers ...FrameMatcher) FrameMatcher {
	return Func(func(frame frametree.Frame) bool {
		for _, m := range matchers {
			if m.Match(frame) {
				return true
			}
		}
		return false
	})
}

func Not(m FrameMatcher) FrameMatcher {
	return Func(func(frame frametree.Frame) bool {
		return !m.Match(frame)
	})
}

func Any() FrameMatcher {
	return Func(func(frametree.Frame) bool { return true })
}

func None() FrameMatcher {
	return Func(func(frametree.Frame) bool { return false })
}
