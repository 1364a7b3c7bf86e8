package traverse

import (
	"fmt"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

// Next is the state a guard reports after observing a frame.
type Next int

const (
	NotStarted Next = iota
	Continue
	Done
)

func (n Next) String() string {
	switch n {
	case NotStarted:
		return "NOT_STARTED"
	case Continue:
		return "CONTINUE"
	case Done:
		return "DONE"
	default:
		return fmt.Sprintf("Next(%d)", int(n))
	}
}

////////////////////////////////////////////////////////////////////////////////

// TargetFrameType restricts the frames a base matcher is tried on.
type TargetFrameType int

const (
	TargetAll TargetFrameType = iota
	TargetJava
	TargetNative
)

func (t TargetFrameType) Accepts(typ record.FrameType) bool {
	switch t {
	case TargetJava:
		return typ.IsJava()
	case TargetNative:
		return typ.IsNative()
	default:
		return true
	}
}

// MatchingType tells whether a guard stops at the first base frame or keeps collecting all of them.
type MatchingType int

const (
	FirstMatch MatchingType = iota
	FullMatch
)
