package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/pprof/profile"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/flamegraph/collapsed"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

type Format string

const (
	FormatCollapsed Format = "collapsed"
	FormatPProf     Format = "pprof"
)

// DetectFormat guesses the format of a recording from its file name.
func DetectFormat(path string) Format {
	name := strings.TrimSuffix(filepath.Base(path), ".zst")
	for _, ext := range []string{".pb.gz", ".pprof", ".pb", ".prof"} {
		if strings.HasSuffix(name, ext) {
			return FormatPProf
		}
	}
	return FormatCollapsed
}

func Decode(r io.Reader, format Format, kind record.Kind) ([]*record.Event, error) {
	switch format {
	case FormatCollapsed:
		return DecodeCollapsed(r, kind)
	case FormatPProf:
		return DecodePProf(r, kind)
	default:
		return nil, fmt.Errorf("unsupported recording format %q", format)
	}
}

////////////////////////////////////////////////////////////////////////////////

// DecodeCollapsed reads collapsed stacks as written by async-profiler.
// A leading "[thread name tid=N]" frame becomes the thread of the event.
func DecodeCollapsed(r io.Reader, kind record.Kind) ([]*record.Event, error) {
	prof, err := collapsed.Decode(r)
	if err != nil {
		return nil, err
	}

	events := make([]*record.Event, 0, len(prof.Samples))
	for i := range prof.Samples {
		sample := &prof.Samples[i]
		if sample.Value == 0 {
			continue
		}

		var thread *record.Thread
		if len(sample.Stack) > 0 {
			if t, ok := parseThreadFrame(sample.Stack[0]); ok {
				thread = t
				sample.Stack = sample.Stack[1:]
			}
		}

		value := uint64(sample.Value)
		events = append(events, &record.Event{
			Kind:   kind,
			Stack:  sample.Frames(),
			Thread: thread,
			Count:  value,
			Weight: value,
		})
	}
	return events, nil
}

func parseThreadFrame(frame string) (*record.Thread, bool) {
	if !strings.HasPrefix(frame, "[") || !strings.HasSuffix(frame, "]") {
		return nil, false
	}
	name := frame[1 : len(frame)-1]

	thread := &record.Thread{}
	if idx := strings.LastIndex(name, " tid="); idx != -1 {
		if _, err := fmt.Sscanf(name[idx+len(" tid="):], "%d", &thread.OSID); err == nil {
			name = name[:idx]
		}
	}
	thread.Name = name
	return thread, thread.Name != ""
}

////////////////////////////////////////////////////////////////////////////////

const (
	threadLabel   = "thread"
	threadIDLabel = "thread_id"
)

// DecodePProf reads a pprof profile. The default sample type, or the last one
// when no default is set, becomes the weight and a sample type measured in
// "count" becomes the number of samples. Samples with no value are skipped.
func DecodePProf(r io.Reader, kind record.Kind) ([]*record.Event, error) {
	prof, err := profile.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pprof profile: %w", err)
	}

	if len(prof.SampleType) == 0 {
		return nil, fmt.Errorf("pprof profile has no sample types")
	}

	weightIdx := len(prof.SampleType) - 1
	for i, value := range prof.SampleType {
		if value.Type == prof.DefaultSampleType {
			weightIdx = i
			break
		}
	}
	countIdx := -1
	for i, value := range prof.SampleType {
		if value.Unit == "count" {
			countIdx = i
			break
		}
	}

	events := make([]*record.Event, 0, len(prof.Sample))
	for _, sample := range prof.Sample {
		event := &record.Event{
			Kind:   kind,
			Stack:  pprofStack(sample),
			Weight: uint64(max(sample.Value[weightIdx], 0)),
		}
		if countIdx >= 0 {
			event.Count = uint64(max(sample.Value[countIdx], 0))
			if event.Count == 0 {
				continue
			}
		} else if event.Weight == 0 {
			continue
		}
		if names := sample.Label[threadLabel]; len(names) > 0 {
			event.Thread = &record.Thread{Name: names[0]}
			if ids := sample.NumLabel[threadIDLabel]; len(ids) > 0 {
				event.Thread.OSID = ids[0]
			}
		}
		events = append(events, event)
	}
	return events, nil
}

// pprofStack returns frames ordered from the root to the leaf. Inlined
// functions of a location follow the function they were inlined into.
func pprofStack(sample *profile.Sample) []record.StackFrame {
	stack := make([]record.StackFrame, 0, len(sample.Location))
	for i := len(sample.Location) - 1; i >= 0; i-- {
		loc := sample.Location[i]

		if len(loc.Line) == 0 {
			name := fmt.Sprintf("0x%x", loc.Address)
			if loc.Mapping != nil {
				name = fmt.Sprintf("0x%x @%s", loc.Address, loc.Mapping.File)
			}
			stack = append(stack, record.StackFrame{MethodName: name, Type: record.FrameTypeNative})
			continue
		}

		for j := len(loc.Line) - 1; j >= 0; j-- {
			line := loc.Line[j]

			name := "??"
			if line.Function != nil {
				if line.Function.Name != "" {
					name = line.Function.Name
				} else if line.Function.SystemName != "" {
					name = line.Function.SystemName
				}
			}

			frame := collapsed.ParseFrame(name)
			frame.LineNumber = int32(line.Line)
			if j != len(loc.Line)-1 && frame.Type.IsJava() {
				frame.Type = record.FrameTypeInlined
			}
			stack = append(stack, frame)
		}
	}
	return stack
}
