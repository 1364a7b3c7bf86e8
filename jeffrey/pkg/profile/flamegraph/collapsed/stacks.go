package collapsed

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

// Sample is a single line of collapsed stacks, frames ordered from the root to the leaf.
type Sample struct {
	Stack []string
	Value int64
}

type Profile struct {
	Samples []Sample
}

const maxLineSize = 4 * 1024 * 1024

func Decode(r io.Reader) (*Profile, error) {
	res := &Profile{
		Samples: make([]Sample, 0),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		idx := strings.LastIndexByte(line, ' ')
		if idx == -1 {
			return nil, errors.New("collapsed: malformed input")
		}
		count, err := strconv.ParseInt(line[idx+1:], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("collapsed: malformed input: %w", err)
		}
		if count < 0 {
			return nil, fmt.Errorf("collapsed: negative sample value %d", count)
		}
		res.Samples = append(res.Samples, Sample{
			Stack: strings.Split(line[:idx], ";"),
			Value: count,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("collapsed: %w", err)
	}

	return res, nil
}

func Encode(profile *Profile, w io.Writer) error {
	for _, sample := range profile.Samples {
		stack := strings.Join(sample.Stack, ";")
		_, err := fmt.Fprintf(w, "%s %d\n", stack, sample.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

func Unmarshal(buf []byte) (*Profile, error) {
	return Decode(bytes.NewBuffer(buf))
}

func Marshal(profile *Profile) ([]byte, error) {
	buf := new(bytes.Buffer)
	err := Encode(profile, buf)
	return buf.Bytes(), err
}

////////////////////////////////////////////////////////////////////////////////

// async-profiler annotates collapsed frames with a type suffix, e.g. "java/lang/Thread.run_[j]".
var frameSuffixes = map[string]record.FrameType{
	"_[j]": record.FrameTypeJITCompiled,
	"_[i]": record.FrameTypeInlined,
	"_[1]": record.FrameTypeC1Compiled,
	"_[0]": record.FrameTypeInterpreted,
	"_[k]": record.FrameTypeKernel,
}

// ParseFrame splits an annotated frame into class, method and frame type.
// Frames without an annotation are Java frames when they look like
// "pkg/Class.method", C++ frames when they contain "::" and native otherwise.
func ParseFrame(raw string) record.StackFrame {
	frameType := record.FrameTypeUnknown
	if len(raw) > 4 {
		if typ, ok := frameSuffixes[raw[len(raw)-4:]]; ok {
			frameType = typ
			raw = raw[:len(raw)-4]
		}
	}

	if frameType == record.FrameTypeUnknown {
		switch {
		case strings.Contains(raw, "::"):
			frameType = record.FrameTypeCPP
		case strings.Contains(raw, "/") && strings.Contains(raw, "."):
			frameType = record.FrameTypeJITCompiled
		default:
			frameType = record.FrameTypeNative
		}
	}

	if !frameType.IsJava() {
		return record.StackFrame{MethodName: raw, Type: frameType}
	}

	raw = strings.ReplaceAll(raw, "/", ".")
	idx := strings.LastIndexByte(raw, '.')
	if idx <= 0 {
		return record.StackFrame{MethodName: raw, Type: frameType}
	}
	return record.StackFrame{ClassName: raw[:idx], MethodName: raw[idx+1:], Type: frameType}
}

// Frames converts the stack of the sample into stack frames.
func (s *Sample) Frames() []record.StackFrame {
	res := make([]record.StackFrame, 0, len(s.Stack))
	for _, frame := range s.Stack {
		res = append(res, ParseFrame(frame))
	}
	return res
}
