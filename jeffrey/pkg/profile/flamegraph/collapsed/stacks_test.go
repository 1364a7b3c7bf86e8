package collapsed_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/flamegraph/collapsed"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

func TestCollapsedParsing(t *testing.T) {
	for i, test := range []struct {
		raw         string
		expected    string
		profile     *collapsed.Profile
		err         bool
		noroundtrip bool
	}{{
		raw: `java/lang/Thread.run_[j];pbouda/App.main_[i];memcpy 42`,
		profile: &collapsed.Profile{
			Samples: []collapsed.Sample{{
				Stack: []string{"java/lang/Thread.run_[j]", "pbouda/App.main_[i]", "memcpy"},
				Value: 42,
			}},
		},
	}, {
		raw: `aaa aaa 1


JavaThread::thread_main_inner 1099511627776`,
		profile: &collapsed.Profile{
			Samples: []collapsed.Sample{{
				Stack: []string{"aaa aaa"},
				Value: 1,
			}, {
				Stack: []string{"JavaThread::thread_main_inner"},
				Value: 1099511627776,
			}},
		},
		noroundtrip: true,
	}, {
		raw: `hex;count 0xdeadbeef`,
		profile: &collapsed.Profile{
			Samples: []collapsed.Sample{{
				Stack: []string{"hex", "count"},
				Value: 3735928559,
			}},
		},
		expected: `hex;count 3735928559`,
	}, {
		raw: `abc`,
		err: true,
	}, {
		raw: `i love c++`,
		err: true,
	}, {
		raw: `negative -1`,
		err: true,
	}} {
		t.Run(fmt.Sprintf("collapsed/%d", i), func(t *testing.T) {
			profile, err := collapsed.Unmarshal([]byte(test.raw))
			if test.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.profile, profile)

			raw, err := collapsed.Marshal(profile)
			require.NoError(t, err)
			if test.noroundtrip {
				return
			}
			expected := test.raw
			if test.expected != "" {
				expected = test.expected
			}
			require.Equal(t, expected, strings.TrimSpace(string(raw)))
		})
	}
}

func TestParseFrame(t *testing.T) {
	for _, test := range []struct {
		raw      string
		expected record.StackFrame
	}{
		{"java/lang/Thread.run_[j]", record.StackFrame{ClassName: "java.lang.Thread", MethodName: "run", Type: record.FrameTypeJITCompiled}},
		{"java/util/HashMap.get_[i]", record.StackFrame{ClassName: "java.util.HashMap", MethodName: "get", Type: record.FrameTypeInlined}},
		{"pbouda/App.loop_[0]", record.StackFrame{ClassName: "pbouda.App", MethodName: "loop", Type: record.FrameTypeInterpreted}},
		{"pbouda/App.tick_[1]", record.StackFrame{ClassName: "pbouda.App", MethodName: "tick", Type: record.FrameTypeC1Compiled}},
		{"do_syscall_64_[k]", record.StackFrame{MethodName: "do_syscall_64", Type: record.FrameTypeKernel}},
		{"CompileBroker::compiler_thread_loop", record.StackFrame{MethodName: "CompileBroker::compiler_thread_loop", Type: record.FrameTypeCPP}},
		{"java/lang/Object.wait", record.StackFrame{ClassName: "java.lang.Object", MethodName: "wait", Type: record.FrameTypeJITCompiled}},
		{"__memmove_avx_unaligned", record.StackFrame{MethodName: "__memmove_avx_unaligned", Type: record.FrameTypeNative}},
		{"[unknown]", record.StackFrame{MethodName: "[unknown]", Type: record.FrameTypeNative}},
	} {
		t.Run(test.raw, func(t *testing.T) {
			require.Equal(t, test.expected, collapsed.ParseFrame(test.raw))
		})
	}
}

func TestSampleFrames(t *testing.T) {
	sample := collapsed.Sample{Stack: []string{"java/lang/Thread.run_[j]", "start_thread"}}
	frames := sample.Frames()
	require.Len(t, frames, 2)
	require.Equal(t, "java.lang.Thread.run", frames[0].Name())
	require.Equal(t, record.FrameTypeNative, frames[1].Type)
}
