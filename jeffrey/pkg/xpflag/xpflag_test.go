package xpflag

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

func TestOneOf(t *testing.T) {
	level := NewOneOf("info", "debug", "info", "warn", "error")
	require.Equal(t, "info", level.String())
	require.Equal(t, "debug, info, warn, error", level.Variants())

	require.NoError(t, level.Set("warn"))
	require.Equal(t, "warn", level.String())

	require.Error(t, level.Set("trace"))
	require.Equal(t, "warn", level.String())
}

func TestKind(t *testing.T) {
	kind := NewKind(record.KindExecutionSample)
	require.Equal(t, "jdk.ExecutionSample", kind.String())

	require.NoError(t, kind.Set("jdk.ThreadPark"))
	require.Equal(t, record.KindThreadPark, kind.Kind())

	require.Error(t, kind.Set("jdk.Unknown"))
	require.Equal(t, record.KindThreadPark, kind.Kind())

	require.Empty(t, NewKind(record.KindUnknown).String())
}

func TestKeyValueFlagSet(t *testing.T) {
	kv := NewKeyValue()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.VarP(kv, "precondition", "p", "")

	err := flags.Parse([]string{
		"--precondition", "gc_algorithm=G1",
		"-p", "event_source = async-profiler",
		"-p", "gc_algorithm=ZGC",
	})
	require.NoError(t, err)

	require.Equal(t, map[string][]string{
		"gc_algorithm": {"G1", "ZGC"},
		"event_source": {"async-profiler"},
	}, kv.Values())
	require.Equal(t, map[string]string{
		"gc_algorithm": "ZGC",
		"event_source": "async-profiler",
	}, kv.Last())
	require.Equal(t, "event_source=async-profiler,gc_algorithm=G1,gc_algorithm=ZGC", kv.String())
}

func TestKeyValueMalformed(t *testing.T) {
	for _, value := range []string{"", "novalue", "=G1", " =x"} {
		require.Error(t, NewKeyValue().Set(value), value)
	}

	kv := NewKeyValue()
	require.NoError(t, kv.Set("debug_symbols="))
	require.Equal(t, map[string]string{"debug_symbols": ""}, kv.Last())
}
