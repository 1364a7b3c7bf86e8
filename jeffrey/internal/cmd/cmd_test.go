package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/preconditions"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/flamegraph/render/format"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
)

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) {
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	require.NoError(t, rootCmd.Execute())
}

func readGraph(t *testing.T, path string) format.Graph {
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var graph format.Graph
	require.NoError(t, json.Unmarshal(data, &graph))
	return graph
}

func TestFlamegraphCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "cpu.collapsed", "main;work 3\nmain 1\n")
	output := filepath.Join(dir, "graph.json")

	execute(t, "flamegraph", "--kind", "jdk.ExecutionSample", "-o", output, input)

	graph := readGraph(t, output)
	require.Equal(t, 3, graph.Depth)
	require.Equal(t, "4 Event(s)", graph.Levels[0][0].Title)
	require.Equal(t, "main", graph.Levels[1][0].Title)
	require.Equal(t, "work", graph.Levels[2][0].Title)
	require.EqualValues(t, 3, graph.Levels[2][0].Width)
}

func TestFlamegraphCommandThreadFilter(t *testing.T) {
	t.Cleanup(func() { flamegraphThreads = nil })

	dir := t.TempDir()
	input := writeFile(t, dir, "cpu.collapsed", "[main tid=1];main;work 3\n[worker-1 tid=2];main;idle 5\n")
	output := filepath.Join(dir, "graph.json")

	execute(t, "flamegraph", "--thread", "main", "-o", output, input)

	graph := readGraph(t, output)
	require.Equal(t, "3 Event(s)", graph.Levels[0][0].Title)
	require.Len(t, graph.Levels[2], 1)
	require.Equal(t, "work", graph.Levels[2][0].Title)
}

func TestDiffgraphCommand(t *testing.T) {
	dir := t.TempDir()
	baseline := writeFile(t, dir, "baseline.collapsed", "main;old 2\nmain;kept 2\n")
	comparison := writeFile(t, dir, "comparison.collapsed", "main;kept 2\nmain;new 4\n")
	output := filepath.Join(dir, "diff.json")

	execute(t, "diffgraph", "--baseline", baseline, "--comparison", comparison, "-o", output)

	graph := readGraph(t, output)
	require.Equal(t, 3, graph.Depth)
	require.EqualValues(t, 10, graph.Width())

	titles := make([]string, 0)
	for _, rect := range graph.Levels[2] {
		titles = append(titles, rect.Title)
	}
	require.Equal(t, []string{"kept", "new", "old"}, titles)
}

func TestGuardianCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "cpu.collapsed", "main;CompileBroker::compiler_thread_loop 4\nmain;work 6\n")
	output := filepath.Join(dir, "guardian.json")
	metrics := filepath.Join(dir, "metrics.txt")

	execute(t, "guardian",
		"--metrics-dump", metrics,
		"--precondition", "gc_algorithm=G1",
		"--profile-id", "profile-1",
		"-o", output,
		input,
	)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal(data, &results))
	require.Len(t, results, 20)
	require.Equal(t, "Total Samples", results[0]["name"])
	require.Equal(t, "WARNING", results[0]["severity"])
	for _, res := range results[1:] {
		require.Equal(t, "NOT_APPLICABLE", res["severity"], res["name"])
	}

	dump, err := os.ReadFile(metrics)
	require.NoError(t, err)
	require.Contains(t, string(dump), "jeffrey_guardian_guard_results_total")
}

func TestValidateConfigCommand(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "valid.yaml", "guardian:\n  thresholds:\n    Logback: 0.05\n")
	unknown := writeFile(t, dir, "unknown.yaml", "guardian:\n  thresholdz: {}\n")

	execute(t, "validate-config", valid)

	rootCmd.SetArgs([]string{"--log-level", "error", "validate-config", unknown})
	require.Error(t, rootCmd.Execute())
}

func TestParseInputs(t *testing.T) {
	files, err := parseInputs(map[string][]string{
		"jdk.ThreadPark":      {"park.pprof"},
		"jdk.ExecutionSample": {"cpu-1.collapsed"},
	}, []string{"cpu-2.collapsed"})
	require.NoError(t, err)
	require.Equal(t, map[record.Kind][]string{
		record.KindThreadPark:      {"park.pprof"},
		record.KindExecutionSample: {"cpu-1.collapsed", "cpu-2.collapsed"},
	}, files)

	_, err = parseInputs(map[string][]string{"jdk.Unknown": {"x"}}, nil)
	require.Error(t, err)

	files, err = parseInputs(map[string][]string{}, nil)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestParsePreconditions(t *testing.T) {
	summaries := []record.Summary{
		{Kind: record.KindExecutionSample, Samples: 10},
		{Kind: record.KindThreadPark, Samples: 5},
	}

	current, err := parsePreconditions(map[string]string{"gc_algorithm": "z"}, summaries)
	require.NoError(t, err)
	require.Equal(t, preconditions.GarbageCollectorZ, current.GarbageCollector())
	require.Equal(t, []record.Kind{record.KindExecutionSample, record.KindThreadPark}, current.EventKinds())

	current, err = parsePreconditions(map[string]string{"event_kinds": "jdk.ThreadPark"}, summaries)
	require.NoError(t, err)
	require.Equal(t, []record.Kind{record.KindThreadPark}, current.EventKinds())

	_, err = parsePreconditions(map[string]string{"heap": "big"}, summaries)
	require.Error(t, err)
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	sink := &FileSink{logger: xlog.NewNop(), path: path}
	require.NoError(t, sink.Store(context.Background(), []byte(`{"depth":0}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"depth":0}`, string(data))
}
