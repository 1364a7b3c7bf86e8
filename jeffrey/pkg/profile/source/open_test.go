package source

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

const collapsedInput = "java/lang/Thread.run_[j];com/example/App.work_[j] 7\n"

func writeZstd(t *testing.T, path string, data []byte) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write(data)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestOpenPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.collapsed")
	require.NoError(t, os.WriteFile(path, []byte(collapsedInput), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, collapsedInput, string(data))
}

func TestOpenZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.collapsed.zst")
	writeZstd(t, path, []byte(collapsedInput))

	r, err := Open(path)
	require.NoError(t, err)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, collapsedInput, string(data))
	require.NoError(t, r.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecompressShortInput(t *testing.T) {
	r, err := Decompress(bytes.NewReader([]byte("ab")))
	require.NoError(t, err)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "ab", string(data))
}
