package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type readCloser struct {
	io.Reader
	close func() error
}

func (r *readCloser) Close() error {
	return r.close()
}

// Open opens a recording file. Zstandard compressed files are decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r, err := Decompress(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return &readCloser{r, func() error {
		if closer, ok := r.(io.Closer); ok {
			_ = closer.Close()
		}
		return file.Close()
	}}, nil
}

type zstdReader struct {
	*zstd.Decoder
}

func (r zstdReader) Close() error {
	r.Decoder.Close()
	return nil
}

// Decompress sniffs the stream and unwraps zstd frames.
func Decompress(r io.Reader) (io.Reader, error) {
	buffered := bufio.NewReader(r)
	magic, err := buffered.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(magic, zstdMagic) {
		return buffered, nil
	}

	dec, err := zstd.NewReader(buffered)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return zstdReader{dec}, nil
}
