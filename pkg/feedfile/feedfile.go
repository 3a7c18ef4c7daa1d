// Package feedfile opens vulnerability feed files and writes mapped output,
// handling compression based on the file extension.
package feedfile

import (
	"bufio"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var err error
	for _, fn := range r.closers {
		if cerr := fn(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open opens the file at path for reading. Files ending in gz, bz2, xz or zst
// are decompressed on the fly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	rc := &readCloser{closers: []func() error{f.Close}}
	switch {
	case strings.HasSuffix(path, "gz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip reader %s: %w", path, err)
		}
		rc.Reader = gr
		rc.closers = append([]func() error{gr.Close}, rc.closers...)
	case strings.HasSuffix(path, "bz2"):
		rc.Reader = bzip2.NewReader(f)
	case strings.HasSuffix(path, "xz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz reader %s: %w", path, err)
		}
		rc.Reader = xr
	case strings.HasSuffix(path, "zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd reader %s: %w", path, err)
		}
		rc.Reader = zr
		rc.closers = append([]func() error{func() error { zr.Close(); return nil }}, rc.closers...)
	default:
		rc.Reader = f
	}
	return rc, nil
}

// WriteAtomic calls write with a buffered writer targeting a temporary file
// next to path, and renames it to path only if write succeeds. Paths ending
// in gz or zst are compressed. On failure no file is left at path.
func WriteAtomic(path string, write func(w io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), fmt.Sprintf(".%s*", filepath.Base(path)))
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmpFile.Close()
			os.Remove(tmpFile.Name())
		}
	}()

	var (
		out        io.Writer = tmpFile
		compressor io.WriteCloser
	)
	switch {
	case strings.HasSuffix(path, "gz"):
		compressor = gzip.NewWriter(tmpFile)
	case strings.HasSuffix(path, "zst"):
		compressor, err = zstd.NewWriter(tmpFile, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return err
		}
	}
	if compressor != nil {
		out = compressor
	}

	bw := bufio.NewWriter(out)
	if err := write(bw); err != nil {
		if compressor != nil {
			compressor.Close()
		}
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if compressor != nil {
		if err := compressor.Close(); err != nil {
			return err
		}
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpFile.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmpFile.Name(), path)
}
