package fixture

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt is the suffix of zstd-compressed fixtures.
const CompressedExt = ".zst"

// IsCompressed reports whether path names a compressed fixture.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedExt)
}

// Compress compresses fixture text with zstd.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// compressStream compresses from src to dst using streaming zstd.
func compressStream(dst io.Writer, src io.Reader) error {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if _, err := io.Copy(enc, src); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Pack validates the fixture at in and writes it zstd-compressed to out. It
// returns the fixture fingerprint.
func Pack(in, out string) (string, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return "", fmt.Errorf("pack: %w", err)
	}
	if IsCompressed(in) {
		if data, err = Decompress(data); err != nil {
			return "", fmt.Errorf("pack %s: %w", in, err)
		}
	}
	f, err := Load(data)
	if err != nil {
		return "", fmt.Errorf("pack %s: %w", in, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(out), ".fixture-tmp-*")
	if err != nil {
		return "", fmt.Errorf("pack: tmpfile: %w", err)
	}
	tmpName := tmp.Name()
	if err := compressStream(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("pack: compress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("pack: close: %w", err)
	}
	if err := os.Rename(tmpName, out); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("pack: rename: %w", err)
	}
	return f.Fingerprint, nil
}
