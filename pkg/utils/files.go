// Package utils holds helpers shared by the frontends: loading
// possibly compressed ROM files, and turning frames into images.
package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// ErrEmptyArchive is returned when an archive holds no files.
var ErrEmptyArchive = errors.New("utils: empty archive")

// romExtensions are preferred when picking a file out of an
// archive.
var romExtensions = []string{".gb", ".gbc", ".bin"}

// streams maps the extension of a single file compression
// format to its decoder.
var streams = map[string]func(r io.Reader) (io.Reader, error){
	".gz": func(r io.Reader) (io.Reader, error) {
		return gzip.NewReader(r)
	},
	".xz": func(r io.Reader) (io.Reader, error) {
		return xz.NewReader(r)
	},
	".zst": func(r io.Reader) (io.Reader, error) {
		return zstd.NewReader(r)
	},
	".lz4": func(r io.Reader) (io.Reader, error) {
		return lz4.NewReader(r), nil
	},
	".br": func(r io.Reader) (io.Reader, error) {
		return brotli.NewReader(r), nil
	},
}

// LoadFile loads the given file and performs decompression if necessary.
// Archives (.zip, .7z) yield the first ROM file they contain, or
// their first file if none has a ROM extension.
func LoadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Decompress(filepath.Ext(filename), data)
}

// Decompress decodes data according to the file extension ext.
// Unknown extensions return data as is.
func Decompress(ext string, data []byte) ([]byte, error) {
	ext = strings.ToLower(ext)

	switch ext {
	case ".zip":
		r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("utils: opening zip: %w", err)
		}
		names := make([]string, len(r.File))
		for i, f := range r.File {
			names[i] = f.Name
		}
		i, err := pickROM(names)
		if err != nil {
			return nil, err
		}
		return readAll(r.File[i].Open())
	case ".7z":
		r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("utils: opening 7z: %w", err)
		}
		names := make([]string, len(r.File))
		for i, f := range r.File {
			names[i] = f.Name
		}
		i, err := pickROM(names)
		if err != nil {
			return nil, err
		}
		return readAll(r.File[i].Open())
	}

	decoder, ok := streams[ext]
	if !ok {
		return data, nil
	}
	r, err := decoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("utils: decoding %s: %w", ext, err)
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}
	if d, ok := r.(*zstd.Decoder); ok {
		defer d.Close()
	}
	return io.ReadAll(r)
}

// pickROM returns the index of the first name with a ROM
// extension, falling back to the first non directory entry.
func pickROM(names []string) (int, error) {
	fallback := -1
	for i, name := range names {
		if strings.HasSuffix(name, "/") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		for _, e := range romExtensions {
			if ext == e {
				return i, nil
			}
		}
		if fallback < 0 {
			fallback = i
		}
	}
	if fallback < 0 {
		return 0, ErrEmptyArchive
	}
	return fallback, nil
}

func readAll(rc io.ReadCloser, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
