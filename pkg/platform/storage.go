package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStorage persists cartridge memory to a .sav file.
type FileStorage struct {
	// Path is the path to the save file.
	Path string
}

// NewFileStorage returns a FileStorage for the ROM at romPath.
// The save file sits next to the ROM unless dir is set, and
// is named after the ROM with a .sav extension.
func NewFileStorage(romPath, dir string) *FileStorage {
	name := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath)) + ".sav"
	if dir == "" {
		dir = filepath.Dir(romPath)
	}
	return &FileStorage{Path: filepath.Join(dir, name)}
}

// Load implements Storage.
func (f *FileStorage) Load(size int) ([]byte, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return make([]byte, size), fmt.Errorf("platform: reading save %s: %w", f.Path, err)
	}
	return resize(b, size), nil
}

// Store implements Storage. The data is written to a
// temporary file which then replaces the save, so that a
// crash never leaves a truncated save behind.
func (f *FileStorage) Store(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}
