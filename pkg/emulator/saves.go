package emulator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

const stateExt = ".state.br"

// ErrNoState is returned by States.Latest when no state has been
// saved for the ROM.
var ErrNoState = errors.New("emulator: no save state")

// States keeps the save states of a single ROM in a folder of
// its own, each file named by the time it was written:
//
//	<root>/<rom hash>/<unix nanoseconds>.state.br
type States struct {
	Dir string
	now func() time.Time
}

// NewStates returns the States for the ROM with the given hash,
// kept under root.
func NewStates(root string, romHash uint64) *States {
	return &States{
		Dir: filepath.Join(root, fmt.Sprintf("%016x", romHash)),
		now: time.Now,
	}
}

// Save writes state as a new file and returns its path.
func (s *States) Save(state []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, strconv.FormatInt(s.now().UnixNano(), 10)+stateExt)
	return path, WriteState(path, state)
}

// List returns the paths of every saved state, oldest first.
func (s *States) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	type stamped struct {
		path string
		at   int64
	}
	var states []stamped
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, stateExt) {
			continue
		}
		at, err := strconv.ParseInt(strings.TrimSuffix(name, stateExt), 10, 64)
		if err != nil {
			continue // not one of ours
		}
		states = append(states, stamped{filepath.Join(s.Dir, name), at})
	}
	sort.Slice(states, func(i, j int) bool { return states[i].at < states[j].at })

	paths := make([]string, len(states))
	for i, st := range states {
		paths[i] = st.path
	}
	return paths, nil
}

// Latest reads the newest saved state.
func (s *States) Latest() ([]byte, error) {
	paths, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoState
	}
	return ReadState(paths[len(paths)-1])
}

// WriteState brotli compresses state into path. The data goes to
// a temporary file first, which then replaces path.
func WriteState(path string, state []byte) error {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := w.Write(state); err != nil {
		return fmt.Errorf("emulator: compressing state: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("emulator: compressing state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadState reads a state written by WriteState.
func ReadState(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	state, err := io.ReadAll(brotli.NewReader(bytes.NewReader(b)))
	if err != nil {
		return nil, fmt.Errorf("emulator: decompressing %s: %w", path, err)
	}
	return state, nil
}
