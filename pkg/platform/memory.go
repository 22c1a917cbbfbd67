package platform

import "sync"

// ROM is a ROMSource backed by a byte slice.
type ROM []byte

// ReadByteAt implements ROMSource. Offsets past the end read
// as 0xFF.
func (r ROM) ReadByteAt(offset uint32) uint8 {
	if offset >= uint32(len(r)) {
		return 0xFF
	}
	return r[offset]
}

// Size implements ROMSource.
func (r ROM) Size() uint32 {
	return uint32(len(r))
}

// RAM is a RAMSource backed by a byte slice.
type RAM []byte

// NewRAM returns a zeroed RAM of the given size.
func NewRAM(size int) RAM {
	return make(RAM, size)
}

// ReadByteAt implements ROMSource.
func (r RAM) ReadByteAt(offset uint32) uint8 {
	if offset >= uint32(len(r)) {
		return 0xFF
	}
	return r[offset]
}

// WriteByteAt implements RAMSource. Writes past the end are
// dropped.
func (r RAM) WriteByteAt(offset uint32, value uint8) {
	if offset < uint32(len(r)) {
		r[offset] = value
	}
}

// Size implements ROMSource.
func (r RAM) Size() uint32 {
	return uint32(len(r))
}

// MemoryStorage is a Storage that keeps its data in memory.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

// Load implements Storage.
func (m *MemoryStorage) Load(size int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return resize(m.data, size), nil
}

// Store implements Storage.
func (m *MemoryStorage) Store(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append(m.data[:0], data...)
	return nil
}

// Bytes returns a copy of the stored data.
func (m *MemoryStorage) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// resize returns a copy of b with exactly size bytes, zero
// padded or truncated.
func resize(b []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, b)
	return out
}
