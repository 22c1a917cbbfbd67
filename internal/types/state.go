package types

import (
	"errors"
)

// ErrShortState is returned when a State runs out of data
// before every component has been restored.
var ErrShortState = errors.New("state: unexpected end of data")

// State is a flat byte stream used to save and restore the
// machine between runs. Values are written little-endian in
// the order the components are visited, and must be read
// back in the same order.
type State struct {
	raw          []byte // raw state data (for serialization)
	readPosition int    // current read position
	short        bool   // set when a read ran past the end
}

// Stater is an interface that allows an object to be saved
// and loaded from a state.
type Stater interface {
	Load(*State) // Load the state of the object
	Save(*State) // Save the state of the object
}

// NewState creates a new state.
func NewState() *State {
	return &State{
		raw: make([]byte, 0, 0x8000),
	}
}

// StateFromBytes creates a new state from the given bytes.
func StateFromBytes(raw []byte) *State {
	return &State{
		raw: raw,
	}
}

// Err reports whether any read ran past the end of the state.
func (s *State) Err() error {
	if s.short {
		return ErrShortState
	}
	return nil
}

func (s *State) Write8(value uint8) {
	s.raw = append(s.raw, value)
}

func (s *State) Write16(value uint16) {
	s.raw = append(s.raw, byte(value), byte(value>>8))
}

func (s *State) Write32(value uint32) {
	s.raw = append(s.raw, byte(value), byte(value>>8), byte(value>>16), byte(value>>24))
}

func (s *State) Write64(value uint64) {
	s.Write32(uint32(value))
	s.Write32(uint32(value >> 32))
}

func (s *State) WriteBool(value bool) {
	s.raw = append(s.raw, Bool(value))
}

func (s *State) WriteData(data []byte) {
	s.raw = append(s.raw, data...)
}

// next returns the following n bytes, or a zeroed slice when
// the state is exhausted.
func (s *State) next(n int) []byte {
	if s.readPosition+n > len(s.raw) {
		s.short = true
		s.readPosition = len(s.raw)
		return make([]byte, n)
	}
	b := s.raw[s.readPosition : s.readPosition+n]
	s.readPosition += n
	return b
}

func (s *State) Read8() uint8 {
	return s.next(1)[0]
}

func (s *State) Read16() uint16 {
	b := s.next(2)
	return uint16(b[0]) | uint16(b[1])<<8
}

func (s *State) Read32() uint32 {
	b := s.next(4)
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func (s *State) Read64() uint64 {
	return uint64(s.Read32()) | uint64(s.Read32())<<32
}

func (s *State) ReadBool() bool {
	return s.Read8() != 0
}

func (s *State) ReadData(p []byte) {
	copy(p, s.next(len(p)))
}

// Bytes returns the raw state data.
func (s *State) Bytes() []byte {
	return s.raw
}
