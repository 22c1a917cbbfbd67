package cartridge

import (
	"fmt"
	"strings"
)

var (
	ramMAP = map[uint8]uint32{
		0x00: 0,
		0x02: 8 * 1024,
		0x03: 32 * 1024,
		0x04: 128 * 1024,
		0x05: 64 * 1024,
	}
)

type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBATT       Type = 0x03
	MBC2              Type = 0x05
	MBC2BATT          Type = 0x06
	ROMRAM            Type = 0x08
	ROMRAMBATT        Type = 0x09
	MBC3TIMERBATT     Type = 0x0F
	MBC3TIMERRAMBATT  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBATT       Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBATT       Type = 0x1B
	MBC5RUMBLE        Type = 0x1C
	MBC5RUMBLERAM     Type = 0x1D
	MBC5RUMBLERAMBATT Type = 0x1E
)

// Battery returns true if the cartridge type keeps its RAM
// (and clock) powered.
func (t Type) Battery() bool {
	switch t {
	case MBC1RAMBATT, MBC2BATT, ROMRAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT, MBC3RAMBATT, MBC5RAMBATT, MBC5RUMBLERAMBATT:
		return true
	}
	return false
}

// Timer returns true if the cartridge type carries a real
// time clock.
func (t Type) Timer() bool {
	return t == MBC3TIMERBATT || t == MBC3TIMERRAMBATT
}

// Header represents the header of a cartridge, each cartridge has a header and is
// located at the address space 0x0100-0x014F. The header contains information about
// the cartridge itself, and the hardware it expects to run on.
type Header struct {
	// 0x0134-0x0143 - Title of the game
	Title string

	CartridgeType  Type
	ROMSize        uint32
	RAMSize        uint32
	HeaderChecksum uint8
	GlobalChecksum uint16

	raw [0x50]byte
}

// parseHeader parses the header of the given ROM and returns a Header.
// header must hold the 0x50 bytes at 0x0100-0x014F.
func parseHeader(header []byte) Header {
	h := Header{}
	copy(h.raw[:], header)

	// parse the title, which is padded with zeros
	h.Title = strings.TrimRight(string(header[0x34:0x44]), "\x00")

	// parse the cartridge type
	h.CartridgeType = Type(header[0x47])

	// parse the ROM size (calculated by 32kB x (1 << n))
	if header[0x48] <= 0x08 {
		h.ROMSize = (32 * 1024) << header[0x48]
	}

	// parse the RAM size
	h.RAMSize = ramMAP[header[0x49]]

	// parse the header checksum
	h.HeaderChecksum = header[0x4D]

	// parse the global checksum
	h.GlobalChecksum = uint16(header[0x4E])<<8 | uint16(header[0x4F])

	return h
}

// Checksum computes the header checksum over 0x0134-0x014C,
// as the boot ROM does.
func (h *Header) Checksum() uint8 {
	var x uint8
	for _, b := range h.raw[0x34:0x4D] {
		x = x - b - 1
	}
	return x
}

// Valid reports whether the header checksum matches.
func (h *Header) Valid() bool {
	return h.Checksum() == h.HeaderChecksum
}

func (h *Header) String() string {
	return fmt.Sprintf("%s | Type: 0x%02X | ROM Size: %dkB | RAM Size: %dkB", h.Title, uint8(h.CartridgeType), h.ROMSize/1024, h.RAMSize/1024)
}
