package types

// HardwareRegisters is the table of hardware registers
// owned by a single machine. The table is indexed by the
// address of the hardware register ANDed with 0x007F, and
// each peripheral registers its own accessors at
// construction.
type HardwareRegisters [0x80]*HardwareRegister

// NewHardwareRegisters returns an empty register table.
func NewHardwareRegisters() *HardwareRegisters {
	return &HardwareRegisters{}
}

// Read returns the value of the hardware register for
// the given address. Unmapped or write-only registers
// read as 0xFF.
func (h *HardwareRegisters) Read(address uint16) uint8 {
	if address == 0xFF7F {
		return 0xFF
	}
	r := h[index(address)]
	if r == nil || r.read == nil {
		return 0xFF
	}
	return r.read()
}

// Write writes the given value to the hardware register
// for the given address. Unmapped or read-only registers
// ignore the write.
func (h *HardwareRegisters) Write(address uint16, value uint8) {
	if address == 0xFF7F {
		return
	}
	r := h[index(address)]
	if r == nil || r.write == nil {
		return
	}
	r.write(value)
}

// RegisterHardware registers a hardware register with the
// given address and read/write functions. The read and write
// functions may be nil, in which case the register is
// write-only or read-only, respectively.
func (h *HardwareRegisters) RegisterHardware(address HardwareAddress, write func(v uint8), read func() uint8) {
	h[index(address)] = &HardwareRegister{
		address: address,
		write:   write,
		read:    read,
	}
}

// Has returns true if a hardware register is registered
// for the given address.
func (h *HardwareRegisters) Has(address HardwareAddress) bool {
	return h[index(address)] != nil
}

// index returns the slot of address in the table. The IE
// register has no slot of its own in the 0xFF00-0xFF7F
// window, so it takes the unused slot at 0x7F.
func index(address HardwareAddress) uint16 {
	if address == IE {
		return 0x7F
	}
	return address & 0x007F
}

// HardwareRegister represents a single memory mapped
// register of a peripheral.
type HardwareRegister struct {
	address HardwareAddress
	write   func(v uint8)
	read    func() uint8
}

// Address returns the address the register is mapped to.
func (r *HardwareRegister) Address() HardwareAddress {
	return r.address
}

// NoWrite can be used as a write function for registers
// that silently discard writes.
func NoWrite(uint8) {}

// NoRead can be used as a read function for write-only
// registers.
func NoRead() uint8 { return 0xFF }
