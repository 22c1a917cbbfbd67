package types

// HardwareAddress represents the address of a hardware
// register. The hardware registers are mapped to memory
// addresses 0xFF00 - 0xFF7F, with the interrupt enable
// register living at 0xFFFF.
type HardwareAddress = uint16

const (
	// P1 selects which row of the joypad matrix is read
	// out through its lower nibble.
	P1 HardwareAddress = 0xFF00
	// SB holds the byte to be shifted out over the serial port.
	SB HardwareAddress = 0xFF01
	// SC controls serial transfers.
	//
	//	Bit 7 - Transfer Start Flag (0=No transfer, 1=Start)
	//	Bit 0 - Shift Clock (0=External, 1=Internal)
	SC HardwareAddress = 0xFF02
	// DIV is the upper byte of the free running system
	// counter. Writing any value to it resets the counter.
	DIV HardwareAddress = 0xFF04
	// TIMA is incremented at the rate selected by TAC, and
	// requests a timer interrupt when it overflows.
	TIMA HardwareAddress = 0xFF05
	// TMA is loaded into TIMA after an overflow.
	TMA HardwareAddress = 0xFF06
	// TAC controls the timer.
	//
	//	Bit 2   - Timer Enable
	//	Bit 1-0 - Input Clock Select
	//	          00: 1024 cycles
	//	          01: 16 cycles
	//	          10: 64 cycles
	//	          11: 256 cycles
	TAC HardwareAddress = 0xFF07
	// IF holds the pending interrupt requests.
	IF HardwareAddress = 0xFF0F

	NR10 HardwareAddress = 0xFF10
	NR11 HardwareAddress = 0xFF11
	NR12 HardwareAddress = 0xFF12
	NR13 HardwareAddress = 0xFF13
	NR14 HardwareAddress = 0xFF14
	NR21 HardwareAddress = 0xFF16
	NR22 HardwareAddress = 0xFF17
	NR23 HardwareAddress = 0xFF18
	NR24 HardwareAddress = 0xFF19
	NR30 HardwareAddress = 0xFF1A
	NR31 HardwareAddress = 0xFF1B
	NR32 HardwareAddress = 0xFF1C
	NR33 HardwareAddress = 0xFF1D
	NR34 HardwareAddress = 0xFF1E
	NR41 HardwareAddress = 0xFF20
	NR42 HardwareAddress = 0xFF21
	NR43 HardwareAddress = 0xFF22
	NR44 HardwareAddress = 0xFF23
	NR50 HardwareAddress = 0xFF24
	NR51 HardwareAddress = 0xFF25
	NR52 HardwareAddress = 0xFF26

	// WaveRAM is the start of the 16 byte wave pattern table.
	WaveRAM HardwareAddress = 0xFF30

	// LCDC is the main LCD control register.
	//
	//	Bit 7 - LCD Display Enable             (0=Off, 1=On)
	//	Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
	//	Bit 5 - Window Display Enable          (0=Off, 1=On)
	//	Bit 4 - BG & Window Tile Data Select   (0=8800-97FF, 1=8000-8FFF)
	//	Bit 3 - BG Tile Map Display Select     (0=9800-9BFF, 1=9C00-9FFF)
	//	Bit 2 - OBJ (Sprite) Size              (0=8x8, 1=8x16)
	//	Bit 1 - OBJ (Sprite) Display Enable    (0=Off, 1=On)
	//	Bit 0 - BG Display                     (0=Off, 1=On)
	LCDC HardwareAddress = 0xFF40
	// STAT holds the LCD status and the STAT interrupt sources.
	//
	//	Bit 6 - LYC=LY Coincidence Interrupt (1=Enable)
	//	Bit 5 - Mode 2 OAM Interrupt         (1=Enable)
	//	Bit 4 - Mode 1 V-Blank Interrupt     (1=Enable)
	//	Bit 3 - Mode 0 H-Blank Interrupt     (1=Enable)
	//	Bit 2 - Coincidence Flag  (0:LYC<>LY, 1:LYC=LY) (Read Only)
	//	Bit 1-0 - Mode Flag       (Read Only)
	STAT HardwareAddress = 0xFF41
	SCY  HardwareAddress = 0xFF42
	SCX  HardwareAddress = 0xFF43
	// LY indicates the current scanline. Writes are ignored.
	LY  HardwareAddress = 0xFF44
	LYC HardwareAddress = 0xFF45
	// DMA starts a transfer of 160 bytes from XX00 to OAM.
	DMA  HardwareAddress = 0xFF46
	BGP  HardwareAddress = 0xFF47
	OBP0 HardwareAddress = 0xFF48
	OBP1 HardwareAddress = 0xFF49
	WY   HardwareAddress = 0xFF4A
	WX   HardwareAddress = 0xFF4B
	// BDIS unmaps the boot ROM when written with a non-zero value.
	BDIS HardwareAddress = 0xFF50

	// IE holds the enabled interrupts.
	IE HardwareAddress = 0xFFFF
)
