package web

// Type is the first byte of every message sent to a client.
type Type = uint8

const (
	// Frame carries a cache index followed by a full RGBA frame.
	Frame Type = iota
	// FramePatch carries a cache index followed by an RGBA frame
	// holding only the pixels that changed, others zeroed.
	FramePatch
	// FrameSkip carries the number of identical frames skipped
	// since the last one sent, as a little endian uint32.
	FrameSkip
	// ClientInfo carries the info byte describing the hub
	// settings.
	ClientInfo
	// FrameCache tells the client to redraw the full frame held
	// at the given cache index.
	FrameCache
	// PatchCache tells the client to apply the patch held at the
	// given cache index.
	PatchCache
)

// Event is the first byte of every message received from a
// client. Anything else is a button message of the form
// [button, pressed].
type Event = uint8

const (
	KeepAlive Event = 254
	Closing   Event = 255
)

// info bits
const (
	infoCompression = 1 << iota
	infoFramePatching
	infoFrameSkipping
)
