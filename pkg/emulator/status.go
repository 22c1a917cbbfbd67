package emulator

// Status is how a headless run ended. It can be one of the
// following:
//
//   - Running
//   - Finished
//   - Cancelled
//   - Errored
type Status int

const (
	// Running is the status of a run that has not ended.
	Running Status = iota
	// Finished is the status of a run that rendered every
	// frame it was asked to.
	Finished
	// Cancelled is the status of a run stopped by its context.
	Cancelled
	// Errored is the status of a run stopped by a CPU fault
	// or a failing sink.
	Errored
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Finished:
		return "Finished"
	case Cancelled:
		return "Cancelled"
	case Errored:
		return "Errored"
	default:
		return "Unknown"
	}
}
