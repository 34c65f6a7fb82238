package reactor

import "strings"

// IOEvents is an interest mask: the readiness conditions a trigger waits for.
type IOEvents uint32

const (
	// EventRead indicates the descriptor is ready for reading.
	EventRead IOEvents = 1 << iota
	// EventWrite indicates the descriptor is ready for writing.
	EventWrite
)

func (e IOEvents) String() string {
	if e == 0 {
		return "none"
	}
	var parts []string
	if e&EventRead != 0 {
		parts = append(parts, "read")
	}
	if e&EventWrite != 0 {
		parts = append(parts, "write")
	}
	if e&^(EventRead|EventWrite) != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}

// valid reports whether e is non-empty and only holds known bits.
func (e IOEvents) valid() bool {
	return e != 0 && e&^(EventRead|EventWrite) == 0
}
