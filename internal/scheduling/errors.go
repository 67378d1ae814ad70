package scheduling

import "errors"

// Sentinel errors returned by the scheduling service. Handlers translate
// these into HTTP responses with errors.Is; anything else is treated as an
// internal failure.
var (
	// ErrValidation signals missing or malformed input.
	ErrValidation = errors.New("invalid input")

	// ErrNoSchedule signals that the doctor has no configured availability.
	ErrNoSchedule = errors.New("doctor has no schedule configured")

	// ErrOutOfHours signals a requested time outside the doctor's working
	// windows, or inside a break window.
	ErrOutOfHours = errors.New("requested time is outside working hours")

	// ErrSlotTaken signals that the exact (doctor, date, time) slot is
	// already held by a non-rejected appointment.
	ErrSlotTaken = errors.New("slot already taken")

	// ErrOverlap signals that a schedule window conflicts with an existing
	// window for the same day.
	ErrOverlap = errors.New("schedule window overlaps an existing entry")

	// ErrNotFound signals that a referenced record does not resolve.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition signals an appointment status change that the
	// lifecycle does not permit.
	ErrInvalidTransition = errors.New("invalid appointment status transition")
)
