// Package io provides the output devices of the simulated machine.
package io

// Port defines the interface for the device written by the put instruction.
type Port interface {
	// PutInt writes value as a decimal integer.
	PutInt(value int) error
	// PutChar writes value as a single character code.
	PutChar(value int) error
}
