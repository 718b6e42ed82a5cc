package main

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// openSerial connects to a front end that classifies received seconds
// and writes one symbol digit each, such as a microcontroller wired to
// a receiver module.
func openSerial(port string, baud int) (io.ReadCloser, error) {
	mode := &serial.Mode{
		BaudRate: baud,
	}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", port, err)
	}
	return p, nil
}
