//go:build !linux

package main

import (
	"errors"

	"github.com/wwvbtime/wwvb/wwvb"
)

func decodeGPIO(*wwvb.Decoder, string, int) error {
	return errors.New("GPIO receiver input is only supported on Linux")
}
