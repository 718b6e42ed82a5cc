//go:build linux

package main

import (
	"log"

	"github.com/wwvbtime/wwvb/wwvb"
)

func decodeGPIO(d *wwvb.Decoder, chip string, line int) error {
	r, err := wwvb.OpenPulseReceiver(chip, line)
	if err != nil {
		return err
	}
	defer r.Close()
	log.Printf("[INFO] Receiving on %s line %d", chip, line)
	for s := range r.Symbols() {
		update(d, s)
	}
	return nil
}
