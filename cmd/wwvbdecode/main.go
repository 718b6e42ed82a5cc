// wwvbdecode consumes a stream of classified WWVB amplitude symbols
// (the digits 0, 1 and 2) and prints each successfully decoded minute.
// Symbols can come from stdin, a file, a serial-attached front end, or
// (on Linux) directly from a receiver module on a GPIO line.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hashicorp/logutils"
	"github.com/wwvbtime/wwvb/wwvb"
)

var (
	isDebugArg *bool   = flag.Bool("debug", false, "Emit debug log messages")
	inArg      *string = flag.String("in", "", "Symbol input file (default stdin)")
	serialArg  *string = flag.String("serial", "", "Serial port with a symbol front end (overrides -in)")
	baudArg    *int    = flag.Int("baud", 9600, "Serial port speed")
	gpioArg    *string = flag.String("gpio", "", "GPIO chip of a receiver module, e.g. gpiochip0 (Linux only)")
	gpioLine   *int    = flag.Int("gpio-line", 0, "GPIO line offset of the receiver output")
	helpArg    *bool   = flag.Bool("h", false, "Print arguments")
)

func main() {
	flag.Parse()
	if *helpArg {
		flag.Usage()
		return
	}
	setupLogging()

	decoder := wwvb.NewDecoder()
	var err error
	if *gpioArg != "" {
		err = decodeGPIO(decoder, *gpioArg, *gpioLine)
	} else {
		var in io.ReadCloser
		in, err = openInput()
		if err == nil {
			defer in.Close()
			err = decodeReader(decoder, in)
		}
	}
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func openInput() (io.ReadCloser, error) {
	if *serialArg != "" {
		return openSerial(*serialArg, *baudArg)
	}
	if *inArg == "" || *inArg == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(*inArg)
	if err != nil {
		return nil, fmt.Errorf("open symbol input: %w", err)
	}
	return f, nil
}

func decodeReader(d *wwvb.Decoder, in io.Reader) error {
	r := bufio.NewReader(in)
	for {
		c, err := r.ReadByte()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		switch c {
		case '0', '1', '2':
			update(d, wwvb.Symbol(c-'0'))
		case ' ', '\t', '\n', '\r':
		default:
			log.Printf("[DEBUG] Ignoring input byte %q", c)
		}
	}
}

func update(d *wwvb.Decoder, s wwvb.Symbol) {
	m, err := d.Update(s)
	var frameErr *wwvb.FramingError
	switch {
	case errors.As(err, &frameErr):
		log.Printf("[INFO] Lost synchronization: %v", err)
	case err != nil:
		log.Printf("[INFO] Rejected minute: %v", err)
	case m != nil:
		fmt.Println(m)
	}
}

func setupLogging() {
	minLogLevel := "INFO"
	if *isDebugArg {
		minLogLevel = "DEBUG"
	}
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "ERROR"},
		MinLevel: logutils.LogLevel(minLogLevel),
		Writer:   os.Stderr,
	}
	log.SetOutput(filter)
}
