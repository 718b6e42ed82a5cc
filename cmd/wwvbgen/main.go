// wwvbgen generates WWVB timecode symbol sequences.
//
// Usage: wwvbgen [flags] year days hour minute
//
// DUT1 and leap second context comes from a compact DUT1 table file
// when one is given, otherwise from the -dut1 and leap second flags.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/logutils"
	"github.com/wwvbtime/wwvb/wwvb"
	"gopkg.in/ini.v1"
)

var (
	isDebugArg *bool   = flag.Bool("debug", false, "Emit debug log messages")
	minutesArg *int    = flag.Int("minutes", 10, "Number of minutes to generate")
	channelArg *string = flag.String("channel", "amplitude", "Channel to generate: amplitude, phase or both")
	dut1Arg    *int    = flag.Int("dut1", 0, "Forced DUT1 value in deciseconds")
	leapArg    *bool   = flag.Bool("leap-second", false, "Force a positive leap second at the end of the UTC month")
	negLeapArg *bool   = flag.Bool("negative-leap-second", false, "Force a negative leap second at the end of the UTC month")
	dstArg     *int    = flag.Int("dst", 0, "2-bit DST status code")
	dstNextArg *int    = flag.Int("dst-next", 0b100011, "6-bit DST-next code for the phase channel")
	tableArg   *string = flag.String("dut1-table", "", "Compact DUT1 table file for DUT1/leap second data")
	configArg  *string = flag.String("config", "", "Config file with flag defaults")
	helpArg    *bool   = flag.Bool("h", false, "Print arguments")
)

func main() {
	flag.Parse()
	if *helpArg {
		flag.Usage()
		return
	}
	setupLogging()
	applyConfig()

	if flag.NArg() != 4 {
		flag.Usage()
		log.Fatal("[ERROR] expected arguments: year days hour minute")
	}
	args := make([]int, 4)
	for i, a := range flag.Args() {
		v, err := strconv.Atoi(a)
		if err != nil {
			log.Fatalf("[ERROR] bad argument %q: %v", a, err)
		}
		args[i] = v
	}

	var series *wwvb.Series
	if *tableArg != "" {
		var err error
		series, err = loadSeries(*tableArg)
		if err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
	}

	m, err := makeMinute(args[0], args[1], args[2], args[3], series)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	for i := 0; i < *minutesArg; i++ {
		printMinute(m)
		m, err = nextMinute(m, series)
		if err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
	}
}

// makeMinute builds the first broadcast minute of a run, resolving DUT1
// and the leap flag from the series if present, else from the forced
// flags.
func makeMinute(year, days, hour, min int, series *wwvb.Series) (wwvb.Minute, error) {
	if series != nil {
		return seriesMinute(year, days, hour, min, series)
	}
	return forcedMinute(year, days, hour, min, *dut1Arg)
}

func seriesMinute(year, days, hour, min int, series *wwvb.Series) (wwvb.Minute, error) {
	date := yearDayDate(year, days)
	ut1, err := series.Rounded(date)
	if err != nil {
		return wwvb.Minute{}, err
	}
	leap := wwvb.LeapNone
	if hour == 23 && min == 59 {
		leap, err = series.LeapAt(date)
		if err != nil {
			return wwvb.Minute{}, err
		}
	}
	return wwvb.NewMinute(year, days, hour, min, wwvb.DSTStatus(*dstArg), ut1, leap)
}

// forcedMinute builds a minute from the forced flags, carrying the given
// DUT1 value: the -dut1 flag for the first minute of a run, the stepped
// minute's propagated value afterwards.
func forcedMinute(year, days, hour, min, ut1 int) (wwvb.Minute, error) {
	leap := wwvb.LeapNone
	if hour == 23 && min == 59 {
		switch {
		case *leapArg:
			leap = wwvb.LeapPositive
			if ut1 <= 0 && !flagSet("dut1") {
				ut1 = 5
			}
		case *negLeapArg:
			leap = wwvb.LeapNegative
			if ut1 >= 0 && !flagSet("dut1") {
				ut1 = -5
			}
		}
	}
	m, err := wwvb.NewMinute(year, days, hour, min, wwvb.DSTStatus(*dstArg), ut1, leap)
	if err != nil && leap != wwvb.LeapNone {
		// The requested minute is not a month boundary, or the DUT1
		// shift of an earlier forced leap rules out another one; the
		// flag applies only where a leap second is legal.
		m, err = wwvb.NewMinute(year, days, hour, min, wwvb.DSTStatus(*dstArg), ut1, wwvb.LeapNone)
	}
	return m, err
}

// nextMinute steps to the following minute, reapplying per-day context:
// series values when a table is loaded, otherwise the DUT1 value the
// step propagated (a leap second shifts it by a whole second).
func nextMinute(m wwvb.Minute, series *wwvb.Series) (wwvb.Minute, error) {
	n, err := m.Next()
	if err != nil {
		return wwvb.Minute{}, err
	}
	if series != nil {
		return seriesMinute(n.Year(), n.Days(), n.Hour(), n.Min(), series)
	}
	return forcedMinute(n.Year(), n.Days(), n.Hour(), n.Min(), n.UT1())
}

func printMinute(m wwvb.Minute) {
	pfx := fmt.Sprintf("'%02d+%03d %02d:%02d ", m.Year(), m.Days(), m.Hour(), m.Min())
	switch *channelArg {
	case "amplitude":
		fmt.Printf("%s %s\n", pfx, wwvb.SymbolsToString(wwvb.EncodeAmplitude(m)))
	case "phase":
		fmt.Printf("%s %s\n", pfx, wwvb.SymbolsToString(wwvb.EncodePhase(m, byte(*dstNextArg))))
	case "both":
		fmt.Printf("%s %s\n", pfx, wwvb.SymbolsToString(wwvb.EncodeAmplitude(m)))
		fmt.Printf("%*s %s\n", len(pfx), "", wwvb.SymbolsToString(wwvb.EncodePhase(m, byte(*dstNextArg))))
	default:
		log.Fatalf("[ERROR] unknown channel %q", *channelArg)
	}
}

func loadSeries(path string) (*wwvb.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open DUT1 table: %w", err)
	}
	defer f.Close()
	t, err := wwvb.ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("parse DUT1 table %s: %w", path, err)
	}
	return t.Series()
}

func yearDayDate(year, days int) time.Time {
	if year < 100 {
		if year < wwvb.Epoch%100 {
			year += 2000
		} else {
			year += 1900
		}
	}
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days-1)
}

// applyConfig fills in defaults for flags the user did not set from an
// ini config file, when one is present.
func applyConfig() {
	path := *configArg
	if path == "" {
		path = "wwvbgen.ini"
		if _, err := os.Stat(path); err != nil {
			return
		}
	}
	cfg, err := ini.Load(path)
	if err != nil {
		log.Fatalf("[ERROR] load config %s: %v", path, err)
	}
	sec := cfg.Section("wwvbgen")
	if !flagSet("minutes") && sec.HasKey("minutes") {
		*minutesArg = sec.Key("minutes").MustInt(*minutesArg)
	}
	if !flagSet("channel") && sec.HasKey("channel") {
		*channelArg = sec.Key("channel").String()
	}
	if !flagSet("dut1-table") && sec.HasKey("dut1-table") {
		*tableArg = sec.Key("dut1-table").String()
	}
	log.Printf("[DEBUG] Applied config from %s", path)
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
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
