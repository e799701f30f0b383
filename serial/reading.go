package serial

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Reading is a single distance measurement reported by the sensor.
type Reading struct {
	Distance float64 `json:"distance"`
	Units    string  `json:"units"`
}

// String renders the reading the way both front ends display it.
func (r Reading) String() string {
	return fmt.Sprintf("Distance: %s %s", strconv.FormatFloat(r.Distance, 'f', -1, 64), r.Units)
}

// The sensor prints "d: 123 mm" in serial mode. Some firmware prints
// "Distance: 123 mm" or a bare "123mm"; accept all three.
var readingRe = regexp.MustCompile(`(?i)^(?:d|distance)?\s*:?\s*(-?\d+(?:\.\d+)?)\s*([a-z]+)$`)

// ParseReading extracts a reading from one line of sensor output. Lines that
// carry no distance (state banners, blank lines) return ok == false.
func ParseReading(line string) (Reading, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Reading{}, false
	}
	m := readingRe.FindStringSubmatch(line)
	if m == nil {
		return Reading{}, false
	}
	d, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Reading{}, false
	}
	return Reading{Distance: d, Units: strings.ToLower(m[2])}, true
}
