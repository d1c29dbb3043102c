package display

import (
	"fmt"
	"strconv"
	"time"

	"github.com/powerhive/rackview/pkg/miner"
)

// Placeholder is shown for values that were not reported.
const Placeholder = "-"

// FormatHashrate scales a hashrate given in unit and rounds it to two places,
// e.g. 1250 GH/s becomes "1.25 TH/s". unit is the base unit such as "GH/s".
func FormatHashrate(hr float64, unit string) string {
	prefixes := []string{"", "K", "M", "G", "T", "P", "E"}
	if len(unit) > 1 {
		for i, p := range prefixes[1:] {
			if unit[:1] == p {
				prefixes = prefixes[i+1:]
				unit = unit[1:]
				break
			}
		}
	}
	i := 0
	for hr >= 1000 && i < len(prefixes)-1 {
		hr /= 1000
		i++
	}
	return fmt.Sprintf("%s %s%s", trim(Round(hr, 2)), prefixes[i], unit)
}

// FormatUptime renders seconds as days/hours/minutes.
func FormatUptime(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// FormatTemp renders a temperature in Celsius with one decimal at most.
func FormatTemp(c float64) string {
	return trim(Round(c, 1)) + "°C"
}

// FormatOpt formats a reported value, or returns Placeholder.
func FormatOpt[T any](o miner.Opt[T], format func(T) string) string {
	v, ok := o.Get()
	if !ok {
		return Placeholder
	}
	return format(v)
}

func trim(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
