package display

import (
	"strconv"

	"github.com/powerhive/rackview/pkg/miner"
)

// PrettyProfile returns the label for a profile. Unknown profile types have
// no label and return "".
func PrettyProfile(p miner.Profile) string {
	switch p.Kind() {
	case miner.ProfileDefault:
		return "Default"
	case miner.ProfilePreset:
		return num(p.Power) + "W @ " + num(p.THS)
	case miner.ProfileManual:
		return "Manual " + num(p.Freq) + "MHz " + num(p.Volt) + "V"
	case miner.ProfileLowPower:
		return "Low Power"
	default:
		return ""
	}
}

// ProfileLabels labels a profile catalog, skipping profiles without a label.
func ProfileLabels(profiles []miner.Profile) []string {
	labels := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if l := PrettyProfile(p); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

// num formats the shortest decimal form; missing values print as "?".
func num(o miner.Opt[float64]) string {
	v, ok := o.Get()
	if !ok {
		return "?"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
