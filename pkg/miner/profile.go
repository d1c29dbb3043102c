package miner

import "strings"

// ProfileKind is the normalized profile type.
type ProfileKind string

const (
	ProfileDefault  ProfileKind = "default"
	ProfilePreset   ProfileKind = "preset"
	ProfileManual   ProfileKind = "manual"
	ProfileLowPower ProfileKind = "lowpower"
	ProfileUnknown  ProfileKind = "unknown"
)

// Profile is a power/frequency operating mode. Type is always populated and
// selects which of the optional fields are meaningful:
//
//	preset:  Power, THS, Name
//	manual:  Freq, Volt and the Min/Max bounds
//	default, lowpower: none
//
// Types outside that set are kept as received.
type Profile struct {
	Type    string       `json:"type"`
	Power   Opt[float64] `json:"power,omitzero"`
	THS     Opt[float64] `json:"ths,omitzero"`
	Volt    Opt[float64] `json:"volt,omitzero"`
	Freq    Opt[float64] `json:"freq,omitzero"`
	MinFreq Opt[float64] `json:"min_freq,omitzero"`
	MaxFreq Opt[float64] `json:"max_freq,omitzero"`
	MinVolt Opt[float64] `json:"min_volt,omitzero"`
	MaxVolt Opt[float64] `json:"max_volt,omitzero"`
	Name    Opt[string]  `json:"name,omitzero"`
}

// Kind maps Type onto the known variants, ignoring case and surrounding
// whitespace.
func (p Profile) Kind() ProfileKind {
	switch k := ProfileKind(strings.ToLower(strings.TrimSpace(p.Type))); k {
	case ProfileDefault, ProfilePreset, ProfileManual, ProfileLowPower:
		return k
	default:
		return ProfileUnknown
	}
}

// Validate checks the profile invariants.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Type) == "" {
		return missing("profile", "type")
	}
	return nil
}

// PresetProfile builds a preset profile.
func PresetProfile(power, ths float64) Profile {
	return Profile{Type: string(ProfilePreset), Power: Some(power), THS: Some(ths)}
}

// ManualProfile builds a manual frequency/voltage profile.
func ManualProfile(freq, volt float64) Profile {
	return Profile{Type: string(ProfileManual), Freq: Some(freq), Volt: Some(volt)}
}
