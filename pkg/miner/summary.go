package miner

// Summary aggregates telemetry over a set of miners. Sums only include values
// that were reported; a miner without hashrate adds nothing to Hashrate.
type Summary struct {
	Miners     int          `json:"miners"`
	Reporting  int          `json:"reporting"`
	Sleeping   int          `json:"sleeping"`
	Locating   int          `json:"locating"`
	WithErrors int          `json:"with_errors"`
	Hashrate   float64      `json:"hashrate"`
	Power      float64      `json:"power"`
	MaxTemp    Opt[float64] `json:"max_temp,omitzero"`
	Efficiency Opt[float64] `json:"efficiency,omitzero"`
}

// Summarize computes a Summary for the given miners.
func Summarize(miners []Miner) Summary {
	var s Summary
	for _, m := range miners {
		s.Miners++
		if hr, ok := m.Hashrate.Get(); ok {
			s.Reporting++
			s.Hashrate += hr
		}
		if p, ok := m.Power.Get(); ok {
			s.Power += p
		}
		if t, ok := m.Temp.Get(); ok {
			if cur, set := s.MaxTemp.Get(); !set || t > cur {
				s.MaxTemp = Some(t)
			}
		}
		if m.Sleep.OrElse(false) {
			s.Sleeping++
		}
		if m.Locate.OrElse(false) {
			s.Locating++
		}
		if len(m.Errors.OrElse(nil)) > 0 {
			s.WithErrors++
		}
	}
	if s.Hashrate > 0 && s.Power > 0 {
		s.Efficiency = Some(s.Power / s.Hashrate)
	}
	return s
}

// Summary aggregates every miner in the rack.
func (r *Rack) Summary() Summary {
	return Summarize(r.All())
}

// Summary aggregates every miner in every rack of the can.
func (c *Can) Summary() Summary {
	var all []Miner
	for i := range c.Racks {
		all = append(all, c.Racks[i].All()...)
	}
	return Summarize(all)
}
