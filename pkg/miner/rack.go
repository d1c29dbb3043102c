package miner

// Find returns the position of the miner with the given ip.
func (r *Rack) Find(ip string) (row, col int, ok bool) {
	for i, shelf := range r.Miners {
		for j, m := range shelf {
			if m.IP == ip {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// Update replaces the miner sharing m's ip in place and reports whether one
// was found. The slot keeps its position.
func (r *Rack) Update(m Miner) bool {
	i, j, ok := r.Find(m.IP)
	if !ok {
		return false
	}
	r.Miners[i][j] = m
	return true
}

// Place appends m to the given shelf, adding empty shelves as needed.
func (r *Rack) Place(row int, m Miner) {
	for len(r.Miners) <= row {
		r.Miners = append(r.Miners, nil)
	}
	r.Miners[row] = append(r.Miners[row], m)
}

// Each visits every miner in shelf order.
func (r *Rack) Each(fn func(row, col int, m Miner)) {
	for i, shelf := range r.Miners {
		for j, m := range shelf {
			fn(i, j, m)
		}
	}
}

// Count returns the number of miners in the rack.
func (r *Rack) Count() int {
	n := 0
	for _, shelf := range r.Miners {
		n += len(shelf)
	}
	return n
}

// Overflow returns the indexes of shelves holding more miners than Width.
// Width is advisory, so this is informational for layout code.
func (r *Rack) Overflow() []int {
	var rows []int
	for i, shelf := range r.Miners {
		if len(shelf) > r.Width {
			rows = append(rows, i)
		}
	}
	return rows
}

// All returns every miner in the rack, flattened in shelf order.
func (r *Rack) All() []Miner {
	out := make([]Miner, 0, r.Count())
	for _, shelf := range r.Miners {
		out = append(out, shelf...)
	}
	return out
}

// Update applies m to whichever rack in the can holds its ip.
func (c *Can) Update(m Miner) bool {
	for i := range c.Racks {
		if c.Racks[i].Update(m) {
			return true
		}
	}
	return false
}
