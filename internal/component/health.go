package component

// Health tracks current and maximum hit points.
type Health struct {
	Current, Max int
}

// Dead reports whether the pool is exhausted.
func (h Health) Dead() bool { return h.Current <= 0 }

// Damage subtracts n, never going below zero.
func (h Health) Damage(n int) Health {
	h.Current -= n
	if h.Current < 0 {
		h.Current = 0
	}
	return h
}

// Heal adds n, capped at Max.
func (h Health) Heal(n int) Health {
	h.Current += n
	if h.Current > h.Max {
		h.Current = h.Max
	}
	return h
}
