package world

// TimeScale tracks a temporary speed multiplier applied by projectors
// Embed it to make a building a Booster
type TimeScale struct {
	scale    float64
	duration float64
}

// Scale returns the current multiplier, 1 when unaffected
func (t *TimeScale) Scale() float64 {
	if t.scale == 0 {
		return 1
	}
	return t.scale
}

// CanOverdrive reports that the building accepts boosts and slowdowns
func (t *TimeScale) CanOverdrive() bool {
	return true
}

// ApplyBoostOrSlow boosts when intensity >= 1, slows down otherwise
// Stronger effects override weaker ones; equal effects extend the duration
func (t *TimeScale) ApplyBoostOrSlow(intensity, duration float64) {
	cur := t.Scale()
	if intensity >= 1 {
		if intensity >= cur-0.001 {
			t.duration = max(t.duration, duration)
		}
		t.scale = max(cur, intensity)
		return
	}
	if intensity <= cur+0.001 {
		t.duration = max(t.duration, duration)
	}
	t.scale = min(cur, intensity)
}

// ResetBoost drops any active effect
func (t *TimeScale) ResetBoost() {
	t.scale = 1
	t.duration = 0
}

// Advance counts down the effect and returns delta scaled by it
func (t *TimeScale) Advance(delta float64) float64 {
	scaled := delta * t.Scale()
	if t.duration > 0 {
		t.duration -= delta
		if t.duration <= 0 {
			t.ResetBoost()
		}
	}
	return scaled
}
