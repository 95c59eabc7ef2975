package accel

// EffectiveInterval floors a reported interval at minimum. A NaN report
// yields minimum.
func EffectiveInterval(reported, minimum float64) float64 {
	if reported > minimum {
		return reported
	}
	return minimum
}

// ClampInterval applies EffectiveInterval and then caps the result at
// maximum when maximum is positive.
func ClampInterval(reported, minimum, maximum float64) float64 {
	t := EffectiveInterval(reported, minimum)
	if maximum > 0 && t > maximum {
		return maximum
	}
	return t
}
