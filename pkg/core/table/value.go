package table

import "math"

// Float returns a pointer to v. Convenience for building rows and fixtures.
func Float(v float64) *float64 {
	return &v
}

// SafeDiv divides a by b with the pipeline's propagation rule: a nil
// numerator or a nil/zero denominator yields nil, never a panic or ±Inf.
func SafeDiv(a, b *float64) *float64 {
	if a == nil || b == nil || *b == 0 {
		return nil
	}
	v := *a / *b
	return &v
}

// Scale multiplies v by factor, propagating nil.
func Scale(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	s := *v * factor
	return &s
}

// Round2 rounds v to two decimal places, propagating nil.
func Round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}
