package kernel

import "math"

// Divide returns a / b. A zero divisor yields +Inf for a positive dividend,
// -Inf for a negative one and NaN when the dividend is zero too.
func Divide(a, b float64) float64 {
	if b == 0 {
		return divideByZero(a)
	}
	return a / b
}

func divideByZero(a float64) float64 {
	switch {
	case a > 0:
		return math.Inf(1)
	case a < 0:
		return math.Inf(-1)
	default:
		return math.NaN()
	}
}

// FloorDivide returns floor(a / b), computed from the remainder so that
// a == b*FloorDivide(a, b) + Mod(a, b) holds exactly where representable.
// A zero divisor follows Divide.
func FloorDivide(a, b float64) float64 {
	if b == 0 {
		return divideByZero(a)
	}
	mod := math.Mod(a, b)
	div := (a - mod) / b
	if mod != 0 && (b < 0) != (mod < 0) {
		div -= 1.0
	}
	if div == 0 {
		return math.Copysign(0, a/b)
	}
	floor := math.Floor(div)
	if div-floor > 0.5 {
		floor += 1.0
	}
	return floor
}

// Mod returns the remainder of a / b with the sign of b. A zero divisor
// yields NaN.
func Mod(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	mod := math.Mod(a, b)
	if mod != 0 {
		if (b < 0) != (mod < 0) {
			mod += b
		}
	} else {
		mod = math.Copysign(0, b)
	}
	return mod
}

// Power returns a raised to b.
func Power(a, b float64) float64 {
	return math.Pow(a, b)
}

// Welford accumulates a running mean and sum of squared deviations in a
// single pass.
type Welford struct {
	count int
	mean  float64
	m2    float64
}

// Push adds x to the accumulator.
func (w *Welford) Push(x float64) {
	w.count++
	delta := x - w.mean
	w.mean += delta / float64(w.count)
	w.m2 += delta * (x - w.mean)
}

// Count returns the number of values pushed.
func (w *Welford) Count() int {
	return w.count
}

// Mean returns the running mean.
func (w *Welford) Mean() float64 {
	return w.mean
}

// Variance returns M2 / (count - ddof), or NaN when count <= ddof.
func (w *Welford) Variance(ddof int) float64 {
	if w.count <= ddof {
		return math.NaN()
	}
	return w.m2 / float64(w.count-ddof)
}

// Std returns the square root of Variance.
func (w *Welford) Std(ddof int) float64 {
	return math.Sqrt(w.Variance(ddof))
}
