package scoring

import "math"

// LogPool holds the frozen log-space extrema of one snapshot's eligible
// values. It must be rebuilt for every snapshot; the pool is never a running
// global.
type LogPool struct {
	MinLog float64
	MaxLog float64
	Count  int
}

// NewLogPool computes log-space min/max over the eligible values. Values
// <= 0 are skipped; upstream validity filters are expected to have excluded
// them already.
func NewLogPool(values []float64) LogPool {
	pool := LogPool{}
	for _, v := range values {
		if v <= 0 {
			continue
		}
		lv := math.Log(v)
		if pool.Count == 0 {
			pool.MinLog, pool.MaxLog = lv, lv
		} else {
			if lv < pool.MinLog {
				pool.MinLog = lv
			}
			if lv > pool.MaxLog {
				pool.MaxLog = lv
			}
		}
		pool.Count++
	}
	return pool
}

// NormLog maps x onto [0,1] against the pool. A degenerate pool (all values
// equal) yields exactly 0.5 for every candidate: no discriminating
// information, and no divide by zero.
func (p LogPool) NormLog(x float64) (float64, bool) {
	if x <= 0 || p.Count == 0 {
		return 0, false
	}
	denom := p.MaxLog - p.MinLog
	if denom == 0 {
		return 0.5, true
	}
	v := (math.Log(x) - p.MinLog) / denom
	return clamp01(v), true
}

// NormClip clips x into [lower, upper] and rescales to [0,1]. Bounds are
// fixed per indicator, so the result has no snapshot dependency.
func NormClip(x, lower, upper float64) float64 {
	if upper == lower {
		return 0
	}
	clipped := math.Max(lower, math.Min(upper, x))
	return (clipped - lower) / (upper - lower)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
