package service

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource supplies uniform values in [0, 1). Every stochastic decision
// in quoting and negotiation goes through it.
type RandomSource interface {
	Float64() float64
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a goroutine-safe source. A zero seed uses the clock.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Float64()
}

// uniform draws from [lo, hi).
func uniform(r RandomSource, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// uniformDuration draws a latency in [lo, hi). No draw happens when the range
// is empty so zero-latency setups stay deterministic.
func uniformDuration(r RandomSource, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(r.Float64()*float64(hi-lo))
}

// floorBand draws an integer dollar amount in [base, base+width).
func floorBand(r RandomSource, base, width float64) float64 {
	return math.Floor(r.Float64()*width) + base
}
