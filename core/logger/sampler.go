package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// ratioSampler admits the first N events out of every window of D. It sits on
// the debug logging hot path, so admission is lock-free: the ratio is packed
// into one word and the event counter is a bare atomic.
type ratioSampler struct {
	cfg  atomic.Uint64 // numerator<<32 | denominator; 0 means unlimited
	tick atomic.Uint64
}

func newRatioSampler(numerator, denominator int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(numerator, denominator)
	return s
}

// Set configures the sampling ratio using numerator/denominator.
// Non-positive values disable sampling entirely.
func (s *ratioSampler) Set(numerator, denominator int) {
	if numerator <= 0 || denominator <= 0 {
		s.cfg.Store(0)
		return
	}
	if numerator > denominator {
		numerator = denominator
	}
	s.cfg.Store(uint64(numerator)<<32 | uint64(uint32(denominator)))
}

// Allow reports whether the current event should pass sampling.
func (s *ratioSampler) Allow() bool {
	cfg := s.cfg.Load()
	if cfg == 0 {
		return true
	}
	numerator := uint64(cfg >> 32)
	denominator := uint64(uint32(cfg))
	n := s.tick.Add(1) - 1
	return n%denominator < numerator
}

// parseRatioSpec reads "1/50" or a bare "50" (meaning 1/50); malformed specs
// disable sampling.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0
	}
	if strings.Contains(spec, "/") {
		parts := strings.SplitN(spec, "/", 2)
		num, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		den, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 == nil && err2 == nil {
			return num, den
		}
	}
	if v, err := strconv.Atoi(spec); err == nil {
		if v <= 0 {
			return 0, 0
		}
		return 1, v
	}
	return 0, 0
}
