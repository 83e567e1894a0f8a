package domain

import (
	"fmt"
	"math"
	"sync/atomic"
)

// SpeedPolicy bounds the replay speed multiplier and defines its step.
type SpeedPolicy struct {
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// DefaultSpeedPolicy returns the stock policy: 0.25x to 2.0x in 0.25x steps,
// starting at 1.0x.
func DefaultSpeedPolicy() SpeedPolicy {
	return SpeedPolicy{
		Min:     0.25,
		Max:     2.0,
		Step:    0.25,
		Default: 1.0,
	}
}

// Validate checks that the policy is usable.
func (p SpeedPolicy) Validate() error {
	if p.Min <= 0 {
		return fmt.Errorf("%w: min speed must be positive", ErrInvalidConfig)
	}
	if p.Max < p.Min {
		return fmt.Errorf("%w: max speed %.2f below min speed %.2f", ErrInvalidConfig, p.Max, p.Min)
	}
	if p.Step <= 0 {
		return fmt.Errorf("%w: speed step must be positive", ErrInvalidConfig)
	}
	if p.Default < p.Min || p.Default > p.Max {
		return fmt.Errorf("%w: default speed %.2f outside [%.2f, %.2f]", ErrInvalidConfig, p.Default, p.Min, p.Max)
	}
	return nil
}

// Clamp limits a stored or configured speed to [Min, Max]. NaN and
// non-positive values map to Default.
func (p SpeedPolicy) Clamp(s float64) float64 {
	if math.IsNaN(s) || s <= 0 {
		return p.Default
	}
	return p.bound(s)
}

// Slower returns the speed one step below s, clamped at Min.
func (p SpeedPolicy) Slower(s float64) float64 {
	return p.bound(p.Clamp(s) - p.Step)
}

// Faster returns the speed one step above s, clamped at Max.
func (p SpeedPolicy) Faster(s float64) float64 {
	return p.bound(p.Clamp(s) + p.Step)
}

// bound limits a stepped speed to [Min, Max]. A step below zero stops at Min.
func (p SpeedPolicy) bound(s float64) float64 {
	return math.Max(p.Min, math.Min(p.Max, roundSpeed(s)))
}

// Apply returns the speed after cmd. Commands other than lento and rápido
// leave s unchanged.
func (p SpeedPolicy) Apply(cmd Command, s float64) float64 {
	switch cmd {
	case CommandLento:
		return p.Slower(s)
	case CommandRapido:
		return p.Faster(s)
	default:
		return s
	}
}

// roundSpeed drops float noise accumulated by repeated stepping.
func roundSpeed(s float64) float64 {
	return math.Round(s*1e6) / 1e6
}

// SpeedRef is a shared speed cell. One goroutine writes it; any number of
// goroutines may read it. Reads are a single atomic word load.
type SpeedRef struct {
	bits atomic.Uint64
}

// NewSpeedRef creates a SpeedRef holding s.
func NewSpeedRef(s float64) *SpeedRef {
	r := &SpeedRef{}
	r.Store(s)
	return r
}

// Load returns the current speed.
func (r *SpeedRef) Load() float64 {
	return math.Float64frombits(r.bits.Load())
}

// Store sets the current speed.
func (r *SpeedRef) Store(s float64) {
	r.bits.Store(math.Float64bits(s))
}
