package vest

import (
	"math"

	"github.com/holiman/uint256"
)

// Phase is the schedule's position in time. It is always derived from
// timestamps, never stored, so record state can not drift from the clock.
type Phase uint8

const (
	PhaseNotStarted Phase = iota
	PhaseCliff
	PhaseStepping
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseCliff:
		return "Cliff"
	case PhaseStepping:
		return "Stepping"
	case PhaseCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// PhaseAt returns the schedule phase at the given time.
func (s *Schedule) PhaseAt(now uint64) Phase {
	switch {
	case now < s.Start:
		return PhaseNotStarted
	case now <= satAdd(s.Start, s.Cliff):
		return PhaseCliff
	case now >= satAdd(s.Start, s.Total):
		return PhaseCompleted
	default:
		return PhaseStepping
	}
}

// CliffCompleted reports whether vesting has begun, which closes the
// allocation list.
func (s *Schedule) CliffCompleted(now uint64) bool {
	return now >= satAdd(s.Start, s.Cliff)
}

// Claimable returns the amount a participant may withdraw at the given time.
//
// Nothing is claimable through the end of the cliff. The first tranche
// unlocks when the cliff ends, and one further tranche unlocks at each step
// boundary until the total duration elapses, at which point any remainder is
// claimable exactly.
//
// The function is total: it never panics, all additions and subtractions
// saturate, and the vested intermediate is computed at 256-bit width. For
// fixed allocated and claimed it is non-decreasing in now and never exceeds
// allocated.
func (s *Schedule) Claimable(now, allocated, claimed uint64) uint64 {
	if now <= satAdd(s.Start, s.Cliff) {
		return 0
	}
	if now >= satAdd(s.Start, s.Total) {
		return satSub(allocated, claimed)
	}

	// Guards against corrupt records; unreachable for schedules that passed
	// ValidateScheduleParams.
	if s.Step == 0 {
		return 0
	}
	totalSteps := satSub(s.Total, s.Cliff) / s.Step
	if totalSteps == 0 {
		return 0
	}

	stepsElapsed := (now-s.Start-s.Cliff-1)/s.Step + 1
	if stepsElapsed > totalSteps {
		stepsElapsed = totalSteps
	}

	vested := new(uint256.Int).SetUint64(allocated)
	vested.Mul(vested, new(uint256.Int).SetUint64(stepsElapsed))
	vested.Div(vested, new(uint256.Int).SetUint64(totalSteps))
	return satSub(vested.Uint64(), claimed)
}

func satAdd(a, b uint64) uint64 {
	if sum := a + b; sum >= a {
		return sum
	}
	return math.MaxUint64
}

func satSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
