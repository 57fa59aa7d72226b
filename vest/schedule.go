// Package vest defines the vesting ledger's data model: the Schedule and
// Participant records, their byte-exact wire codecs, and the step-vesting
// arithmetic.
//
// Records travel as fixed-layout little-endian byte strings inside opaque host
// accounts. Decoding is bounds- and tag-checked; no field is trusted before
// the whole record is validated.
package vest

import (
	"encoding/binary"

	"github.com/rokoperki/token-vesting/addr"
)

// Record type tags (wire byte 0).
const (
	TagParticipant uint8 = 1
	TagSchedule    uint8 = 2
)

// ScheduleLen is the exact encoded size of a Schedule record:
// [tag:1][asset:32][authority:32][seed:8][start:8][cliff:8][total:8][step:8][nonce:1].
const ScheduleLen = 1 + addr.Size + addr.Size + 8*5 + 1

// Schedule is the shared vesting policy governing every participant funded
// under it. Created exactly once by Initialize; immutable thereafter.
//
// All times are integer seconds from the host clock's epoch. Durations are
// relative to Start.
type Schedule struct {
	Asset     addr.Address
	Authority addr.Address
	Seed      uint64
	Start     uint64
	Cliff     uint64
	Total     uint64
	Step      uint64
	Nonce     uint8
}

// Encode serializes the record into its canonical byte layout.
func (s *Schedule) Encode() []byte {
	b := make([]byte, ScheduleLen)
	b[0] = TagSchedule
	copy(b[1:33], s.Asset[:])
	copy(b[33:65], s.Authority[:])
	binary.LittleEndian.PutUint64(b[65:73], s.Seed)
	binary.LittleEndian.PutUint64(b[73:81], s.Start)
	binary.LittleEndian.PutUint64(b[81:89], s.Cliff)
	binary.LittleEndian.PutUint64(b[89:97], s.Total)
	binary.LittleEndian.PutUint64(b[97:105], s.Step)
	b[105] = s.Nonce
	return b
}

// DecodeSchedule parses a Schedule record, rejecting wrong lengths and wrong
// type tags before interpreting any field.
func DecodeSchedule(b []byte) (*Schedule, error) {
	if len(b) != ScheduleLen {
		return nil, NewError(KindInvalidAccountData, "schedule record must be exactly 106 bytes")
	}
	if b[0] != TagSchedule {
		return nil, NewError(KindInvalidDiscriminator, "not a schedule record")
	}
	var s Schedule
	copy(s.Asset[:], b[1:33])
	copy(s.Authority[:], b[33:65])
	s.Seed = binary.LittleEndian.Uint64(b[65:73])
	s.Start = binary.LittleEndian.Uint64(b[73:81])
	s.Cliff = binary.LittleEndian.Uint64(b[81:89])
	s.Total = binary.LittleEndian.Uint64(b[89:97])
	s.Step = binary.LittleEndian.Uint64(b[97:105])
	s.Nonce = b[105]
	return &s, nil
}

// ValidateScheduleParams checks the Initialize inputs against the schedule
// invariants. Each violation surfaces as its own Kind.
func ValidateScheduleParams(seed, start, cliff, total, step, now uint64) error {
	if seed == 0 {
		return NewError(KindInvalidSeed, "schedule seed must be non-zero")
	}
	if start < now {
		return NewError(KindStartTimestampInPast, "start timestamp is in the past")
	}
	if cliff == 0 || step == 0 || cliff >= total || step >= total {
		return NewError(KindInvalidDurations, "cliff and step must be non-zero and shorter than total duration")
	}
	if (total-cliff)%step != 0 {
		return NewError(KindInvalidStepDuration, "step duration must divide the post-cliff duration evenly")
	}
	return nil
}
