package vest

import (
	"encoding/binary"

	"github.com/rokoperki/token-vesting/addr"
)

// ParticipantLen is the exact encoded size of a Participant record:
// [tag:1][participant:32][schedule_ref:32][allocated:8][claimed:8][nonce:1].
const ParticipantLen = 1 + addr.Size + addr.Size + 8*2 + 1

// Participant is one beneficiary's allocation and claim progress under a
// Schedule. Created exactly once by AddParticipant with Claimed = 0; Claimed
// is the only field ever mutated afterward, and only by Claim.
type Participant struct {
	Participant addr.Address
	Schedule    addr.Address
	Allocated   uint64
	Claimed     uint64
	Nonce       uint8
}

// Encode serializes the record into its canonical byte layout.
func (p *Participant) Encode() []byte {
	b := make([]byte, ParticipantLen)
	b[0] = TagParticipant
	copy(b[1:33], p.Participant[:])
	copy(b[33:65], p.Schedule[:])
	binary.LittleEndian.PutUint64(b[65:73], p.Allocated)
	binary.LittleEndian.PutUint64(b[73:81], p.Claimed)
	b[81] = p.Nonce
	return b
}

// DecodeParticipant parses a Participant record, rejecting wrong lengths and
// wrong type tags before interpreting any field.
func DecodeParticipant(b []byte) (*Participant, error) {
	if len(b) != ParticipantLen {
		return nil, NewError(KindInvalidAccountData, "participant record must be exactly 82 bytes")
	}
	if b[0] != TagParticipant {
		return nil, NewError(KindInvalidDiscriminator, "not a participant record")
	}
	var p Participant
	copy(p.Participant[:], b[1:33])
	copy(p.Schedule[:], b[33:65])
	p.Allocated = binary.LittleEndian.Uint64(b[65:73])
	p.Claimed = binary.LittleEndian.Uint64(b[73:81])
	p.Nonce = b[81]
	return &p, nil
}
