// Package receipt gives every successful ledger operation a deterministic,
// content-addressed record. Two hosts that applied the same instruction at
// the same time agree on the receipt CID byte for byte.
package receipt

import (
	"encoding/binary"
	"errors"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/rokoperki/token-vesting/addr"
)

// EncodedLen is the exact canonical size of a receipt:
// [opcode:1][time:8][schedule:32][participant:32][amount:8].
const EncodedLen = 1 + 8 + addr.Size + addr.Size + 8

// Receipt describes one applied instruction. Participant is the zero address
// for Initialize; Amount is the quantity moved by the operation's single
// transfer, zero when no transfer occurred.
type Receipt struct {
	Opcode      byte
	Time        uint64
	Schedule    addr.Address
	Participant addr.Address
	Amount      uint64
}

// Encode returns the canonical receipt bytes.
func (r *Receipt) Encode() []byte {
	b := make([]byte, EncodedLen)
	b[0] = r.Opcode
	binary.LittleEndian.PutUint64(b[1:9], r.Time)
	copy(b[9:41], r.Schedule[:])
	copy(b[41:73], r.Participant[:])
	binary.LittleEndian.PutUint64(b[73:81], r.Amount)
	return b
}

// Decode parses canonical receipt bytes.
func Decode(b []byte) (*Receipt, error) {
	if len(b) != EncodedLen {
		return nil, errors.New("receipt: invalid length")
	}
	var r Receipt
	r.Opcode = b[0]
	r.Time = binary.LittleEndian.Uint64(b[1:9])
	copy(r.Schedule[:], b[9:41])
	copy(r.Participant[:], b[41:73])
	r.Amount = binary.LittleEndian.Uint64(b[73:81])
	return &r, nil
}

// CID returns a CIDv1 (raw + sha2-256) over the canonical receipt bytes.
func (r *Receipt) CID() (cid.Cid, error) {
	sum, err := multihash.Sum(r.Encode(), multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
