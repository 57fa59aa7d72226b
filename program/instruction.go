package program

import (
	"encoding/binary"

	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/vest"
)

// Opcodes. The first instruction byte selects the operation.
const (
	OpInitialize     byte = 0
	OpAddParticipant byte = 1
	OpClaim          byte = 2
)

// Instruction is one opcode-tagged request against the ledger: the raw wire
// bytes plus the ordered account list the host resolved for it. Account
// order is fixed per opcode; see the per-operation account indices.
type Instruction struct {
	Data     []byte
	Accounts []addr.Address
}

// Opcode returns the instruction's opcode byte.
func (ins Instruction) Opcode() (byte, error) {
	if len(ins.Data) == 0 {
		return 0, vest.NewError(vest.KindInvalidInstruction, "empty instruction data")
	}
	return ins.Data[0], nil
}

func (ins Instruction) payload() []byte {
	return ins.Data[1:]
}

// initializeData is the Initialize payload:
// [seed:8][start:8][cliff:8][total:8][step:8][nonce:1].
type initializeData struct {
	Seed  uint64
	Start uint64
	Cliff uint64
	Total uint64
	Step  uint64
	Nonce uint8
}

const initializeDataLen = 8*5 + 1

func decodeInitializeData(b []byte) (initializeData, error) {
	if len(b) != initializeDataLen {
		return initializeData{}, vest.NewError(vest.KindInvalidInstruction, "initialize payload must be exactly 41 bytes")
	}
	return initializeData{
		Seed:  binary.LittleEndian.Uint64(b[0:8]),
		Start: binary.LittleEndian.Uint64(b[8:16]),
		Cliff: binary.LittleEndian.Uint64(b[16:24]),
		Total: binary.LittleEndian.Uint64(b[24:32]),
		Step:  binary.LittleEndian.Uint64(b[32:40]),
		Nonce: b[40],
	}, nil
}

// EncodeInitialize builds Initialize wire bytes.
func EncodeInitialize(seed, start, cliff, total, step uint64, nonce uint8) []byte {
	b := make([]byte, 1+initializeDataLen)
	b[0] = OpInitialize
	binary.LittleEndian.PutUint64(b[1:9], seed)
	binary.LittleEndian.PutUint64(b[9:17], start)
	binary.LittleEndian.PutUint64(b[17:25], cliff)
	binary.LittleEndian.PutUint64(b[25:33], total)
	binary.LittleEndian.PutUint64(b[33:41], step)
	b[41] = nonce
	return b
}

// addParticipantData is the AddParticipant payload:
// [allocated:8][nonce:1].
type addParticipantData struct {
	Allocated uint64
	Nonce     uint8
}

const addParticipantDataLen = 8 + 1

func decodeAddParticipantData(b []byte) (addParticipantData, error) {
	if len(b) != addParticipantDataLen {
		return addParticipantData{}, vest.NewError(vest.KindInvalidInstruction, "add-participant payload must be exactly 9 bytes")
	}
	return addParticipantData{
		Allocated: binary.LittleEndian.Uint64(b[0:8]),
		Nonce:     b[8],
	}, nil
}

// EncodeAddParticipant builds AddParticipant wire bytes.
func EncodeAddParticipant(allocated uint64, nonce uint8) []byte {
	b := make([]byte, 1+addParticipantDataLen)
	b[0] = OpAddParticipant
	binary.LittleEndian.PutUint64(b[1:9], allocated)
	b[9] = nonce
	return b
}

// EncodeClaim builds Claim wire bytes. Claim carries no payload.
func EncodeClaim() []byte {
	return []byte{OpClaim}
}
