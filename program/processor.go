package program

import (
	"github.com/rokoperki/token-vesting/host"
	"github.com/rokoperki/token-vesting/receipt"
	"github.com/rokoperki/token-vesting/token"
	"github.com/rokoperki/token-vesting/vest"
)

// Processor executes instructions against the host collaborators. It holds
// no mutable state of its own; all state lives in the account store, and the
// clock is the sole time authority.
type Processor struct {
	params Params
	store  host.Store
	clock  host.Clock
	token  token.Service
}

// New wires a Processor to its collaborators.
func New(params Params, store host.Store, clock host.Clock, tok token.Service) *Processor {
	return &Processor{params: params, store: store, clock: clock, token: tok}
}

// Process executes one instruction synchronously to completion or failure.
// On success it returns the operation's receipt; on failure the ledger is
// untouched and the error carries exactly one vest.Kind.
//
// signers is the signature service's verdict for this operation: which of
// the referenced accounts are verified signers.
func (p *Processor) Process(ins Instruction, signers host.Signers) (*receipt.Receipt, error) {
	op, err := ins.Opcode()
	if err != nil {
		return nil, err
	}
	switch op {
	case OpInitialize:
		return p.initialize(ins, signers)
	case OpAddParticipant:
		return p.addParticipant(ins, signers)
	case OpClaim:
		return p.claim(ins, signers)
	default:
		return nil, vest.NewError(vest.KindInvalidInstruction, "unknown opcode")
	}
}

func requireAccounts(ins Instruction, n int) error {
	if len(ins.Accounts) != n {
		return vest.NewError(vest.KindInvalidInstruction, "wrong number of accounts for opcode")
	}
	return nil
}
