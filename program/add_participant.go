package program

import (
	"github.com/rokoperki/token-vesting/host"
	"github.com/rokoperki/token-vesting/receipt"
	"github.com/rokoperki/token-vesting/token"
	"github.com/rokoperki/token-vesting/vest"
)

// AddParticipant account indices.
const (
	addAuthority = iota
	addAuthorityHolding
	addVault
	addParticipant
	addParticipantRecord
	addSchedule
	addMint
	addCreationService
	addTokenService
	addAccountCount
)

// addParticipant enrolls a beneficiary under a schedule and funds its vault
// with the full allocation in one transfer, signed by the schedule authority.
//
// Allocation lists are closed once vesting begins: the gate is the computed
// cliff predicate, never a stored status byte.
func (p *Processor) addParticipant(ins Instruction, signers host.Signers) (*receipt.Receipt, error) {
	if err := requireAccounts(ins, addAccountCount); err != nil {
		return nil, err
	}
	authority := ins.Accounts[addAuthority]
	participant := ins.Accounts[addParticipant]
	recordAddr := ins.Accounts[addParticipantRecord]
	scheduleAddr := ins.Accounts[addSchedule]
	asset := ins.Accounts[addMint]

	if err := p.requireSigner(authority, signers); err != nil {
		return nil, err
	}
	if err := p.requireService(ins.Accounts[addCreationService], p.params.CreationServiceID); err != nil {
		return nil, err
	}
	if err := p.requireService(ins.Accounts[addTokenService], p.params.TokenServiceID); err != nil {
		return nil, err
	}
	if err := p.checkMint(asset); err != nil {
		return nil, err
	}
	sched, err := p.scheduleAccount(scheduleAddr)
	if err != nil {
		return nil, err
	}

	data, err := decodeAddParticipantData(ins.payload())
	if err != nil {
		return nil, err
	}
	if data.Allocated == 0 {
		return nil, vest.NewError(vest.KindZeroAllocation, "allocated amount must be non-zero")
	}

	now := p.clock.Now()
	if sched.CliffCompleted(now) {
		return nil, vest.NewError(vest.KindAllocationFrozen, "allocation list is closed once vesting begins")
	}
	if !authority.Equal(sched.Authority) {
		return nil, vest.NewError(vest.KindUnauthorizedPrincipal, "only the schedule authority may add participants")
	}
	if !asset.Equal(sched.Asset) {
		return nil, vest.NewError(vest.KindInvalidAccountData, "asset does not match schedule")
	}

	seeds := ParticipantSeeds(participant, scheduleAddr)
	if err := derivationError(p.params.Deriver().Verify(seeds, recordAddr, data.Nonce)); err != nil {
		return nil, err
	}
	if p.store.Exists(recordAddr) {
		return nil, vest.NewError(vest.KindAlreadyInitialized, "participant already enrolled")
	}

	authorityHolding, err := p.checkHolding(ins.Accounts[addAuthorityHolding], authority, asset)
	if err != nil {
		return nil, err
	}
	if authorityHolding.Amount < data.Allocated {
		return nil, vest.NewError(vest.KindInsufficientFunds, "authority holding can not cover the allocation")
	}
	// The vault belongs to the participant record's derived address and must
	// already exist as its canonical holding.
	if _, err := p.checkHolding(ins.Accounts[addVault], recordAddr, asset); err != nil {
		return nil, err
	}

	rec := vest.Participant{
		Participant: participant,
		Schedule:    scheduleAddr,
		Allocated:   data.Allocated,
		Claimed:     0,
		Nonce:       data.Nonce,
	}
	err = p.store.Create(host.Account{
		Address: recordAddr,
		Owner:   p.params.ProgramID,
		Balance: 1,
		Data:    rec.Encode(),
	})
	if err != nil {
		return nil, vest.WrapError(vest.KindInternal, "participant allocation failed", err)
	}

	auth := token.NewKeyAuthority(authority, signers)
	err = p.token.Transfer(ins.Accounts[addAuthorityHolding], ins.Accounts[addVault], auth, data.Allocated)
	if err != nil {
		return nil, transferError(err)
	}

	return &receipt.Receipt{
		Opcode:      OpAddParticipant,
		Time:        now,
		Schedule:    scheduleAddr,
		Participant: participant,
		Amount:      data.Allocated,
	}, nil
}
