package program

import (
	"github.com/rokoperki/token-vesting/host"
	"github.com/rokoperki/token-vesting/receipt"
	"github.com/rokoperki/token-vesting/token"
	"github.com/rokoperki/token-vesting/vest"
)

// Claim account indices.
const (
	clmParticipant = iota
	clmParticipantRecord
	clmDestination
	clmSchedule
	clmVault
	clmTokenService
	clmAccountCount
)

// claim pays out whatever has vested since the participant's last claim.
//
// The claimable amount is re-derived from the stored claimed_amount at
// execution time, so repeating a claim without advancing the clock fails
// with NoClaimableAmount rather than paying twice. The vault transfer is
// authorized by a derivation proof over the participant record's address,
// not by any signature.
func (p *Processor) claim(ins Instruction, signers host.Signers) (*receipt.Receipt, error) {
	if err := requireAccounts(ins, clmAccountCount); err != nil {
		return nil, err
	}
	if len(ins.payload()) != 0 {
		return nil, vest.NewError(vest.KindInvalidInstruction, "claim carries no payload")
	}
	participant := ins.Accounts[clmParticipant]
	recordAddr := ins.Accounts[clmParticipantRecord]
	scheduleAddr := ins.Accounts[clmSchedule]

	if err := p.requireSigner(participant, signers); err != nil {
		return nil, err
	}
	if err := p.requireService(ins.Accounts[clmTokenService], p.params.TokenServiceID); err != nil {
		return nil, err
	}
	sched, err := p.scheduleAccount(scheduleAddr)
	if err != nil {
		return nil, err
	}
	rec, err := p.participantAccount(recordAddr)
	if err != nil {
		return nil, err
	}

	seeds := ParticipantSeeds(participant, scheduleAddr)
	if err := derivationError(p.params.Deriver().Verify(seeds, recordAddr, rec.Nonce)); err != nil {
		return nil, err
	}
	if !rec.Participant.Equal(participant) {
		return nil, vest.NewError(vest.KindUnauthorizedPrincipal, "record does not belong to this participant")
	}
	if !rec.Schedule.Equal(scheduleAddr) {
		return nil, vest.NewError(vest.KindInvalidAccountData, "record does not reference this schedule")
	}

	vault, err := p.checkHolding(ins.Accounts[clmVault], recordAddr, sched.Asset)
	if err != nil {
		return nil, err
	}
	if _, err := p.checkHolding(ins.Accounts[clmDestination], participant, sched.Asset); err != nil {
		return nil, err
	}

	now := p.clock.Now()
	claimable := sched.Claimable(now, rec.Allocated, rec.Claimed)
	if claimable == 0 {
		return nil, vest.NewError(vest.KindNoClaimableAmount, "nothing has vested since the last claim")
	}
	if vault.Amount < claimable {
		return nil, vest.NewError(vest.KindInsufficientFunds, "vault can not cover the claim")
	}

	// A corrupted record can put claimed past allocated; this must fail
	// before the transfer.
	newClaimed := rec.Claimed + claimable
	if newClaimed < rec.Claimed || newClaimed > rec.Allocated {
		return nil, vest.NewError(vest.KindClaimExceedsAllocation, "claim would exceed allocation")
	}

	proof, err := p.params.Deriver().Prove(seeds, rec.Nonce)
	if err != nil {
		return nil, derivationError(err)
	}
	err = p.token.Transfer(ins.Accounts[clmVault], ins.Accounts[clmDestination], token.DerivedAuthority{Proof: proof}, claimable)
	if err != nil {
		return nil, transferError(err)
	}

	err = p.store.Update(recordAddr, func(acct *host.Account) error {
		cur, err := vest.DecodeParticipant(acct.Data)
		if err != nil {
			return err
		}
		cur.Claimed = newClaimed
		acct.Data = cur.Encode()
		return nil
	})
	if err != nil {
		return nil, vest.WrapError(vest.KindInternal, "claim persistence failed", err)
	}

	return &receipt.Receipt{
		Opcode:      OpClaim,
		Time:        now,
		Schedule:    scheduleAddr,
		Participant: participant,
		Amount:      claimable,
	}, nil
}
