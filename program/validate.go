package program

import (
	"errors"

	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/host"
	"github.com/rokoperki/token-vesting/token"
	"github.com/rokoperki/token-vesting/vest"
)

// The checks below run once at the operation boundary, before any account
// byte is interpreted as a typed record. Everything past them works with
// already-validated values.

func (p *Processor) requireSigner(a addr.Address, signers host.Signers) error {
	if signers == nil || !signers.IsSigner(a) {
		return vest.NewError(vest.KindMissingSignature, "account "+a.String()+" must sign this operation")
	}
	return nil
}

func (p *Processor) requireService(got, want addr.Address) error {
	if !got.Equal(want) {
		return vest.NewError(vest.KindInvalidOwner, "expected collaborator "+want.String()+", got "+got.String())
	}
	return nil
}

// checkMint validates an asset definition account: owned by the token
// service, exact mint length.
func (p *Processor) checkMint(a addr.Address) error {
	acct, err := p.store.Get(a)
	if err != nil {
		if host.IsNotFound(err) {
			return vest.NewError(vest.KindUninitialized, "asset mint does not exist")
		}
		return vest.WrapError(vest.KindInternal, "account store failure", err)
	}
	if !acct.Owner.Equal(p.params.TokenServiceID) {
		return vest.NewError(vest.KindInvalidOwner, "asset mint not owned by token service")
	}
	if len(acct.Data) != token.MintLen {
		return vest.NewError(vest.KindInvalidAccountData, "asset mint has wrong size")
	}
	return nil
}

// scheduleAccount loads and decodes a schedule record after the full
// owner/length/tag gauntlet.
func (p *Processor) scheduleAccount(a addr.Address) (*vest.Schedule, error) {
	data, err := p.recordData(a, vest.ScheduleLen)
	if err != nil {
		return nil, err
	}
	return vest.DecodeSchedule(data)
}

// participantAccount loads and decodes a participant record after the full
// owner/length/tag gauntlet.
func (p *Processor) participantAccount(a addr.Address) (*vest.Participant, error) {
	data, err := p.recordData(a, vest.ParticipantLen)
	if err != nil {
		return nil, err
	}
	return vest.DecodeParticipant(data)
}

func (p *Processor) recordData(a addr.Address, wantLen int) ([]byte, error) {
	acct, err := p.store.Get(a)
	if err != nil {
		if host.IsNotFound(err) {
			return nil, vest.NewError(vest.KindUninitialized, "record account does not exist")
		}
		return nil, vest.WrapError(vest.KindInternal, "account store failure", err)
	}
	if !acct.Owner.Equal(p.params.ProgramID) {
		return nil, vest.NewError(vest.KindInvalidOwner, "record account not owned by this program")
	}
	if len(acct.Data) != wantLen {
		return nil, vest.NewError(vest.KindInvalidAccountData, "record account has wrong size")
	}
	return acct.Data, nil
}

// checkHolding validates that account a is the initialized canonical holding
// for (owner, asset) and returns its decoded state.
func (p *Processor) checkHolding(a, owner, asset addr.Address) (token.Holding, error) {
	acct, err := p.store.Get(a)
	if err != nil {
		if host.IsNotFound(err) {
			return token.Holding{}, vest.NewError(vest.KindUninitialized, "holding account does not exist")
		}
		return token.Holding{}, vest.WrapError(vest.KindInternal, "account store failure", err)
	}
	if !acct.Owner.Equal(p.params.TokenServiceID) {
		return token.Holding{}, vest.NewError(vest.KindInvalidOwner, "holding not owned by token service")
	}
	if len(acct.Data) != token.HoldingLen {
		return token.Holding{}, vest.NewError(vest.KindInvalidAccountData, "holding has wrong size")
	}
	h, err := token.DecodeHolding(acct.Data)
	if err != nil {
		return token.Holding{}, vest.WrapError(vest.KindInvalidAccountData, "holding bytes are malformed", err)
	}
	canonical, err := p.token.CanonicalHoldingAddress(owner, asset)
	if err != nil {
		return token.Holding{}, vest.WrapError(vest.KindInternal, "canonical holding derivation failed", err)
	}
	if !a.Equal(canonical) {
		return token.Holding{}, vest.NewError(vest.KindInvalidAccountData, "not the canonical holding for its owner and asset")
	}
	if !h.Owner.Equal(owner) || !h.Asset.Equal(asset) {
		return token.Holding{}, vest.NewError(vest.KindInvalidAccountData, "holding owner or asset mismatch")
	}
	if !acct.Initialized() {
		return token.Holding{}, vest.NewError(vest.KindUninitialized, "holding account not initialized")
	}
	return h, nil
}

// derivationError maps addr verification failures onto the operation's error
// surface.
func derivationError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, addr.ErrAddressMismatch):
		return vest.WrapError(vest.KindAddressMismatch, "account is not the canonical derived address", err)
	case errors.Is(err, addr.ErrNonceMismatch):
		return vest.WrapError(vest.KindNonceMismatch, "derivation nonce is not canonical", err)
	default:
		return vest.WrapError(vest.KindInvalidAccountData, "address derivation failed", err)
	}
}

// transferError maps custody service failures onto the operation's error
// surface.
func transferError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, token.ErrInsufficientFunds):
		return vest.WrapError(vest.KindInsufficientFunds, "transfer exceeds holding balance", err)
	case errors.Is(err, token.ErrMissingSignature):
		return vest.WrapError(vest.KindMissingSignature, "transfer authority did not sign", err)
	case errors.Is(err, token.ErrUnauthorized):
		return vest.WrapError(vest.KindUnauthorizedPrincipal, "transfer authority does not own holding", err)
	case errors.Is(err, token.ErrUninitialized):
		return vest.WrapError(vest.KindUninitialized, "transfer holding not initialized", err)
	default:
		return vest.WrapError(vest.KindInternal, "token service failure", err)
	}
}
