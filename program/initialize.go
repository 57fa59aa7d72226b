package program

import (
	"encoding/binary"

	"github.com/rokoperki/token-vesting/host"
	"github.com/rokoperki/token-vesting/receipt"
	"github.com/rokoperki/token-vesting/vest"
)

// Initialize account indices.
const (
	iniAuthority = iota
	iniSchedule
	iniMint
	iniCreationService
	iniTokenService
	iniAccountCount
)

// initialize creates a schedule record at its derived address. No transfer
// occurs.
func (p *Processor) initialize(ins Instruction, signers host.Signers) (*receipt.Receipt, error) {
	if err := requireAccounts(ins, iniAccountCount); err != nil {
		return nil, err
	}
	authority := ins.Accounts[iniAuthority]
	scheduleAddr := ins.Accounts[iniSchedule]
	asset := ins.Accounts[iniMint]

	if err := p.requireSigner(authority, signers); err != nil {
		return nil, err
	}
	if err := p.requireService(ins.Accounts[iniCreationService], p.params.CreationServiceID); err != nil {
		return nil, err
	}
	if err := p.requireService(ins.Accounts[iniTokenService], p.params.TokenServiceID); err != nil {
		return nil, err
	}
	if err := p.checkMint(asset); err != nil {
		return nil, err
	}

	data, err := decodeInitializeData(ins.payload())
	if err != nil {
		return nil, err
	}
	now := p.clock.Now()
	if err := vest.ValidateScheduleParams(data.Seed, data.Start, data.Cliff, data.Total, data.Step, now); err != nil {
		return nil, err
	}

	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], data.Seed)
	seeds := ScheduleSeeds(seedBytes, asset, authority)
	if err := derivationError(p.params.Deriver().Verify(seeds, scheduleAddr, data.Nonce)); err != nil {
		return nil, err
	}

	if p.store.Exists(scheduleAddr) {
		return nil, vest.NewError(vest.KindAlreadyInitialized, "schedule already initialized")
	}

	sched := vest.Schedule{
		Asset:     asset,
		Authority: authority,
		Seed:      data.Seed,
		Start:     data.Start,
		Cliff:     data.Cliff,
		Total:     data.Total,
		Step:      data.Step,
		Nonce:     data.Nonce,
	}
	err = p.store.Create(host.Account{
		Address: scheduleAddr,
		Owner:   p.params.ProgramID,
		Balance: 1,
		Data:    sched.Encode(),
	})
	if err != nil {
		return nil, vest.WrapError(vest.KindInternal, "schedule allocation failed", err)
	}

	return &receipt.Receipt{Opcode: OpInitialize, Time: now, Schedule: scheduleAddr}, nil
}
