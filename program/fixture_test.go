package program

import (
	"testing"

	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/host"
	"github.com/rokoperki/token-vesting/host/memhost"
	"github.com/rokoperki/token-vesting/token"
	"github.com/rokoperki/token-vesting/token/memtoken"
	"github.com/rokoperki/token-vesting/vest"
)

const (
	startTime = uint64(1_000_000)
	dayCliff  = uint64(86_400)
	dayTotal  = uint64(864_000)
	dayStep   = uint64(86_400)
)

func addrOf(b byte) addr.Address {
	var a addr.Address
	a[0] = b
	a[31] = 0x5A // keep fixture identities out of the reserved derived space
	return a
}

type fixture struct {
	t *testing.T

	params Params
	store  *memhost.Store
	clock  *memhost.Clock
	tok    *memtoken.Service
	proc   *Processor

	authority   addr.Address
	participant addr.Address
	asset       addr.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		t: t,
		params: Params{
			ProgramID:         addrOf(0x01),
			CreationServiceID: addrOf(0x02),
			TokenServiceID:    addrOf(0x03),
		},
		store:       memhost.NewStore(),
		clock:       memhost.NewClock(startTime),
		authority:   addrOf(0x10),
		participant: addrOf(0x11),
		asset:       addrOf(0x20),
	}
	f.tok = memtoken.New(f.store, f.params.TokenServiceID, f.params.Alg)
	f.proc = New(f.params, f.store, f.clock, f.tok)

	// The asset definition exists before any schedule is created against it.
	err := f.store.Create(host.Account{
		Address: f.asset,
		Owner:   f.params.TokenServiceID,
		Balance: 1,
		Data:    make([]byte, token.MintLen),
	})
	if err != nil {
		t.Fatalf("create mint: %v", err)
	}
	return f
}

func (f *fixture) sign(addrs ...addr.Address) host.Signers {
	return host.NewSignerSet(addrs...)
}

func (f *fixture) scheduleAddrNonce(seed uint64) (addr.Address, uint8) {
	f.t.Helper()
	var seedBytes [8]byte
	for i := 0; i < 8; i++ {
		seedBytes[i] = byte(seed >> (8 * i))
	}
	a, nonce, err := f.params.Deriver().Derive(ScheduleSeeds(seedBytes, f.asset, f.authority))
	if err != nil {
		f.t.Fatalf("derive schedule address: %v", err)
	}
	return a, nonce
}

func (f *fixture) initializeIns(seed, start, cliff, total, step uint64, schedule addr.Address, nonce uint8) Instruction {
	return Instruction{
		Data: EncodeInitialize(seed, start, cliff, total, step, nonce),
		Accounts: []addr.Address{
			f.authority, schedule, f.asset, f.params.CreationServiceID, f.params.TokenServiceID,
		},
	}
}

// mustInitialize creates the reference day-granularity schedule starting at
// the current clock reading.
func (f *fixture) mustInitialize(seed uint64) addr.Address {
	f.t.Helper()
	schedule, nonce := f.scheduleAddrNonce(seed)
	ins := f.initializeIns(seed, f.clock.Now(), dayCliff, dayTotal, dayStep, schedule, nonce)
	if _, err := f.proc.Process(ins, f.sign(f.authority)); err != nil {
		f.t.Fatalf("initialize: %v", err)
	}
	return schedule
}

func (f *fixture) recordAddrNonce(participant, schedule addr.Address) (addr.Address, uint8) {
	f.t.Helper()
	a, nonce, err := f.params.Deriver().Derive(ParticipantSeeds(participant, schedule))
	if err != nil {
		f.t.Fatalf("derive participant record address: %v", err)
	}
	return a, nonce
}

// fundAuthority gives the schedule authority an initialized holding with the
// given balance and returns its address.
func (f *fixture) fundAuthority(amount uint64) addr.Address {
	f.t.Helper()
	h, err := f.tok.InitHolding(f.authority, f.asset)
	if err != nil {
		f.t.Fatalf("init authority holding: %v", err)
	}
	if amount > 0 {
		if err := f.tok.MintTo(h, amount); err != nil {
			f.t.Fatalf("fund authority holding: %v", err)
		}
	}
	return h
}

func (f *fixture) initVault(record addr.Address) addr.Address {
	f.t.Helper()
	v, err := f.tok.InitHolding(record, f.asset)
	if err != nil {
		f.t.Fatalf("init vault: %v", err)
	}
	return v
}

func (f *fixture) addParticipantIns(allocated uint64, nonce uint8, authorityHolding, vault, record, schedule addr.Address) Instruction {
	return Instruction{
		Data: EncodeAddParticipant(allocated, nonce),
		Accounts: []addr.Address{
			f.authority, authorityHolding, vault, f.participant, record, schedule,
			f.asset, f.params.CreationServiceID, f.params.TokenServiceID,
		},
	}
}

// mustAddParticipant enrolls the fixture participant with the given
// allocation, funding the authority holding just enough.
func (f *fixture) mustAddParticipant(schedule addr.Address, allocated uint64) (record, vault addr.Address) {
	f.t.Helper()
	record, nonce := f.recordAddrNonce(f.participant, schedule)
	authorityHolding := f.fundAuthority(allocated)
	vault = f.initVault(record)
	ins := f.addParticipantIns(allocated, nonce, authorityHolding, vault, record, schedule)
	if _, err := f.proc.Process(ins, f.sign(f.authority)); err != nil {
		f.t.Fatalf("add participant: %v", err)
	}
	return record, vault
}

func (f *fixture) claimIns(record, destination, schedule, vault addr.Address) Instruction {
	return Instruction{
		Data: EncodeClaim(),
		Accounts: []addr.Address{
			f.participant, record, destination, schedule, vault, f.params.TokenServiceID,
		},
	}
}

func (f *fixture) initDestination() addr.Address {
	f.t.Helper()
	d, err := f.tok.InitHolding(f.participant, f.asset)
	if err != nil {
		f.t.Fatalf("init destination holding: %v", err)
	}
	return d
}

func (f *fixture) holdingAmount(a addr.Address) uint64 {
	f.t.Helper()
	acct, err := f.store.Get(a)
	if err != nil {
		f.t.Fatalf("get holding: %v", err)
	}
	h, err := token.DecodeHolding(acct.Data)
	if err != nil {
		f.t.Fatalf("decode holding: %v", err)
	}
	return h.Amount
}

func (f *fixture) participantRecord(a addr.Address) *vest.Participant {
	f.t.Helper()
	acct, err := f.store.Get(a)
	if err != nil {
		f.t.Fatalf("get participant record: %v", err)
	}
	rec, err := vest.DecodeParticipant(acct.Data)
	if err != nil {
		f.t.Fatalf("decode participant record: %v", err)
	}
	return rec
}

// tamperRecord rewrites a stored participant record in place, bypassing the
// processor. Used to simulate corruption and spoofing.
func (f *fixture) tamperRecord(a addr.Address, mutate func(*vest.Participant)) {
	f.t.Helper()
	err := f.store.Update(a, func(acct *host.Account) error {
		rec, err := vest.DecodeParticipant(acct.Data)
		if err != nil {
			return err
		}
		mutate(rec)
		acct.Data = rec.Encode()
		return nil
	})
	if err != nil {
		f.t.Fatalf("tamper record: %v", err)
	}
}

func wantKind(t *testing.T, err error, kind vest.Kind) {
	t.Helper()
	if !vest.IsKind(err, kind) {
		t.Fatalf("expected %s, got %v", kind, err)
	}
}
