package program

import (
	"testing"

	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/vest"
)

// claimSetup enrolls the fixture participant with a 900000 allocation on the
// reference day-granularity schedule: nine post-cliff tranches of 100000.
func claimSetup(t *testing.T) (f *fixture, schedule, record, vault, destination addr.Address) {
	t.Helper()
	f = newFixture(t)
	schedule = f.mustInitialize(7)
	record, vault = f.mustAddParticipant(schedule, 900_000)
	destination = f.initDestination()
	return f, schedule, record, vault, destination
}

func TestClaimLifecycle(t *testing.T) {
	f, schedule, record, vault, destination := claimSetup(t)
	ins := f.claimIns(record, destination, schedule, vault)

	t.Run("BeforeCliffEnd", func(t *testing.T) {
		f.clock.Set(startTime + dayCliff)
		_, err := f.proc.Process(ins, f.sign(f.participant))
		wantKind(t, err, vest.KindNoClaimableAmount)
	})

	t.Run("TwoStepsIn", func(t *testing.T) {
		f.clock.Set(startTime + 2*dayStep + 1)
		rcpt, err := f.proc.Process(ins, f.sign(f.participant))
		if err != nil {
			t.Fatalf("claim: %v", err)
		}
		if rcpt.Opcode != OpClaim || rcpt.Amount != 200_000 {
			t.Fatalf("receipt: %+v", rcpt)
		}
		if got := f.holdingAmount(destination); got != 200_000 {
			t.Fatalf("destination balance = %d, want 200000", got)
		}
		if got := f.holdingAmount(vault); got != 700_000 {
			t.Fatalf("vault balance = %d, want 700000", got)
		}
		if rec := f.participantRecord(record); rec.Claimed != 200_000 {
			t.Fatalf("claimed = %d, want 200000", rec.Claimed)
		}
	})

	t.Run("RepeatAtSameTime", func(t *testing.T) {
		_, err := f.proc.Process(ins, f.sign(f.participant))
		wantKind(t, err, vest.KindNoClaimableAmount)
	})

	t.Run("Remainder", func(t *testing.T) {
		f.clock.Set(startTime + dayTotal)
		rcpt, err := f.proc.Process(ins, f.sign(f.participant))
		if err != nil {
			t.Fatalf("claim remainder: %v", err)
		}
		if rcpt.Amount != 700_000 {
			t.Fatalf("remainder = %d, want 700000", rcpt.Amount)
		}
		if got := f.holdingAmount(destination); got != 900_000 {
			t.Fatalf("destination balance = %d, want full allocation", got)
		}
		if got := f.holdingAmount(vault); got != 0 {
			t.Fatalf("vault balance = %d, want 0", got)
		}
	})

	t.Run("AfterFullVest", func(t *testing.T) {
		f.clock.Advance(dayStep)
		_, err := f.proc.Process(ins, f.sign(f.participant))
		wantKind(t, err, vest.KindNoClaimableAmount)
	})
}

func TestClaimRejections(t *testing.T) {
	f, schedule, record, vault, destination := claimSetup(t)
	f.clock.Set(startTime + 2*dayStep + 1)
	good := f.claimIns(record, destination, schedule, vault)

	t.Run("Unsigned", func(t *testing.T) {
		_, err := f.proc.Process(good, f.sign(f.authority))
		wantKind(t, err, vest.KindMissingSignature)
	})
	t.Run("PayloadNotEmpty", func(t *testing.T) {
		ins := good
		ins.Data = append([]byte(nil), good.Data...)
		ins.Data = append(ins.Data, 0)
		_, err := f.proc.Process(ins, f.sign(f.participant))
		wantKind(t, err, vest.KindInvalidInstruction)
	})
	t.Run("WrongTokenService", func(t *testing.T) {
		ins := good
		ins.Accounts = append([]addr.Address(nil), good.Accounts...)
		ins.Accounts[clmTokenService] = addrOf(0x66)
		_, err := f.proc.Process(ins, f.sign(f.participant))
		wantKind(t, err, vest.KindInvalidOwner)
	})
	t.Run("ForeignClaimer", func(t *testing.T) {
		// A different key claiming against this record derives a different
		// record address, so the spoof dies at derivation.
		outsider := addrOf(0x55)
		ins := good
		ins.Accounts = append([]addr.Address(nil), good.Accounts...)
		ins.Accounts[clmParticipant] = outsider
		_, err := f.proc.Process(ins, f.sign(outsider))
		wantKind(t, err, vest.KindAddressMismatch)
	})
	t.Run("ForeignSchedule", func(t *testing.T) {
		other := f.mustInitialize(8)
		ins := good
		ins.Accounts = append([]addr.Address(nil), good.Accounts...)
		ins.Accounts[clmSchedule] = other
		_, err := f.proc.Process(ins, f.sign(f.participant))
		wantKind(t, err, vest.KindAddressMismatch)
	})
	t.Run("DestinationMissing", func(t *testing.T) {
		ins := good
		ins.Accounts = append([]addr.Address(nil), good.Accounts...)
		ins.Accounts[clmDestination] = addrOf(0x57)
		_, err := f.proc.Process(ins, f.sign(f.participant))
		wantKind(t, err, vest.KindUninitialized)
	})
	t.Run("NonCanonicalDestination", func(t *testing.T) {
		ins := good
		ins.Accounts = append([]addr.Address(nil), good.Accounts...)
		ins.Accounts[clmDestination] = vault
		_, err := f.proc.Process(ins, f.sign(f.participant))
		wantKind(t, err, vest.KindInvalidAccountData)
	})
}

func TestClaimTamperedRecord(t *testing.T) {
	t.Run("Nonce", func(t *testing.T) {
		f, schedule, record, vault, destination := claimSetup(t)
		f.clock.Set(startTime + 2*dayStep + 1)
		f.tamperRecord(record, func(rec *vest.Participant) { rec.Nonce-- })
		_, err := f.proc.Process(f.claimIns(record, destination, schedule, vault), f.sign(f.participant))
		wantKind(t, err, vest.KindNonceMismatch)
	})
	t.Run("Participant", func(t *testing.T) {
		f, schedule, record, vault, destination := claimSetup(t)
		f.clock.Set(startTime + 2*dayStep + 1)
		f.tamperRecord(record, func(rec *vest.Participant) { rec.Participant = addrOf(0x55) })
		_, err := f.proc.Process(f.claimIns(record, destination, schedule, vault), f.sign(f.participant))
		wantKind(t, err, vest.KindUnauthorizedPrincipal)
	})
	t.Run("Schedule", func(t *testing.T) {
		f, schedule, record, vault, destination := claimSetup(t)
		f.clock.Set(startTime + 2*dayStep + 1)
		f.tamperRecord(record, func(rec *vest.Participant) { rec.Schedule = addrOf(0x55) })
		_, err := f.proc.Process(f.claimIns(record, destination, schedule, vault), f.sign(f.participant))
		wantKind(t, err, vest.KindInvalidAccountData)
	})
	t.Run("InflatedAllocation", func(t *testing.T) {
		// An allocation rewritten past what the vault holds must fail on the
		// vault balance, with no partial payout.
		f, schedule, record, vault, destination := claimSetup(t)
		f.clock.Set(startTime + 2*dayStep + 1)
		f.tamperRecord(record, func(rec *vest.Participant) { rec.Allocated = 9_000_000 })
		_, err := f.proc.Process(f.claimIns(record, destination, schedule, vault), f.sign(f.participant))
		wantKind(t, err, vest.KindInsufficientFunds)
		if got := f.holdingAmount(vault); got != 900_000 {
			t.Fatalf("vault balance changed to %d", got)
		}
		if rec := f.participantRecord(record); rec.Claimed != 0 {
			t.Fatalf("claimed changed to %d", rec.Claimed)
		}
	})
}
