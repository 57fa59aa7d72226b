// Package program implements the vesting ledger's three entry points:
// Initialize, AddParticipant and Claim.
//
// Every operation validates its account identities, byte layouts and
// timestamps before acting on them, then computes, mutates, and triggers at
// most one asset transfer. A failed operation surfaces exactly one structured
// failure and leaves no observable effect.
package program

import (
	"github.com/rokoperki/token-vesting/addr"
)

// Derivation namespace prefixes. These are part of the wire-level identity of
// every record address and must never change for a deployed ledger.
var (
	scheduleSeedPrefix    = []byte("vest_schedule")
	participantSeedPrefix = []byte("vest_participant")
)

// Params is the process-wide identity configuration, injected at startup.
//
// ProgramID is the ledger's own identity: it owns every record account and
// namespaces every derived address. CreationServiceID and TokenServiceID are
// the identities of the external collaborators each instruction must
// reference; referencing anything else aborts before any byte is parsed.
type Params struct {
	ProgramID         addr.Address
	CreationServiceID addr.Address
	TokenServiceID    addr.Address

	// Alg selects the derivation digest; empty means sha256.
	Alg addr.Alg
}

// Deriver returns the record-address deriver for this ledger.
func (p Params) Deriver() addr.Deriver {
	return addr.Deriver{Namespace: p.ProgramID, Alg: p.Alg}
}

// ScheduleSeeds returns the derivation seed list for a schedule record.
func ScheduleSeeds(seed [8]byte, asset, authority addr.Address) [][]byte {
	return [][]byte{scheduleSeedPrefix, seed[:], asset[:], authority[:]}
}

// ParticipantSeeds returns the derivation seed list for a participant record.
func ParticipantSeeds(participant, schedule addr.Address) [][]byte {
	return [][]byte{participantSeedPrefix, participant[:], schedule[:]}
}
