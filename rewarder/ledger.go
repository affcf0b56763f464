package rewarder

import (
	"math"

	"github.com/mintvault/libmintvault-go/token"
)

// currencyLedger is the amortized per-token dividend ledger for one currency.
//
// The accumulator is the lifetime earnings credited to each single token
// since genesis, in whole currency units. A token's unclaimed amount is
// accumulator − collected[id]; claiming advances the marker to the current
// accumulator value. The accumulator only ever increases and a marker is
// only ever set to a value ≤ the accumulator, so the difference is never
// negative. Storage is O(1) per token regardless of deposit count.
type currencyLedger struct {
	accumulator        uint64
	collected          map[token.TokenID]uint64
	creatorAccumulator uint64
	creatorCollected   uint64
	dustCarry          uint64
	processedBalance   uint64
	deposited          uint64
	claimed            uint64
}

func newCurrencyLedger() *currencyLedger {
	return &currencyLedger{collected: make(map[token.TokenID]uint64)}
}

// owed returns the unclaimed amount accrued to a token.
func (ls *currencyLedger) owed(id token.TokenID) uint64 {
	return ls.accumulator - ls.collected[id]
}

// creatorOwed returns the unclaimed creator amount.
func (ls *currencyLedger) creatorOwed() uint64 {
	return ls.creatorAccumulator - ls.creatorCollected
}

// credit folds one deposit into the ledger. The creator's cut is
// amount/creatorDivisor (floor); the remainder goes to holders. The holder
// cut plus any carried dust is divided evenly across maxSupply tokens; the
// division remainder is carried into the next deposit of this currency,
// never forfeited.
func (ls *currencyLedger) credit(amount, maxSupply, creatorDivisor uint64) error {
	if amount > math.MaxUint64-ls.deposited {
		return ErrAmountOverflow
	}

	creatorsCut := amount / creatorDivisor
	holdersCut := amount - creatorsCut

	if holdersCut > math.MaxUint64-ls.dustCarry {
		return ErrAmountOverflow
	}
	total := holdersCut + ls.dustCarry
	perToken := total / maxSupply

	if perToken > math.MaxUint64-ls.accumulator {
		return ErrAmountOverflow
	}
	if creatorsCut > math.MaxUint64-ls.creatorAccumulator {
		return ErrAmountOverflow
	}

	ls.accumulator += perToken
	ls.dustCarry = total % maxSupply
	ls.creatorAccumulator += creatorsCut
	ls.deposited += amount
	return nil
}

// snapshot copies the ledger into its exported form.
func (ls *currencyLedger) snapshot() LedgerSnapshot {
	collected := make(map[token.TokenID]uint64, len(ls.collected))
	for id, v := range ls.collected {
		collected[id] = v
	}
	return LedgerSnapshot{
		Accumulator:        ls.accumulator,
		Collected:          collected,
		CreatorAccumulator: ls.creatorAccumulator,
		CreatorCollected:   ls.creatorCollected,
		DustCarry:          ls.dustCarry,
		ProcessedBalance:   ls.processedBalance,
		Deposited:          ls.deposited,
		Claimed:            ls.claimed,
	}
}

// restoreLedger rebuilds a ledger from its exported form.
func restoreLedger(s LedgerSnapshot) *currencyLedger {
	collected := make(map[token.TokenID]uint64, len(s.Collected))
	for id, v := range s.Collected {
		collected[id] = v
	}
	return &currencyLedger{
		accumulator:        s.Accumulator,
		collected:          collected,
		creatorAccumulator: s.CreatorAccumulator,
		creatorCollected:   s.CreatorCollected,
		dustCarry:          s.DustCarry,
		processedBalance:   s.ProcessedBalance,
		deposited:          s.Deposited,
		claimed:            s.Claimed,
	}
}

// LedgerSnapshot is the exported, serializable state of one currency ledger.
type LedgerSnapshot struct {
	Accumulator        uint64
	Collected          map[token.TokenID]uint64
	CreatorAccumulator uint64
	CreatorCollected   uint64
	DustCarry          uint64
	ProcessedBalance   uint64
	Deposited          uint64
	Claimed            uint64
}

// Snapshot is the full serializable engine state.
type Snapshot struct {
	Base       LedgerSnapshot
	Currencies map[token.Address]LedgerSnapshot
}

// Info is the read-only per-currency accounting summary.
type Info struct {
	Accumulator        uint64 // lifetime earnings per single token
	CreatorAccumulator uint64
	DustCarry          uint64
	Deposited          uint64
	Claimed            uint64
}
