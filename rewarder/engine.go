// Package rewarder implements the revenue-accounting engine: a streaming,
// amortized dividend ledger that converts a stream of deposits into durable
// per-token entitlements.
//
// Each deposit is split between holders and the creator, and the holder share
// is folded into a single monotonically increasing accumulator instead of
// being written to every token. A claim settles lazily against that
// accumulator in O(1) per token, so transfers never need to rebalance any
// accounting state: revenue is bound to the token ID, and whoever owns the
// token at claim time receives everything accrued to it since its last claim.
package rewarder

import (
	"fmt"
	"math"
	"sync"

	"github.com/mintvault/libmintvault-go/token"
)

// CreatorShareDivisor encodes the creator's cut as amount/16 (6.25%), the
// holders keeping the remaining 93.75% plus any floor-division remainder.
const CreatorShareDivisor = 16

// Engine owns the per-currency ledgers for one deployment instance. All
// mutating operations are serialized; the claim family additionally carries
// an explicit in-progress flag so a payment callback that re-enters a claim
// fails with ErrReentrantCall instead of double-paying or deadlocking.
type Engine struct {
	mu       sync.Mutex
	claiming bool

	maxSupply uint64
	self      token.Address
	holdings  Holdings
	pay       Payer
	wrapped   WrappedNative

	base       *currencyLedger
	ledgers    map[token.Address]*currencyLedger
	currencies map[token.Address]Currency
}

// NewEngine creates an engine for a collection of maxSupply tokens.
// self is the engine's own account, the address external currency deposits
// are pushed to. pay executes every outbound payout, native and secondary.
func NewEngine(maxSupply uint64, self token.Address, holdings Holdings, pay Payer) (*Engine, error) {
	if maxSupply == 0 {
		return nil, fmt.Errorf("%w: zero max supply", ErrNilParam)
	}
	if self.IsZero() {
		return nil, fmt.Errorf("%w: engine address", ErrZeroAddress)
	}
	if holdings == nil {
		return nil, fmt.Errorf("%w: holdings", ErrNilParam)
	}
	if pay == nil {
		return nil, fmt.Errorf("%w: payer", ErrNilParam)
	}
	return &Engine{
		maxSupply:  maxSupply,
		self:       self,
		holdings:   holdings,
		pay:        pay,
		base:       newCurrencyLedger(),
		ledgers:    make(map[token.Address]*currencyLedger),
		currencies: make(map[token.Address]Currency),
	}, nil
}

// SetWrappedNative designates the wrapped form of the native currency.
// It cannot also be registered as a claimable secondary currency.
func (e *Engine) SetWrappedNative(w WrappedNative) error {
	if w == nil {
		return fmt.Errorf("%w: wrapped native", ErrNilParam)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.currencies[w.Address()]; exists {
		return fmt.Errorf("%w: %s registered as secondary", ErrWrappedCurrency, w.Address())
	}
	e.wrapped = w
	return nil
}

// RegisterCurrency makes a secondary currency known to the engine. Its
// ledger is created lazily on the first observed deposit.
func (e *Engine) RegisterCurrency(c Currency) error {
	if c == nil {
		return fmt.Errorf("%w: currency", ErrNilParam)
	}
	addr := c.Address()
	if addr.IsZero() {
		return fmt.Errorf("%w: currency address", ErrZeroAddress)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.wrapped != nil && addr == e.wrapped.Address() {
		return fmt.Errorf("%w: %s", ErrWrappedCurrency, addr)
	}
	if _, exists := e.currencies[addr]; exists {
		return fmt.Errorf("%w: %s", ErrCurrencyExists, addr)
	}
	e.currencies[addr] = c
	return nil
}

// DepositNative folds a base-currency deposit into the ledger. Any
// wrapped-native balance the engine holds is unwrapped first and folded into
// the same deposit, so the wrapped pair never accrues separately.
func (e *Engine) DepositNative(amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.wrapped != nil {
		bal, err := e.wrapped.BalanceOf(e.self)
		if err != nil {
			return fmt.Errorf("rewarder: wrapped balance: %w", err)
		}
		if bal > 0 {
			if err := e.wrapped.Withdraw(bal); err != nil {
				return fmt.Errorf("rewarder: unwrap: %w", err)
			}
			if amount > math.MaxUint64-bal {
				return ErrAmountOverflow
			}
			amount += bal
		}
	}

	if amount == 0 {
		return ErrZeroDeposit
	}
	return e.base.credit(amount, e.maxSupply, CreatorShareDivisor)
}

// SyncCurrency reconciles a secondary currency. External transfers generate
// no callback, so the engine diffs the currency's true balance against the
// last processed snapshot and treats any excess as an implicit deposit. This
// also runs as a prefix of every claim in that currency; correctness never
// depends on callers remembering to sync.
func (e *Engine) SyncCurrency(currency token.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syncLocked(currency)
}

func (e *Engine) syncLocked(currency token.Address) error {
	if e.wrapped != nil && currency == e.wrapped.Address() {
		return fmt.Errorf("%w: %s", ErrWrappedCurrency, currency)
	}
	c, ok := e.currencies[currency]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}

	bal, err := c.BalanceOf(e.self)
	if err != nil {
		return fmt.Errorf("rewarder: balance of %s: %w", currency, err)
	}

	ls := e.ledgerFor(currency)
	if bal > ls.processedBalance {
		if err := ls.credit(bal-ls.processedBalance, e.maxSupply, CreatorShareDivisor); err != nil {
			return err
		}
		ls.processedBalance = bal
	}
	return nil
}

// ledgerFor returns the ledger for a currency, creating it lazily.
// The caller must hold e.mu and have validated the currency.
func (e *Engine) ledgerFor(currency token.Address) *currencyLedger {
	if currency == Native {
		return e.base
	}
	ls, ok := e.ledgers[currency]
	if !ok {
		ls = newCurrencyLedger()
		e.ledgers[currency] = ls
	}
	return ls
}

// lookupLedger returns the ledger for reads without creating it.
func (e *Engine) lookupLedger(currency token.Address) (*currencyLedger, error) {
	if currency == Native {
		return e.base, nil
	}
	if _, ok := e.currencies[currency]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	if ls, ok := e.ledgers[currency]; ok {
		return ls, nil
	}
	return newCurrencyLedger(), nil
}

// OwedToken returns the unclaimed amount accrued to a single token.
func (e *Engine) OwedToken(id token.TokenID, currency token.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if uint64(id) >= e.maxSupply {
		return 0, fmt.Errorf("%w: %d", ErrTokenOutOfRange, id)
	}
	ls, err := e.lookupLedger(currency)
	if err != nil {
		return 0, err
	}
	return ls.owed(id), nil
}

// AccountRevenues returns the total unclaimed amount across all tokens the
// owner currently holds. Read-only: no sync, no marker movement.
func (e *Engine) AccountRevenues(owner token.Address, currency token.Address) (uint64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("%w: owner", ErrZeroAddress)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ls, err := e.lookupLedger(currency)
	if err != nil {
		return 0, err
	}
	held, err := e.holdings.Tokens(owner)
	if err != nil {
		return 0, fmt.Errorf("rewarder: enumerate holdings: %w", err)
	}

	var total uint64
	for _, id := range held {
		owed := ls.owed(id)
		if owed > math.MaxUint64-total {
			return 0, ErrAmountOverflow
		}
		total += owed
	}
	return total, nil
}

// CreatorRevenues returns the creator's unclaimed amount.
func (e *Engine) CreatorRevenues(currency token.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ls, err := e.lookupLedger(currency)
	if err != nil {
		return 0, err
	}
	return ls.creatorOwed(), nil
}

// CurrencyInfo returns the accounting summary for a currency.
func (e *Engine) CurrencyInfo(currency token.Address) (Info, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ls, err := e.lookupLedger(currency)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Accumulator:        ls.accumulator,
		CreatorAccumulator: ls.creatorAccumulator,
		DustCarry:          ls.dustCarry,
		Deposited:          ls.deposited,
		Claimed:            ls.claimed,
	}, nil
}

// ClaimAccount settles every token the owner holds and pays the sum in one
// transfer. The claim is all-or-nothing: collected markers are committed
// before the external payment call, and rolled back in full if the payment
// fails, so no partial-claim state is ever visible and nothing is paid twice
// for the same accrual.
func (e *Engine) ClaimAccount(owner token.Address, currency token.Address) (uint64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("%w: owner", ErrZeroAddress)
	}
	if err := e.enterClaim(); err != nil {
		return 0, err
	}
	defer e.exitClaim()

	e.mu.Lock()
	if currency != Native {
		if err := e.syncLocked(currency); err != nil {
			e.mu.Unlock()
			return 0, err
		}
	}

	ls, err := e.lookupLedger(currency)
	if err != nil {
		e.mu.Unlock()
		return 0, err
	}
	held, err := e.holdings.Tokens(owner)
	if err != nil {
		e.mu.Unlock()
		return 0, fmt.Errorf("rewarder: enumerate holdings: %w", err)
	}

	var total uint64
	prev := make(map[token.TokenID]uint64, len(held))
	for _, id := range held {
		owed := ls.owed(id)
		if owed > math.MaxUint64-total {
			e.mu.Unlock()
			return 0, ErrAmountOverflow
		}
		total += owed
		prev[id] = ls.collected[id]
		ls.collected[id] = ls.accumulator
	}
	e.mu.Unlock()

	if total == 0 {
		return 0, nil
	}

	if err := e.payout(owner, total, currency); err != nil {
		e.mu.Lock()
		for id, v := range prev {
			ls.collected[id] = v
		}
		e.mu.Unlock()
		return 0, err
	}

	e.mu.Lock()
	ls.claimed += total
	e.settleProcessedBalance(ls, currency, total)
	e.mu.Unlock()
	return total, nil
}

// ClaimCreator settles the creator's share and pays it to the given address.
func (e *Engine) ClaimCreator(to token.Address, currency token.Address) (uint64, error) {
	if to.IsZero() {
		return 0, fmt.Errorf("%w: creator payout address", ErrZeroAddress)
	}
	if err := e.enterClaim(); err != nil {
		return 0, err
	}
	defer e.exitClaim()

	e.mu.Lock()
	if currency != Native {
		if err := e.syncLocked(currency); err != nil {
			e.mu.Unlock()
			return 0, err
		}
	}

	ls, err := e.lookupLedger(currency)
	if err != nil {
		e.mu.Unlock()
		return 0, err
	}

	total := ls.creatorOwed()
	prev := ls.creatorCollected
	ls.creatorCollected = ls.creatorAccumulator
	e.mu.Unlock()

	if total == 0 {
		return 0, nil
	}

	if err := e.payout(to, total, currency); err != nil {
		e.mu.Lock()
		ls.creatorCollected = prev
		e.mu.Unlock()
		return 0, err
	}

	e.mu.Lock()
	ls.claimed += total
	e.settleProcessedBalance(ls, currency, total)
	e.mu.Unlock()
	return total, nil
}

// payout executes the external value transfer. Called without e.mu held so a
// malicious recipient re-entering the claim family hits the guard, not the
// lock.
func (e *Engine) payout(to token.Address, amount uint64, currency token.Address) error {
	if currency == Native {
		if !e.pay.Send(to, amount) {
			return fmt.Errorf("%w: native send of %d to %s", ErrPayoutFailed, amount, to)
		}
		return nil
	}

	e.mu.Lock()
	c, ok := e.currencies[currency]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}

	if err := e.pay.SendCurrency(c, to, amount); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPayoutFailed, currency, err)
	}
	return nil
}

// settleProcessedBalance adjusts a secondary currency's snapshot after a
// payout by decrementing it by the paid amount — the one balance change the
// engine itself caused. Re-reading the true balance here would absorb any
// deposit pushed into the account while the payout was in flight (including
// by the payout's own Transfer call) without ever crediting it; with the
// decrement, such a deposit stays visible to the next sync as balance above
// the snapshot. The caller must hold e.mu.
func (e *Engine) settleProcessedBalance(ls *currencyLedger, currency token.Address, paid uint64) {
	if currency == Native {
		return
	}
	if ls.processedBalance > paid {
		ls.processedBalance -= paid
	} else {
		ls.processedBalance = 0
	}
}

func (e *Engine) enterClaim() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.claiming {
		return ErrReentrantCall
	}
	e.claiming = true
	return nil
}

func (e *Engine) exitClaim() {
	e.mu.Lock()
	e.claiming = false
	e.mu.Unlock()
}

// Snapshot copies the full engine accounting state.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := &Snapshot{
		Base:       e.base.snapshot(),
		Currencies: make(map[token.Address]LedgerSnapshot, len(e.ledgers)),
	}
	for addr, ls := range e.ledgers {
		s.Currencies[addr] = ls.snapshot()
	}
	return s
}

// Restore replaces the engine accounting state with a snapshot.
func (e *Engine) Restore(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParam)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.base = restoreLedger(s.Base)
	e.ledgers = make(map[token.Address]*currencyLedger, len(s.Currencies))
	for addr, lsnap := range s.Currencies {
		e.ledgers[addr] = restoreLedger(lsnap)
	}
	return nil
}
