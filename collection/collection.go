// Package collection wires one deployment instance together: the ownership
// ledger, the mint controller, the reveal engine, the revenue engine, the
// fee gate, and the treasury adapter, all configured from a single Params.
//
// The collection is the only entry point external callers see. Every
// operation names its caller explicitly; role checks (admin, creator,
// approved operator) happen here, while each engine enforces its own
// domain invariants.
package collection

import (
	"fmt"
	"sync"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/echa/log"

	"github.com/mintvault/libmintvault-go/config"
	"github.com/mintvault/libmintvault-go/feegate"
	"github.com/mintvault/libmintvault-go/mint"
	"github.com/mintvault/libmintvault-go/reveal"
	"github.com/mintvault/libmintvault-go/rewarder"
	"github.com/mintvault/libmintvault-go/token"
	"github.com/mintvault/libmintvault-go/treasury"
)

// Options configure a new collection instance.
type Options struct {
	// Params are the deployment parameters; validated by New.
	Params config.Params

	// Self is the collection's own account, the address external currency
	// deposits are pushed to.
	Self token.Address

	// Admin may call Initialize once, after which the role is revoked.
	Admin token.Address

	// Team receives the reserve batch on Initialize.
	Team token.Address

	// Creator receives the creator revenue share and may rotate itself.
	Creator token.Address

	// Minters are the addresses allowed to mint.
	Minters []token.Address

	// Oracle receives randomness requests; OraclePub verifies its proofs.
	Oracle    reveal.Oracle
	OraclePub *ec.PublicKey

	// Transport moves native value out during payouts.
	Transport treasury.ValueTransport

	// AllowOracle overrides the operator allow list. When nil, a DNS
	// registry is used if Params.RegistryDomain is set, otherwise an empty
	// static allow list (owner-only transfers).
	AllowOracle feegate.AllowOracle

	// Resolver overrides DNS resolution for the registry. Nil selects the
	// DNSSEC-validating default.
	Resolver feegate.DNSResolver

	// Store overrides ledger persistence. Nil selects an in-memory store.
	Store token.Store
}

// feePool is the prepaid oracle-fee balance, funded by mint payments.
// It carries its own lock because the reveal engine reads it from inside
// its own critical section.
type feePool struct {
	mu      sync.Mutex
	balance uint64
}

// Compile-time interface check.
var _ reveal.FeeBalance = (*feePool)(nil)

func (p *feePool) Balance() (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance, nil
}

func (p *feePool) credit(amount uint64) {
	p.mu.Lock()
	p.balance += amount
	p.mu.Unlock()
}

func (p *feePool) debit(amount uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if amount > p.balance {
		prior := p.balance
		p.balance = 0
		return fmt.Errorf("%w: debit %d exceeds balance %d", ErrFeePoolUnderflow, amount, prior)
	}
	p.balance -= amount
	return nil
}

// Collection is one deployment instance.
type Collection struct {
	mu sync.Mutex

	params  config.Params
	ledger  *token.Ledger
	minter  *mint.Controller
	reveal  *reveal.Engine
	rewards *rewarder.Engine
	gate    *feegate.Gate
	fees    *feePool

	admin           token.Address
	creator         token.Address
	proposedCreator token.Address
	initialized     bool

	// approvals maps owner → approved operators.
	approvals map[token.Address]map[token.Address]bool
}

// New builds a collection in the uninitialized state.
func New(opts Options) (*Collection, error) {
	if err := config.ValidateParams(opts.Params); err != nil {
		return nil, err
	}
	if opts.Self.IsZero() || opts.Admin.IsZero() || opts.Team.IsZero() || opts.Creator.IsZero() {
		return nil, fmt.Errorf("%w: self, admin, team, and creator addresses required", ErrZeroAddress)
	}
	if opts.Oracle == nil || opts.OraclePub == nil {
		return nil, fmt.Errorf("%w: oracle and oracle public key", ErrNilParam)
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("%w: transport", ErrNilParam)
	}

	store := opts.Store
	if store == nil {
		store = token.NewMemStore()
	}
	ledger, err := token.NewLedger(store)
	if err != nil {
		return nil, err
	}

	schedule, err := mint.NewPriceSchedule(opts.Params.MaxSupply, opts.Params.TierPrices)
	if err != nil {
		return nil, err
	}
	minter, err := mint.NewController(ledger, schedule, opts.Params.MaxSupply,
		opts.Params.TeamReserve, opts.Admin, opts.Team, opts.Minters)
	if err != nil {
		return nil, err
	}

	pay, err := treasury.NewAdapter(opts.Transport)
	if err != nil {
		return nil, err
	}
	rewards, err := rewarder.NewEngine(opts.Params.MaxSupply, opts.Self, ledger, pay)
	if err != nil {
		return nil, err
	}

	fees := &feePool{}
	revealEngine, err := reveal.NewEngine(opts.Params.MaxSupply, minter, fees,
		opts.Oracle, opts.OraclePub, opts.Params.OracleFee)
	if err != nil {
		return nil, err
	}

	allow := opts.AllowOracle
	if allow == nil {
		if opts.Params.RegistryDomain != "" {
			allow, err = feegate.NewDNSRegistry(opts.Params.RegistryDomain, opts.Resolver)
			if err != nil {
				return nil, err
			}
		} else {
			allow = feegate.NewStaticAllowList()
		}
	}
	gate, err := feegate.NewGate(allow)
	if err != nil {
		return nil, err
	}

	return &Collection{
		params:    opts.Params,
		ledger:    ledger,
		minter:    minter,
		reveal:    revealEngine,
		rewards:   rewards,
		gate:      gate,
		fees:      fees,
		admin:     opts.Admin,
		creator:   opts.Creator,
		approvals: make(map[token.Address]map[token.Address]bool),
	}, nil
}

// Initialize opens the collection: minting starts and the team reserve is
// issued. It is the one-shot admin action; on success the admin role is
// revoked and no further configuration changes are possible except the
// creator rotation.
func (c *Collection) Initialize(caller token.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return ErrAlreadyInitialized
	}
	if caller != c.admin {
		return fmt.Errorf("%w: %s", ErrCallerNotAdmin, caller)
	}

	if err := c.minter.Start(caller); err != nil {
		return err
	}
	c.initialized = true
	c.admin = token.ZeroAddress

	log.Infof("collection: initialized, %d reserve tokens minted, admin revoked",
		c.params.TeamReserve)
	return nil
}

// Initialized reports whether Initialize has run.
func (c *Collection) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// MintBatch mints count tokens to the destination against the given payment.
// The payment funds the prepaid oracle-fee pool.
func (c *Collection) MintBatch(caller, to token.Address, count, payment uint64) error {
	if !c.Initialized() {
		return ErrNotInitialized
	}
	if err := c.minter.MintBatch(caller, to, count, payment); err != nil {
		return err
	}
	c.fees.credit(payment)

	log.Debugf("collection: minted %d tokens to %s, supply %d/%d",
		count, to, c.minter.TotalSupply(), c.params.MaxSupply)
	return nil
}

// TransferFrom moves a token. The operator must either be the owner or hold
// the owner's approval, and must pass the fee gate.
func (c *Collection) TransferFrom(operator, from, to token.Address, id token.TokenID) error {
	if !c.Initialized() {
		return ErrNotInitialized
	}
	if operator != from && !c.isApproved(from, operator) {
		return fmt.Errorf("%w: %s for %s", ErrNotApproved, operator, from)
	}
	if err := c.gate.CheckTransfer(operator, from); err != nil {
		return err
	}
	if err := c.ledger.RecordTransfer(from, to, id); err != nil {
		return err
	}

	log.Debugf("collection: token %d transferred %s -> %s by %s", id, from, to, operator)
	return nil
}

// Approve grants operator the right to transfer any of owner's tokens.
// The operator must pass the fee gate.
func (c *Collection) Approve(owner, operator token.Address) error {
	if !c.Initialized() {
		return ErrNotInitialized
	}
	if owner.IsZero() || operator.IsZero() {
		return ErrZeroAddress
	}
	if err := c.gate.CheckApproval(owner, operator); err != nil {
		return err
	}

	c.mu.Lock()
	set, ok := c.approvals[owner]
	if !ok {
		set = make(map[token.Address]bool)
		c.approvals[owner] = set
	}
	set[operator] = true
	c.mu.Unlock()
	return nil
}

// RevokeApproval withdraws a previously granted approval.
func (c *Collection) RevokeApproval(owner, operator token.Address) {
	c.mu.Lock()
	if set, ok := c.approvals[owner]; ok {
		delete(set, operator)
	}
	c.mu.Unlock()
}

func (c *Collection) isApproved(owner, operator token.Address) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.approvals[owner][operator]
}

// DepositFees credits a native revenue deposit to the holders and the
// creator.
func (c *Collection) DepositFees(amount uint64) error {
	if err := c.rewards.DepositNative(amount); err != nil {
		return err
	}
	log.Debugf("collection: deposited %d native revenue", amount)
	return nil
}

// RegisterCurrency makes a secondary revenue currency claimable.
// Creator-only.
func (c *Collection) RegisterCurrency(caller token.Address, cur rewarder.Currency) error {
	if err := c.requireCreator(caller); err != nil {
		return err
	}
	return c.rewards.RegisterCurrency(cur)
}

// SetWrappedNative designates the wrapped form of the native currency.
// Creator-only.
func (c *Collection) SetWrappedNative(caller token.Address, w rewarder.WrappedNative) error {
	if err := c.requireCreator(caller); err != nil {
		return err
	}
	return c.rewards.SetWrappedNative(w)
}

// SyncCurrency reconciles a secondary currency against its true balance.
func (c *Collection) SyncCurrency(currency token.Address) error {
	return c.rewards.SyncCurrency(currency)
}

// AccountRevenues returns the caller's total unclaimed amount in a currency.
func (c *Collection) AccountRevenues(owner, currency token.Address) (uint64, error) {
	return c.rewards.AccountRevenues(owner, currency)
}

// OwedToken returns the unclaimed amount accrued to one token.
func (c *Collection) OwedToken(id token.TokenID, currency token.Address) (uint64, error) {
	return c.rewards.OwedToken(id, currency)
}

// ClaimHolder settles and pays everything owed to the caller's tokens.
func (c *Collection) ClaimHolder(caller, currency token.Address) (uint64, error) {
	paid, err := c.rewards.ClaimAccount(caller, currency)
	if err != nil {
		return 0, err
	}
	if paid > 0 {
		log.Infof("collection: paid %d to holder %s", paid, caller)
	}
	return paid, nil
}

// ClaimCreator settles and pays the creator share. Creator-only.
func (c *Collection) ClaimCreator(caller, currency token.Address) (uint64, error) {
	if err := c.requireCreator(caller); err != nil {
		return 0, err
	}
	paid, err := c.rewards.ClaimCreator(caller, currency)
	if err != nil {
		return 0, err
	}
	if paid > 0 {
		log.Infof("collection: paid %d to creator %s", paid, caller)
	}
	return paid, nil
}

// RequestReveal issues the randomness request. Anyone may call once the
// supply is fully minted; the engine enforces the preconditions. On success
// the oracle fee is taken from the prepaid pool.
func (c *Collection) RequestReveal(caller token.Address) ([32]byte, error) {
	requestID, err := c.reveal.Request()
	if err != nil {
		return [32]byte{}, err
	}
	// The engine checked the pool covered the fee before requesting, so an
	// underflow here means the accounting drifted. The request stands; the
	// drift is worth a loud record.
	if err := c.fees.debit(c.params.OracleFee); err != nil {
		log.Errorf("collection: oracle fee debit: %v", err)
	}

	log.Infof("collection: reveal requested by %s, request %x", caller, requestID)
	return requestID, nil
}

// FulfillReveal accepts the oracle's proof and fixes the reveal offset.
func (c *Collection) FulfillReveal(requestID [32]byte, proof []byte) error {
	if err := c.reveal.Fulfill(requestID, proof); err != nil {
		return err
	}

	offset, _ := c.reveal.Offset()
	log.Infof("collection: revealed with offset %d", offset)
	return nil
}

// RevealedID maps a token ID to its post-reveal identity.
func (c *Collection) RevealedID(id uint64) (uint64, error) {
	return c.reveal.RevealedID(id)
}

// RevealState returns the reveal lifecycle phase.
func (c *Collection) RevealState() reveal.State {
	return c.reveal.State()
}

// ProposeCreator starts a creator rotation. Creator-only; the rotation
// completes only when the proposed address accepts.
func (c *Collection) ProposeCreator(caller, next token.Address) error {
	if next.IsZero() {
		return fmt.Errorf("%w: proposed creator", ErrZeroAddress)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.creator {
		return fmt.Errorf("%w: %s", ErrCallerNotCreator, caller)
	}
	c.proposedCreator = next

	log.Infof("collection: creator rotation proposed: %s -> %s", c.creator, next)
	return nil
}

// AcceptCreator completes a pending creator rotation. Only the proposed
// address may accept.
func (c *Collection) AcceptCreator(caller token.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.proposedCreator.IsZero() {
		return ErrNoProposal
	}
	if caller != c.proposedCreator {
		return fmt.Errorf("%w: %s", ErrCallerNotProposed, caller)
	}

	log.Infof("collection: creator rotated: %s -> %s", c.creator, caller)
	c.creator = caller
	c.proposedCreator = token.ZeroAddress
	return nil
}

// Creator returns the current creator address.
func (c *Collection) Creator() token.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creator
}

func (c *Collection) requireCreator(caller token.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if caller != c.creator {
		return fmt.Errorf("%w: %s", ErrCallerNotCreator, caller)
	}
	return nil
}

// --- Read-only ledger and supply views ---

// OwnerOf returns the current owner of a token.
func (c *Collection) OwnerOf(id token.TokenID) (token.Address, error) {
	return c.ledger.OwnerOf(id)
}

// Exists reports whether a token has been minted.
func (c *Collection) Exists(id token.TokenID) bool {
	return c.ledger.Exists(id)
}

// BalanceOf returns the number of tokens held by owner.
func (c *Collection) BalanceOf(owner token.Address) (uint64, error) {
	return c.ledger.BalanceOf(owner)
}

// TokenOfOwnerByIndex enumerates owner's holdings by dense index.
func (c *Collection) TokenOfOwnerByIndex(owner token.Address, index uint64) (token.TokenID, error) {
	return c.ledger.TokenOfOwnerByIndex(owner, index)
}

// TotalSupply returns the number of tokens minted so far.
func (c *Collection) TotalSupply() uint64 { return c.minter.TotalSupply() }

// MaxSupply returns the immutable supply cap.
func (c *Collection) MaxSupply() uint64 { return c.minter.MaxSupply() }

// CurrentPrice returns the unit mint price at the current supply level.
func (c *Collection) CurrentPrice() uint64 { return c.minter.CurrentPrice() }

// SoldOut reports whether the supply cap has been reached.
func (c *Collection) SoldOut() bool { return c.minter.SoldOut() }

// FeeBalance returns the prepaid oracle-fee pool balance.
func (c *Collection) FeeBalance() uint64 {
	bal, _ := c.fees.Balance()
	return bal
}

// RewardsSnapshot copies the revenue-accounting state for persistence.
func (c *Collection) RewardsSnapshot() *rewarder.Snapshot {
	return c.rewards.Snapshot()
}

// RestoreRewards replaces the revenue-accounting state from a snapshot.
func (c *Collection) RestoreRewards(s *rewarder.Snapshot) error {
	return c.rewards.Restore(s)
}
