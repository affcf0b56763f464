package rewarder

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintvault/libmintvault-go/token"
)

const testMaxSupply = 10000

func makeAddr(seed byte) token.Address {
	var addr token.Address
	for i := range addr {
		addr[i] = seed
	}
	return addr
}

var (
	self    = makeAddr(0xEE)
	creator = makeAddr(0xCC)
	alice   = makeAddr(0xAA)
	bob     = makeAddr(0xBB)
)

// env bundles an engine with its ledger and a recording payer.
type env struct {
	ledger   *token.Ledger
	engine   *Engine
	mu       sync.Mutex
	payments map[token.Address]uint64
	sendOK   bool
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ledger, err := token.NewLedger(token.NewMemStore())
	require.NoError(t, err)

	e := &env{ledger: ledger, payments: make(map[token.Address]uint64), sendOK: true}
	payer := &MockPayer{
		SendFn: func(to token.Address, amount uint64) bool {
			e.mu.Lock()
			defer e.mu.Unlock()
			if !e.sendOK {
				return false
			}
			e.payments[to] += amount
			return true
		},
		SendCurrencyFn: func(c Currency, to token.Address, amount uint64) error {
			ok, err := c.Transfer(to, amount)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("transfer of %d to %s returned false", amount, to)
			}
			return nil
		},
	}
	engine, err := NewEngine(testMaxSupply, self, ledger, payer)
	require.NoError(t, err)
	e.engine = engine
	return e
}

func (e *env) paid(to token.Address) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.payments[to]
}

func (e *env) mint(t *testing.T, owner token.Address, ids ...token.TokenID) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, e.ledger.RecordTransfer(token.ZeroAddress, owner, id))
	}
}

// fakeCurrency is a stateful in-memory fungible token. onTransfer, if set,
// runs after each successful transfer with the currency's lock released.
type fakeCurrency struct {
	addr          token.Address
	mu            sync.Mutex
	balances      map[token.Address]uint64
	failTransfers bool
	onTransfer    func()
}

func newFakeCurrency(seed byte) *fakeCurrency {
	return &fakeCurrency{addr: makeAddr(seed), balances: make(map[token.Address]uint64)}
}

func (c *fakeCurrency) Address() token.Address { return c.addr }

func (c *fakeCurrency) BalanceOf(holder token.Address) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balances[holder], nil
}

func (c *fakeCurrency) Transfer(to token.Address, amount uint64) (bool, error) {
	c.mu.Lock()
	if c.failTransfers || c.balances[self] < amount {
		c.mu.Unlock()
		return false, nil
	}
	c.balances[self] -= amount
	c.balances[to] += amount
	hook := c.onTransfer
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return true, nil
}

// push simulates an external transfer into the engine's account.
func (c *fakeCurrency) push(amount uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[self] += amount
}

// --- Deposit split ---

func TestDepositNative_Split(t *testing.T) {
	e := newEnv(t)

	// 160000: creator cut 10000, holder cut 150000, 15 per token, no dust.
	require.NoError(t, e.engine.DepositNative(160000))

	info, err := e.engine.CurrencyInfo(Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), info.Accumulator)
	assert.Equal(t, uint64(10000), info.CreatorAccumulator)
	assert.Equal(t, uint64(0), info.DustCarry)
	assert.Equal(t, uint64(160000), info.Deposited)
}

func TestDepositNative_SmallDepositIsAllDust(t *testing.T) {
	e := newEnv(t)

	// 1600: creator cut 100, holder cut 1500 — below max supply, so the
	// accumulator stays put and the full holder cut is carried as dust.
	require.NoError(t, e.engine.DepositNative(1600))

	info, err := e.engine.CurrencyInfo(Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), info.Accumulator)
	assert.Equal(t, uint64(100), info.CreatorAccumulator)
	assert.Equal(t, uint64(1500), info.DustCarry)
}

func TestDepositNative_DustCarriesIntoNextDeposit(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.engine.DepositNative(1600))
	require.NoError(t, e.engine.DepositNative(160000))

	// 150000 + 1500 carried = 151500 → 15 per token, 1500 carried again.
	info, err := e.engine.CurrencyInfo(Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), info.Accumulator)
	assert.Equal(t, uint64(1500), info.DustCarry)
}

func TestDepositNative_Zero(t *testing.T) {
	e := newEnv(t)
	assert.ErrorIs(t, e.engine.DepositNative(0), ErrZeroDeposit)
}

// --- Account revenue scenarios ---

func TestAccountRevenues_TwoTokens(t *testing.T) {
	e := newEnv(t)
	e.mint(t, alice, 3, 7)

	require.NoError(t, e.engine.DepositNative(160000)) // 15 per token

	got, err := e.engine.AccountRevenues(alice, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), got)

	paid, err := e.engine.ClaimAccount(alice, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), paid)
	assert.Equal(t, uint64(30), e.paid(alice))

	got, err = e.engine.AccountRevenues(alice, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)

	// 53334: creator cut 3333, holder cut 50001 → +5 per token.
	require.NoError(t, e.engine.DepositNative(53334))
	got, err = e.engine.AccountRevenues(alice, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got)
}

func TestClaimAccount_Idempotent(t *testing.T) {
	e := newEnv(t)
	e.mint(t, alice, 0)
	require.NoError(t, e.engine.DepositNative(160000))

	paid, err := e.engine.ClaimAccount(alice, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), paid)

	paid, err = e.engine.ClaimAccount(alice, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), paid)
	assert.Equal(t, uint64(15), e.paid(alice))
}

func TestClaimAccount_DoesNotTouchOtherTokens(t *testing.T) {
	e := newEnv(t)
	e.mint(t, alice, 1)
	e.mint(t, bob, 2)
	require.NoError(t, e.engine.DepositNative(160000))

	_, err := e.engine.ClaimAccount(alice, Native)
	require.NoError(t, err)

	owed, err := e.engine.OwedToken(2, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), owed)
}

func TestOwedToken_OutOfRange(t *testing.T) {
	e := newEnv(t)
	_, err := e.engine.OwedToken(testMaxSupply, Native)
	assert.ErrorIs(t, err, ErrTokenOutOfRange)
}

// --- Transfer semantics ---

func TestTransfer_DoesNotChangeOwed(t *testing.T) {
	e := newEnv(t)
	e.mint(t, alice, 3)
	require.NoError(t, e.engine.DepositNative(160000))

	before, err := e.engine.OwedToken(3, Native)
	require.NoError(t, err)
	require.NoError(t, e.ledger.RecordTransfer(alice, bob, 3))
	after, err := e.engine.OwedToken(3, Native)
	require.NoError(t, err)

	assert.Equal(t, before, after)

	// The accrual now belongs to whoever holds the token: bob.
	got, err := e.engine.AccountRevenues(bob, Native)
	require.NoError(t, err)
	assert.Equal(t, before, got)
}

func TestTransfer_AfterClaimStartsFromZero(t *testing.T) {
	e := newEnv(t)
	e.mint(t, alice, 3)
	require.NoError(t, e.engine.DepositNative(160000))

	_, err := e.engine.ClaimAccount(alice, Native)
	require.NoError(t, err)

	require.NoError(t, e.ledger.RecordTransfer(alice, bob, 3))

	// Bob does not retroactively gain alice's already-claimed share.
	owed, err := e.engine.OwedToken(3, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), owed)

	// Future accrual belongs to bob.
	require.NoError(t, e.engine.DepositNative(160000))
	got, err := e.engine.AccountRevenues(bob, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), got)
}

// --- Creator share ---

func TestClaimCreator(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.engine.DepositNative(160000))

	owed, err := e.engine.CreatorRevenues(Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), owed)

	paid, err := e.engine.ClaimCreator(creator, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), paid)
	assert.Equal(t, uint64(10000), e.paid(creator))

	paid, err = e.engine.ClaimCreator(creator, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), paid)
}

// --- Payout failure ---

func TestClaimAccount_PayoutFailureRollsBack(t *testing.T) {
	e := newEnv(t)
	e.mint(t, alice, 3, 7)
	require.NoError(t, e.engine.DepositNative(160000))

	e.mu.Lock()
	e.sendOK = false
	e.mu.Unlock()

	_, err := e.engine.ClaimAccount(alice, Native)
	assert.ErrorIs(t, err, ErrPayoutFailed)

	// Nothing consumed: the full amount stays claimable.
	got, err := e.engine.AccountRevenues(alice, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), got)

	e.mu.Lock()
	e.sendOK = true
	e.mu.Unlock()

	paid, err := e.engine.ClaimAccount(alice, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), paid)
}

func TestClaimCreator_PayoutFailureRollsBack(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.engine.DepositNative(160000))

	e.mu.Lock()
	e.sendOK = false
	e.mu.Unlock()

	_, err := e.engine.ClaimCreator(creator, Native)
	assert.ErrorIs(t, err, ErrPayoutFailed)

	owed, err := e.engine.CreatorRevenues(Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), owed)
}

// --- Secondary currencies ---

func TestSyncCurrency_DetectsPushedDeposit(t *testing.T) {
	e := newEnv(t)
	cur := newFakeCurrency(0x10)
	require.NoError(t, e.engine.RegisterCurrency(cur))

	cur.push(160000)
	require.NoError(t, e.engine.SyncCurrency(cur.Address()))

	info, err := e.engine.CurrencyInfo(cur.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(15), info.Accumulator)
	assert.Equal(t, uint64(10000), info.CreatorAccumulator)

	// A second sync without new funds must not double-count.
	require.NoError(t, e.engine.SyncCurrency(cur.Address()))
	info, err = e.engine.CurrencyInfo(cur.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(15), info.Accumulator)
}

func TestClaimAccount_SecondaryCurrencySyncsFirst(t *testing.T) {
	e := newEnv(t)
	cur := newFakeCurrency(0x10)
	require.NoError(t, e.engine.RegisterCurrency(cur))
	e.mint(t, alice, 3, 7)

	// No explicit sync: the claim itself must pick up the pushed funds.
	cur.push(160000)
	paid, err := e.engine.ClaimAccount(alice, cur.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(30), paid)

	bal, err := cur.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), bal)

	// The snapshot only dropped by the paid amount: a new push is still
	// detected as exactly its own amount.
	cur.push(160000)
	paid, err = e.engine.ClaimAccount(alice, cur.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(30), paid)
}

func TestClaimAccount_DepositDuringPayoutIsNotStranded(t *testing.T) {
	e := newEnv(t)
	cur := newFakeCurrency(0x10)
	require.NoError(t, e.engine.RegisterCurrency(cur))
	e.mint(t, alice, 3, 7)

	cur.push(160000)
	require.NoError(t, e.engine.SyncCurrency(cur.Address()))

	// A deposit lands in the engine's account while the payout transfer is
	// still in flight. It must not vanish into the balance snapshot.
	cur.onTransfer = func() { cur.push(160000) }
	paid, err := e.engine.ClaimAccount(alice, cur.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(30), paid)

	cur.onTransfer = nil
	require.NoError(t, e.engine.SyncCurrency(cur.Address()))

	info, err := e.engine.CurrencyInfo(cur.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(320000), info.Deposited)

	got, err := e.engine.AccountRevenues(alice, cur.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(30), got)
}

func TestClaimAccount_SecondaryTransferFalseRollsBack(t *testing.T) {
	e := newEnv(t)
	cur := newFakeCurrency(0x10)
	require.NoError(t, e.engine.RegisterCurrency(cur))
	e.mint(t, alice, 3)

	cur.push(160000)
	require.NoError(t, e.engine.SyncCurrency(cur.Address()))

	cur.mu.Lock()
	cur.failTransfers = true
	cur.mu.Unlock()

	_, err := e.engine.ClaimAccount(alice, cur.Address())
	assert.ErrorIs(t, err, ErrPayoutFailed)

	owed, err := e.engine.OwedToken(3, cur.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(15), owed)
}

func TestSyncCurrency_Unknown(t *testing.T) {
	e := newEnv(t)
	err := e.engine.SyncCurrency(makeAddr(0x77))
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	_, err = e.engine.ClaimAccount(alice, makeAddr(0x77))
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestRegisterCurrency_Duplicate(t *testing.T) {
	e := newEnv(t)
	cur := newFakeCurrency(0x10)
	require.NoError(t, e.engine.RegisterCurrency(cur))
	assert.ErrorIs(t, e.engine.RegisterCurrency(cur), ErrCurrencyExists)
}

// --- Wrapped native ---

// fakeWrapped simulates the wrapped form of the native currency: Withdraw
// burns wrapped balance; the unwrapped value shows up as native.
type fakeWrapped struct {
	fakeCurrency
}

func newFakeWrapped(seed byte) *fakeWrapped {
	return &fakeWrapped{fakeCurrency{addr: makeAddr(seed), balances: make(map[token.Address]uint64)}}
}

func (w *fakeWrapped) Withdraw(amount uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.balances[self] < amount {
		return fmt.Errorf("withdraw %d exceeds balance %d", amount, w.balances[self])
	}
	w.balances[self] -= amount
	return nil
}

func TestDepositNative_UnwrapsWrappedBalance(t *testing.T) {
	e := newEnv(t)
	wrapped := newFakeWrapped(0x20)
	require.NoError(t, e.engine.SetWrappedNative(wrapped))

	wrapped.push(60000)
	require.NoError(t, e.engine.DepositNative(100000))

	// 160000 total: the wrapped balance folded into the same deposit.
	info, err := e.engine.CurrencyInfo(Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(160000), info.Deposited)
	assert.Equal(t, uint64(15), info.Accumulator)

	bal, err := wrapped.BalanceOf(self)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bal)
}

func TestWrappedNative_CannotBeRegisteredOrSynced(t *testing.T) {
	e := newEnv(t)
	wrapped := newFakeWrapped(0x20)
	require.NoError(t, e.engine.SetWrappedNative(wrapped))

	err := e.engine.RegisterCurrency(wrapped)
	assert.ErrorIs(t, err, ErrWrappedCurrency)

	err = e.engine.SyncCurrency(wrapped.Address())
	assert.ErrorIs(t, err, ErrWrappedCurrency)
}
