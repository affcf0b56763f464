package rewarder

import "github.com/mintvault/libmintvault-go/token"

// Native is the currency designator for the base (native) currency.
var Native = token.ZeroAddress

// Currency is a fungible-token contract seen from the engine. Return values
// are never trusted without checking: a false Transfer result means the
// transfer did not happen.
type Currency interface {
	// Address identifies the currency contract.
	Address() token.Address

	// BalanceOf returns the holder's balance.
	BalanceOf(holder token.Address) (uint64, error)

	// Transfer moves amount to the destination. A false return without an
	// error still means failure.
	Transfer(to token.Address, amount uint64) (bool, error)
}

// WrappedNative is the base-pair wrapped form of the native currency. It is
// never claimable on its own: any balance the engine holds is unwrapped and
// folded into the next native deposit, so holders only ever claim one
// representation of the asset.
type WrappedNative interface {
	Currency

	// Withdraw unwraps amount into native value held by the engine.
	Withdraw(amount uint64) error
}

// NativeSender pushes native value out of the engine. A false return means
// the transfer failed and the triggering claim must be rolled back.
type NativeSender interface {
	Send(to token.Address, amount uint64) bool
}

// Payer executes outbound payouts. Every unit of value leaving the engine,
// native or secondary, crosses this single adapter.
type Payer interface {
	NativeSender

	// SendCurrency transfers a secondary currency with its result checked.
	SendCurrency(c Currency, to token.Address, amount uint64) error
}

// Holdings enumerates token ownership for aggregate claims.
type Holdings interface {
	// BalanceOf returns the number of tokens held by owner.
	BalanceOf(owner token.Address) (uint64, error)

	// Tokens returns all tokens held by owner.
	Tokens(owner token.Address) ([]token.TokenID, error)
}

// MockCurrency is a test double for Currency.
// Function fields must be set before the corresponding method is called.
type MockCurrency struct {
	AddressFn   func() token.Address
	BalanceOfFn func(holder token.Address) (uint64, error)
	TransferFn  func(to token.Address, amount uint64) (bool, error)
}

func (m *MockCurrency) Address() token.Address { return m.AddressFn() }
func (m *MockCurrency) BalanceOf(holder token.Address) (uint64, error) {
	return m.BalanceOfFn(holder)
}
func (m *MockCurrency) Transfer(to token.Address, amount uint64) (bool, error) {
	return m.TransferFn(to, amount)
}

// MockWrappedNative is a test double for WrappedNative.
type MockWrappedNative struct {
	MockCurrency
	WithdrawFn func(amount uint64) error
}

func (m *MockWrappedNative) Withdraw(amount uint64) error { return m.WithdrawFn(amount) }

// MockPayer is a test double for Payer.
// Function fields must be set before the corresponding method is called.
type MockPayer struct {
	SendFn         func(to token.Address, amount uint64) bool
	SendCurrencyFn func(c Currency, to token.Address, amount uint64) error
}

func (m *MockPayer) Send(to token.Address, amount uint64) bool {
	return m.SendFn(to, amount)
}

func (m *MockPayer) SendCurrency(c Currency, to token.Address, amount uint64) error {
	return m.SendCurrencyFn(c, to, amount)
}
