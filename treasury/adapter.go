// Package treasury implements the payment adapter that moves funds out of
// the accounting engine.
//
// Native payouts are best-effort: Send reports success or failure without
// escalating, so one failed payout among several (creator vs. holders) can
// be isolated and reported distinctly by the caller. Currency payouts check
// the transfer's boolean result explicitly; an unchecked return is never
// treated as success.
package treasury

import (
	"fmt"

	"github.com/echa/log"

	"github.com/mintvault/libmintvault-go/rewarder"
	"github.com/mintvault/libmintvault-go/token"
)

// ValueTransport pushes native value to an external account.
type ValueTransport interface {
	Push(to token.Address, amount uint64) error
}

// MockTransport is a test double for ValueTransport.
// The function field must be set before Push is called.
type MockTransport struct {
	PushFn func(to token.Address, amount uint64) error
}

func (m *MockTransport) Push(to token.Address, amount uint64) error {
	return m.PushFn(to, amount)
}

// Adapter executes payouts over a native transport.
// It implements rewarder.Payer.
type Adapter struct {
	transport ValueTransport
}

// Compile-time interface check.
var _ rewarder.Payer = (*Adapter)(nil)

// NewAdapter creates an adapter over the given transport.
func NewAdapter(transport ValueTransport) (*Adapter, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: transport", ErrNilParam)
	}
	return &Adapter{transport: transport}, nil
}

// Send pushes native value best-effort. A false return means the transfer
// did not happen; the failure is logged but never escalated from here, so
// the caller decides whether to roll back.
func (a *Adapter) Send(to token.Address, amount uint64) bool {
	if to.IsZero() || amount == 0 {
		log.Warnf("treasury: rejecting native send of %d to %s", amount, to)
		return false
	}
	if err := a.transport.Push(to, amount); err != nil {
		log.Warnf("treasury: native send of %d to %s failed: %v", amount, to, err)
		return false
	}
	log.Debugf("treasury: sent %d native to %s", amount, to)
	return true
}

// SendCurrency transfers a secondary currency with its result checked.
func (a *Adapter) SendCurrency(c rewarder.Currency, to token.Address, amount uint64) error {
	if c == nil {
		return fmt.Errorf("%w: currency", ErrNilParam)
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	if amount == 0 {
		return ErrZeroAmount
	}

	ok, err := c.Transfer(to, amount)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransferFailed, c.Address(), err)
	}
	if !ok {
		return fmt.Errorf("%w: %s transfer of %d to %s returned false", ErrTransferFailed, c.Address(), amount, to)
	}
	log.Debugf("treasury: sent %d of %s to %s", amount, c.Address(), to)
	return nil
}
