// Package feegate enforces the operator allow list on transfers and
// approvals.
//
// An owner moving or approving their own tokens is never gated. Any other
// operator must be vouched for by an AllowOracle, which abstracts over where
// the allow list lives: an in-memory set for closed deployments, or a
// DNS-published registry for deployments that delegate list maintenance to
// an external authority.
package feegate

import (
	"fmt"

	"github.com/mintvault/libmintvault-go/token"
)

// AllowOracle answers whether an operator honors the collection's fee terms.
type AllowOracle interface {
	IsOperatorAllowed(operator token.Address) (bool, error)
}

// MockAllowOracle is a test double for AllowOracle.
// The function field must be set before IsOperatorAllowed is called.
type MockAllowOracle struct {
	IsOperatorAllowedFn func(operator token.Address) (bool, error)
}

func (m *MockAllowOracle) IsOperatorAllowed(operator token.Address) (bool, error) {
	return m.IsOperatorAllowedFn(operator)
}

// Gate screens transfer and approval operators against an AllowOracle.
type Gate struct {
	oracle AllowOracle
}

// NewGate creates a gate over the given oracle.
func NewGate(oracle AllowOracle) (*Gate, error) {
	if oracle == nil {
		return nil, fmt.Errorf("%w: oracle", ErrNilParam)
	}
	return &Gate{oracle: oracle}, nil
}

// CheckTransfer reports whether operator may move owner's tokens. An owner
// moving their own tokens is always allowed; everyone else needs the
// oracle's approval. An oracle failure propagates rather than defaulting
// either way.
func (g *Gate) CheckTransfer(operator, owner token.Address) error {
	if operator == owner {
		return nil
	}
	return g.check(operator)
}

// CheckApproval reports whether owner may approve operator. Self-approval
// is a no-op and always allowed.
func (g *Gate) CheckApproval(owner, operator token.Address) error {
	if operator == owner {
		return nil
	}
	return g.check(operator)
}

func (g *Gate) check(operator token.Address) error {
	allowed, err := g.oracle.IsOperatorAllowed(operator)
	if err != nil {
		return fmt.Errorf("feegate: oracle lookup for %s: %w", operator, err)
	}
	if !allowed {
		return fmt.Errorf("%w: %s", ErrOperatorNotAllowed, operator)
	}
	return nil
}
