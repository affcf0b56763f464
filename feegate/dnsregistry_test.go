package feegate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintvault/libmintvault-go/token"
)

// mockResolver returns canned TXT records keyed by query name.
type mockResolver struct {
	records map[string][]string
	err     error
}

func (m *mockResolver) LookupTXT(name string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	txts, ok := m.records[name]
	if !ok {
		return nil, errors.New("NXDOMAIN")
	}
	return txts, nil
}

func TestDNSRegistry_ResolvesOperators(t *testing.T) {
	opA := makeAddr(0x0a)
	opB := makeAddr(0x0b)

	resolver := &mockResolver{records: map[string][]string{
		"_operators.market.example": {
			"v=spf1 -all", // unrelated record is skipped
			"operators=" + opA.String() + "," + opB.String(),
		},
	}}
	reg, err := NewDNSRegistry("market.example", resolver)
	require.NoError(t, err)

	operators, err := reg.Operators()
	require.NoError(t, err)
	assert.Equal(t, []token.Address{opA, opB}, operators)

	ok, err := reg.IsOperatorAllowed(opA)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = reg.IsOperatorAllowed(makeAddr(0x0c))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDNSRegistry_MergesMultipleRecords(t *testing.T) {
	opA := makeAddr(0x0a)
	opB := makeAddr(0x0b)

	resolver := &mockResolver{records: map[string][]string{
		"_operators.market.example": {
			"operators=" + opA.String(),
			"operators=" + opB.String(),
		},
	}}
	reg, err := NewDNSRegistry("market.example", resolver)
	require.NoError(t, err)

	operators, err := reg.Operators()
	require.NoError(t, err)
	assert.Len(t, operators, 2)
}

func TestDNSRegistry_Errors(t *testing.T) {
	t.Run("empty domain", func(t *testing.T) {
		_, err := NewDNSRegistry("", &mockResolver{})
		assert.ErrorIs(t, err, ErrDNSLookupFailed)
	})

	t.Run("lookup failure", func(t *testing.T) {
		reg, err := NewDNSRegistry("market.example", &mockResolver{err: errors.New("timeout")})
		require.NoError(t, err)
		_, err = reg.IsOperatorAllowed(makeAddr(0x0a))
		assert.ErrorIs(t, err, ErrDNSLookupFailed)
	})

	t.Run("no operators record", func(t *testing.T) {
		resolver := &mockResolver{records: map[string][]string{
			"_operators.market.example": {"v=spf1 -all"},
		}}
		reg, err := NewDNSRegistry("market.example", resolver)
		require.NoError(t, err)
		_, err = reg.Operators()
		assert.ErrorIs(t, err, ErrNoOperatorRecord)
	})

	t.Run("malformed address", func(t *testing.T) {
		resolver := &mockResolver{records: map[string][]string{
			"_operators.market.example": {"operators=nothex"},
		}}
		reg, err := NewDNSRegistry("market.example", resolver)
		require.NoError(t, err)
		_, err = reg.Operators()
		assert.ErrorIs(t, err, token.ErrInvalidAddress)
	})
}

func TestDNSRegistry_GateIntegration(t *testing.T) {
	opA := makeAddr(0x0a)
	resolver := &mockResolver{records: map[string][]string{
		"_operators.market.example": {"operators=" + opA.String()},
	}}
	reg, err := NewDNSRegistry("market.example", resolver)
	require.NoError(t, err)

	g, err := NewGate(reg)
	require.NoError(t, err)

	assert.NoError(t, g.CheckTransfer(opA, owner))
	assert.ErrorIs(t, g.CheckTransfer(makeAddr(0x0c), owner), ErrOperatorNotAllowed)
}
