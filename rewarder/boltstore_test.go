package rewarder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintvault/libmintvault-go/token"
)

func TestSnapshot_RestoreRoundTrip(t *testing.T) {
	e := newEnv(t)
	cur := newFakeCurrency(0x10)
	require.NoError(t, e.engine.RegisterCurrency(cur))
	e.mint(t, alice, 3, 7)

	require.NoError(t, e.engine.DepositNative(160000))
	cur.push(53334)
	require.NoError(t, e.engine.SyncCurrency(cur.Address()))
	_, err := e.engine.ClaimAccount(alice, Native)
	require.NoError(t, err)

	snap := e.engine.Snapshot()

	// A second engine restored from the snapshot reports identical state.
	e2 := newEnv(t)
	require.NoError(t, e2.engine.RegisterCurrency(cur))
	require.NoError(t, e2.engine.Restore(snap))

	for _, currency := range []token.Address{Native, cur.Address()} {
		want, err := e.engine.CurrencyInfo(currency)
		require.NoError(t, err)
		got, err := e2.engine.CurrencyInfo(currency)
		require.NoError(t, err)
		assert.Equal(t, want, got, "currency %s", currency)
	}

	owed, err := e2.engine.OwedToken(3, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), owed) // already claimed before the snapshot
}

func TestSnapshot_IsACopy(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.engine.DepositNative(160000))

	snap := e.engine.Snapshot()
	require.NoError(t, e.engine.DepositNative(160000))

	assert.Equal(t, uint64(15), snap.Base.Accumulator)
	info, err := e.engine.CurrencyInfo(Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), info.Accumulator)
}

func TestBoltStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewards.db")
	store, err := OpenBoltStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	e := newEnv(t)
	e.mint(t, alice, 3)
	require.NoError(t, e.engine.DepositNative(160000))

	require.NoError(t, store.Save(e.engine.Snapshot()))
	require.NoError(t, store.Close())

	// Reopen and restore into a fresh engine.
	store2, err := OpenBoltStore(path)
	require.NoError(t, err)
	defer store2.Close()

	snap, err := store2.Load()
	require.NoError(t, err)

	e2 := newEnv(t)
	require.NoError(t, e2.engine.Restore(snap))

	owed, err := e2.engine.OwedToken(3, Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), owed)

	info, err := e2.engine.CurrencyInfo(Native)
	require.NoError(t, err)
	assert.Equal(t, uint64(160000), info.Deposited)
}

func TestMemStore_SaveLoad(t *testing.T) {
	store := NewMemStore()

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	e := newEnv(t)
	require.NoError(t, e.engine.DepositNative(160000))
	require.NoError(t, store.Save(e.engine.Snapshot()))

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(15), snap.Base.Accumulator)
}
