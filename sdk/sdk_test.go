package sdk_test

import (
	"errors"
	"math"
	"testing"

	"charcoin/sdk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddressTypes checks the prefix and base58 detection.
func TestAddressTypes(t *testing.T) {
	assert.Equal(t, sdk.AddressTypeHive, sdk.Address("hive:alice").Type())
	assert.Equal(t, sdk.AddressTypeEVM, sdk.Address("did:pkh:eip155:1:0xabc").Type())
	assert.Equal(t, sdk.AddressTypeSystem, sdk.Address("system:burn").Type())
	assert.Equal(t, sdk.AddressTypeUnknown, sdk.Address("alice").Type())
	assert.False(t, sdk.Address("").IsValid())
	assert.True(t, sdk.DeriveAddress("treasury", "CHAR").IsValid())
}

// TestDeriveAddressIsStable checks same seeds give the same key and different seeds dont collide.
func TestDeriveAddressIsStable(t *testing.T) {
	a := sdk.DeriveAddress("staking_pool", "CHAR")
	b := sdk.DeriveAddress("staking_pool", "CHAR")
	c := sdk.DeriveAddress("treasury", "CHAR")
	d := sdk.DeriveAddress("staking_poolC", "HAR")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Equal(t, sdk.AddressTypeKey, a.Type())
}

// TestMulDiv checks scaling with wide intermediates and the failure cases.
func TestMulDiv(t *testing.T) {
	v, ok := sdk.MulDiv(10_000_000, 425, 1000)
	require.True(t, ok)
	assert.Equal(t, sdk.Amount(4_250_000), v)

	// would overflow a plain uint64 multiplication
	v, ok = sdk.MulDiv(sdk.Amount(math.MaxUint64), 3000, 3000)
	require.True(t, ok)
	assert.Equal(t, sdk.Amount(math.MaxUint64), v)

	_, ok = sdk.MulDiv(sdk.Amount(math.MaxUint64), 2, 1)
	assert.False(t, ok)
	_, ok = sdk.MulDiv(1, 1, 0)
	assert.False(t, ok)
}

// TestMemoryLedger checks transfer, mint and burn bookkeeping.
func TestMemoryLedger(t *testing.T) {
	l := sdk.NewMemoryLedger()
	require.NoError(t, l.Mint("hive:alice", 100))
	require.NoError(t, l.Transfer("hive:alice", "hive:bob", 40))

	bal, _ := l.BalanceOf("hive:alice")
	assert.Equal(t, sdk.Amount(60), bal)
	bal, _ = l.BalanceOf("hive:bob")
	assert.Equal(t, sdk.Amount(40), bal)

	err := l.Transfer("hive:bob", "hive:alice", 41)
	assert.True(t, errors.Is(err, sdk.ErrInsufficientBalance))

	require.NoError(t, l.Burn("hive:bob", 40))
	assert.Equal(t, sdk.Amount(60), l.Supply())
	assert.ErrorIs(t, l.Burn("hive:bob", 1), sdk.ErrInsufficientBalance)
	assert.ErrorIs(t, l.Mint("hive:bob", 0), sdk.ErrInvalidAmount)
}
