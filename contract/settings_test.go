package contract_test

import (
	"errors"
	"testing"
	"time"

	"charcoin/contract"
	"charcoin/sdk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Initialization
// =============================================================================

// TestInitializeOnce checks the config singleton, operator assignment and the zeroed counters.
func TestInitializeOnce(t *testing.T) {
	f := newFixture(t)
	cfg := f.config()

	assert.Equal(t, operator, cfg.Operator)
	assert.Equal(t, mintAsset, cfg.TokenMint)
	assert.False(t, cfg.Halted)
	assert.Equal(t, contract.DefaultUnstakeCooldown, cfg.UnstakeCooldown)
	assert.Zero(t, cfg.NextCharityID)
	assert.Zero(t, cfg.NextProposalID)
	assert.Zero(t, cfg.NextStakingID)
	assert.Len(t, cfg.RewardSplits, 4)
	assert.Len(t, cfg.DonationSplits, 5)

	_, err := f.eng.Initialize(f.ctx, env(alice, t0), contract.InitializeArgs{TokenMint: mintAsset, Wallets: f.wallets})
	assert.True(t, errors.Is(err, contract.ErrAlreadyInitialized))
	assert.Equal(t, operator, f.config().Operator)
}

// TestInitializeValidatesWallets checks every wallet must be a usable address.
func TestInitializeValidatesWallets(t *testing.T) {
	f := newBareFixture(t)
	w := testWallets()
	w.DeathWallet = "nope"
	_, err := f.eng.Initialize(f.ctx, env(operator, t0), contract.InitializeArgs{TokenMint: mintAsset, Wallets: w})
	requireKind(t, err, contract.KindInvalidArgument)
	assert.Contains(t, err.Error(), "deathWallet")

	_, err = f.eng.Initialize(f.ctx, env(operator, t0), contract.InitializeArgs{Wallets: testWallets()})
	requireKind(t, err, contract.KindInvalidArgument)

	_, err = f.eng.GetConfig(f.ctx)
	requireKind(t, err, contract.KindNotInitialized)
}

// TestOperationsBeforeInitialize checks everything reports NotInitialized on an empty store.
func TestOperationsBeforeInitialize(t *testing.T) {
	f := newBareFixture(t)
	_, err := f.eng.Stake(f.ctx, env(alice, t0), 10, 10)
	requireKind(t, err, contract.KindNotInitialized)
	err = f.eng.SetEmergencyState(f.ctx, env(operator, t0), true)
	requireKind(t, err, contract.KindNotInitialized)
	_, err = f.eng.SubmitProposal(f.ctx, env(alice, t0), "t", "", 10)
	requireKind(t, err, contract.KindNotInitialized)
}

// TestCustomCooldown checks the engine option lands in the config.
func TestCustomCooldown(t *testing.T) {
	f := newFixture(t, contract.WithUnstakeCooldown(90*time.Minute))
	assert.Equal(t, uint64(90*60), f.config().UnstakeCooldown)
}

// =============================================================================
// Operator settings
// =============================================================================

// TestOperatorOnly checks every operator call rejects other senders without side effects.
func TestOperatorOnly(t *testing.T) {
	f := newFixture(t)
	e := env(alice, t0)

	requireKind(t, f.eng.UpdateSettings(f.ctx, e, 1, 1), contract.KindAuthorization)
	requireKind(t, f.eng.SetEmergencyState(f.ctx, e, true), contract.KindAuthorization)
	requireKind(t, f.eng.UpdateUnstakePolicy(f.ctx, e, 10, true), contract.KindAuthorization)
	requireKind(t, f.eng.SetRewardTiers(f.ctx, e, testTiers()[:1]), contract.KindAuthorization)
	requireKind(t, f.eng.UpdateSplits(f.ctx, e, contract.SplitStaking, []contract.Split{{To: alice, Bps: 10000}}), contract.KindAuthorization)
	requireKind(t, f.eng.Mint(f.ctx, e, alice, 1), contract.KindAuthorization)
	_, err := f.eng.InitializeStakingPool(f.ctx, e)
	requireKind(t, err, contract.KindAuthorization)
	_, err = f.eng.InitializeTreasury(f.ctx, e, []sdk.Address{alice}, 1)
	requireKind(t, err, contract.KindAuthorization)

	cfg := f.config()
	assert.False(t, cfg.Halted)
	assert.Equal(t, minGovernanceStake, cfg.MinGovernanceStake)
	assert.Empty(t, f.events)
}

func TestUpdateSettings(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.eng.UpdateSettings(f.ctx, env(operator, t0), 5_000, uint64(7*day)))

	cfg := f.config()
	assert.Equal(t, sdk.Amount(5_000), cfg.MinGovernanceStake)
	assert.Equal(t, uint64(7*day), cfg.MinStakeDurationForVoting)

	ev, ok := f.lastEvent("ss")
	require.True(t, ok)
	assert.Equal(t, "5000", ev.Get("ms"))
}

// TestEmergencyStateToggles checks halting blocks the gated ops and unhalting restores them.
func TestEmergencyStateToggles(t *testing.T) {
	f := newFixture(t)
	f.mint(alice, 1_000)

	require.NoError(t, f.eng.SetEmergencyState(f.ctx, env(operator, t0), true))
	assert.True(t, f.config().Halted)

	_, err := f.eng.Stake(f.ctx, env(alice, t0), 1_000, uint64(30*day))
	assert.True(t, errors.Is(err, contract.ErrHalted))
	_, err = f.eng.SubmitProposal(f.ctx, env(alice, t0), "title", "", 10)
	assert.True(t, errors.Is(err, contract.ErrHalted))
	assert.Equal(t, sdk.Amount(1_000), f.balance(alice))

	// operator config stays reachable while halted
	require.NoError(t, f.eng.UpdateSettings(f.ctx, env(operator, t0), 1, 1))

	require.NoError(t, f.eng.SetEmergencyState(f.ctx, env(operator, t0), false))
	_, err = f.eng.Stake(f.ctx, env(alice, t0), 1_000, uint64(30*day))
	assert.NoError(t, err)
}

func TestUpdateUnstakePolicyBounds(t *testing.T) {
	f := newFixture(t)
	requireKind(t, f.eng.UpdateUnstakePolicy(f.ctx, env(operator, t0), 1001, false), contract.KindInvalidArgument)
	require.NoError(t, f.eng.UpdateUnstakePolicy(f.ctx, env(operator, t0), 1000, true))

	cfg := f.config()
	assert.Equal(t, uint64(1000), cfg.EarlyUnstakePenalty)
	assert.True(t, cfg.ForfeitUnclaimedReward)
}

// =============================================================================
// Reward tiers
// =============================================================================

// TestSetRewardTiersValidation checks bad tables are refused and leave the old table in place.
func TestSetRewardTiersValidation(t *testing.T) {
	f := newFixture(t)
	op := env(operator, t0)

	tooMany := append(testTiers(), contract.RewardTier{MinLockup: 1, Denominator: 1})
	requireKind(t, f.eng.SetRewardTiers(f.ctx, op, tooMany), contract.KindInvalidArgument)
	requireKind(t, f.eng.SetRewardTiers(f.ctx, op, nil), contract.KindInvalidArgument)

	dup := testTiers()
	dup[1].MinLockup = dup[0].MinLockup
	requireKind(t, f.eng.SetRewardTiers(f.ctx, op, dup), contract.KindInvalidArgument)

	zero := testTiers()
	zero[2].Denominator = 0
	requireKind(t, f.eng.SetRewardTiers(f.ctx, op, zero), contract.KindInvalidArgument)

	tiers, err := f.eng.GetRewardTiers(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, testTiers(), tiers)
}

// TestSetRewardTiersSortsAndReplaces checks the table is stored ascending and replaced whole.
func TestSetRewardTiersSortsAndReplaces(t *testing.T) {
	f := newFixture(t)
	next := []contract.RewardTier{
		{MinLockup: uint64(60 * day), RewardRate: 2, VotePower: 2, Denominator: 1},
		{MinLockup: uint64(7 * day), RewardRate: 1, VotePower: 1, Denominator: 1},
	}
	require.NoError(t, f.eng.SetRewardTiers(f.ctx, env(operator, t0), next))

	tiers, err := f.eng.GetRewardTiers(f.ctx)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, uint64(7*day), tiers[0].MinLockup)
	assert.Equal(t, uint64(60*day), tiers[1].MinLockup)
}

// =============================================================================
// Split tables
// =============================================================================

func TestUpdateSplitsValidation(t *testing.T) {
	f := newFixture(t)
	op := env(operator, t0)

	requireKind(t, f.eng.UpdateSplits(f.ctx, op, contract.SplitRewards, nil), contract.KindInvalidArgument)
	requireKind(t, f.eng.UpdateSplits(f.ctx, op, contract.SplitRewards, []contract.Split{
		{To: alice, Bps: 5000}, {To: bob, Bps: 4999},
	}), contract.KindInvalidArgument)
	requireKind(t, f.eng.UpdateSplits(f.ctx, op, contract.SplitRewards, []contract.Split{
		{To: "bogus", Bps: 10000},
	}), contract.KindInvalidArgument)
	requireKind(t, f.eng.UpdateSplits(f.ctx, op, contract.SplitKind(9), []contract.Split{
		{To: alice, Bps: 10000},
	}), contract.KindInvalidArgument)

	require.NoError(t, f.eng.UpdateSplits(f.ctx, op, contract.SplitStaking, []contract.Split{
		{To: alice, Bps: 7000}, {To: bob, Bps: 3000},
	}))
	cfg := f.config()
	assert.Equal(t, []contract.Split{{To: alice, Bps: 7000}, {To: bob, Bps: 3000}}, cfg.StakingSplits)
}

// TestPoolInitializedOnce checks the pool record and its derived vault.
func TestPoolInitializedOnce(t *testing.T) {
	f := newFixture(t)
	pool, err := f.eng.GetStakingPool(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, sdk.DeriveAddress("staking_pool", mintAsset.String()), pool.Vault)
	assert.Equal(t, sdk.AddressTypeKey, pool.Vault.Type())

	_, err = f.eng.InitializeStakingPool(f.ctx, env(operator, t0))
	requireKind(t, err, contract.KindAlreadyInitialized)
}
