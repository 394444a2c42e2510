package contract_test

import (
	"context"
	"testing"

	"charcoin/contract"
	"charcoin/sdk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	t0   int64 = 1_700_000_000
	hour int64 = 60 * 60
	day  int64 = 24 * hour

	mintAsset sdk.Asset   = "CHAR"
	operator  sdk.Address = "hive:operator"
	alice     sdk.Address = "hive:alice"
	bob       sdk.Address = "hive:bob"
	carol     sdk.Address = "hive:carol"

	minGovernanceStake sdk.Amount = 1_000
)

// testWallets gives every configured wallet its own readable hive account.
func testWallets() contract.Wallets {
	return contract.Wallets{
		MonthlyTopTier:              "hive:monthly-top-tier",
		AnnualTopTier:               "hive:annual-top-tier",
		MonthlyCharityLottery:       "hive:monthly-lottery",
		AnnualCharityLottery:        "hive:annual-lottery",
		MonthlyOneTimeCauses:        "hive:monthly-one-time",
		AnnualOneTimeCauses:         "hive:annual-one-time",
		MonthlyInfiniteImpactCauses: "hive:monthly-infinite",
		AnnualInfiniteImpactCauses:  "hive:annual-infinite",
		CharFunds:                   "hive:char-funds",
		MarketingWallet1:            "hive:marketing-1",
		MarketingWallet2:            "hive:marketing-2",
		DeathWallet:                 "hive:death",
		TreasuryAuthority:           "hive:treasury-authority",
		StakingReward:               "hive:staking-reward",
	}
}

// testTiers: 30d 5%/1x, 90d 15%/1.5x, 180d 40%/2x, 365d 100%/3x
func testTiers() []contract.RewardTier {
	return []contract.RewardTier{
		{MinLockup: uint64(30 * day), RewardRate: 50, VotePower: 1000, Denominator: 1000},
		{MinLockup: uint64(90 * day), RewardRate: 150, VotePower: 1500, Denominator: 1000},
		{MinLockup: uint64(180 * day), RewardRate: 400, VotePower: 2000, Denominator: 1000},
		{MinLockup: uint64(365 * day), RewardRate: 1000, VotePower: 3000, Denominator: 1000},
	}
}

type fixture struct {
	t       *testing.T
	ctx     context.Context
	eng     *contract.Engine
	wallets contract.Wallets
	events  []contract.Event
}

// newBareFixture builds an engine over a fresh memory store without initializing anything.
func newBareFixture(t *testing.T, opts ...contract.Option) *fixture {
	t.Helper()
	f := &fixture{t: t, ctx: context.Background(), wallets: testWallets()}
	all := append([]contract.Option{
		contract.WithEventSink(contract.EventSinkFunc(func(ev contract.Event) {
			f.events = append(f.events, ev)
		})),
	}, opts...)
	f.eng = contract.NewEngine(contract.NewMemoryBackend(), all...)
	t.Cleanup(func() { _ = f.eng.Close() })
	return f
}

// newFixture returns an initialized system with tiers and the staking pool in place.
func newFixture(t *testing.T, opts ...contract.Option) *fixture {
	t.Helper()
	f := newBareFixture(t, opts...)
	_, err := f.eng.Initialize(f.ctx, env(operator, t0), contract.InitializeArgs{
		TokenMint:                 mintAsset,
		Wallets:                   f.wallets,
		MinGovernanceStake:        minGovernanceStake,
		MinStakeDurationForVoting: uint64(day),
	})
	require.NoError(t, err)
	require.NoError(t, f.eng.SetRewardTiers(f.ctx, env(operator, t0), testTiers()))
	_, err = f.eng.InitializeStakingPool(f.ctx, env(operator, t0))
	require.NoError(t, err)
	f.events = nil
	return f
}

func env(sender sdk.Address, ts int64) sdk.Env {
	return sdk.NewEnv(sender, ts)
}

func (f *fixture) mint(to sdk.Address, amount sdk.Amount) {
	f.t.Helper()
	require.NoError(f.t, f.eng.Mint(f.ctx, env(operator, t0), to, amount))
}

func (f *fixture) balance(addr sdk.Address) sdk.Amount {
	f.t.Helper()
	bal, err := f.eng.BalanceOf(f.ctx, addr)
	require.NoError(f.t, err)
	return bal
}

func (f *fixture) vault() sdk.Address {
	f.t.Helper()
	pool, err := f.eng.GetStakingPool(f.ctx)
	require.NoError(f.t, err)
	return pool.Vault
}

func (f *fixture) config() *contract.Config {
	f.t.Helper()
	cfg, err := f.eng.GetConfig(f.ctx)
	require.NoError(f.t, err)
	return cfg
}

// stake funds owner and stakes the same amount at ts.
func (f *fixture) stake(owner sdk.Address, amount sdk.Amount, lockup int64, ts int64) *contract.StakeEntry {
	f.t.Helper()
	f.mint(owner, amount)
	entry, err := f.eng.Stake(f.ctx, env(owner, ts), amount, uint64(lockup))
	require.NoError(f.t, err)
	return entry
}

func (f *fixture) userStake(owner sdk.Address) *contract.UserStake {
	f.t.Helper()
	u, err := f.eng.GetUserStake(f.ctx, owner)
	require.NoError(f.t, err)
	return u
}

// lastEvent returns the newest published event of the given type.
func (f *fixture) lastEvent(typ string) (contract.Event, bool) {
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].Type == typ {
			return f.events[i], true
		}
	}
	return contract.Event{}, false
}

// requireKind asserts err carries the given kind.
func requireKind(t *testing.T, err error, kind contract.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, contract.KindOf(err), err.Error())
}
