package contract_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"charcoin/contract"
	"charcoin/sdk"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// =============================================================================
// Events
// =============================================================================

// TestEventsPublishedOnlyOnCommit checks rejected operations publish nothing.
func TestEventsPublishedOnlyOnCommit(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.Stake(f.ctx, env(alice, t0), 1_000, uint64(30*day))
	requireKind(t, err, contract.KindInsufficientBalance)
	assert.Empty(t, f.events)

	f.mint(alice, 1_000)
	e := env(alice, t0+5)
	e.TxID = "tx-stake-1"
	_, err = f.eng.Stake(f.ctx, e, 1_000, uint64(30*day))
	require.NoError(t, err)

	require.Len(t, f.events, 2)
	assert.Equal(t, "mt", f.events[0].Type)
	assert.NotEmpty(t, f.events[0].TxID)
	ev := f.events[1]
	assert.Equal(t, "st|o:hive:alice|id:0|a:1000|l:2592000|vp:1000", ev.String())
	assert.Equal(t, "tx-stake-1", ev.TxID)
	assert.Equal(t, t0+5, ev.Timestamp)
}

func TestEventJSON(t *testing.T) {
	f := newFixture(t)
	f.mint(alice, 5)

	data, err := json.Marshal(f.events[0])
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, `{"type":"mt","tx":"`), out)
	assert.Contains(t, out, `"fields":{"to":"hive:alice","a":"5"}`)
}

// TestDefaultSinkLogsEvents checks events go to the zap logger when no sink is configured, and
// rejections are logged with their kind.
func TestDefaultSinkLogsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	eng := contract.NewEngine(contract.NewMemoryBackend(), contract.WithLogger(zap.New(core)))
	ctx := context.Background()

	_, err := eng.Initialize(ctx, env(operator, t0), contract.InitializeArgs{TokenMint: mintAsset, Wallets: testWallets()})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("in|by:hive:operator|mint:CHAR").Len())

	err = eng.SetEmergencyState(ctx, env(alice, t0), true)
	require.Error(t, err)
	rejected := logs.FilterMessage("operation rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "emergency_set", rejected[0].ContextMap()["op"])
	assert.Equal(t, "authorization", rejected[0].ContextMap()["kind"])
}

// =============================================================================
// Errors and context
// =============================================================================

func TestErrorsCarryOpAndKind(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.ClaimReward(f.ctx, env(alice, t0), 3)

	var cerr *contract.Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "reward_claim", cerr.Op)
	assert.Equal(t, contract.KindNotFound, cerr.Kind)
	assert.True(t, errors.Is(err, contract.ErrNotFound))
	assert.False(t, errors.Is(err, contract.ErrHalted))
	assert.True(t, strings.HasPrefix(err.Error(), "reward_claim: not_found"))
}

// TestQueryErrorsCarryOp checks read paths name themselves in errors too.
func TestQueryErrorsCarryOp(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.GetCharity(f.ctx, 7)
	var cerr *contract.Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "charity_get", cerr.Op)
	assert.Equal(t, contract.KindNotFound, cerr.Kind)
	assert.True(t, strings.HasPrefix(err.Error(), "charity_get: not_found"))

	_, err = f.eng.GetVoteRecord(f.ctx, contract.BallotProposal, 0, alice)
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "vote_record_get", cerr.Op)

	bare := newBareFixture(t)
	_, err = bare.eng.GetConfig(bare.ctx)
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "config_get", cerr.Op)
	assert.True(t, errors.Is(err, contract.ErrNotInitialized))
}

func TestCancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.eng.Mint(ctx, env(operator, t0), alice, 10)
	requireKind(t, err, contract.KindInternal)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, f.balance(alice))
}

// =============================================================================
// Metrics
// =============================================================================

func TestMetricsCountOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := contract.NewMetrics(reg, "test")
	require.NoError(t, err)
	// registering again reuses the collectors
	_, err = contract.NewMetrics(reg, "test")
	require.NoError(t, err)

	f := newFixture(t, contract.WithMetrics(m))
	f.mint(alice, 100)
	_, err = f.eng.Stake(f.ctx, env(alice, t0), 100, uint64(30*day))
	require.NoError(t, err)
	_, err = f.eng.Stake(f.ctx, env(alice, t0), 100, uint64(30*day))
	requireKind(t, err, contract.KindInsufficientBalance)

	expected := `
# HELP test_operations_total Operations executed, by op and result kind.
# TYPE test_operations_total counter
test_operations_total{op="initialize",result="ok"} 1
test_operations_total{op="mint",result="ok"} 1
test_operations_total{op="pool_init",result="ok"} 1
test_operations_total{op="stake",result="insufficient_balance"} 1
test_operations_total{op="stake",result="ok"} 1
test_operations_total{op="tiers_set",result="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_operations_total"))
	n, err := testutil.GatherAndCount(reg, "test_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestMetricsCountBurned(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := contract.NewMetrics(reg, "test")
	require.NoError(t, err)
	f := newFixture(t, contract.WithMetrics(m))
	f.mint(f.wallets.DeathWallet, 500)

	_, err = f.eng.BuybackAndBurn(f.ctx, env(f.wallets.DeathWallet, t0), 120, 0)
	require.NoError(t, err)
	_, err = f.eng.BuybackAndBurn(f.ctx, env(f.wallets.DeathWallet, t0), 1_000, 0)
	require.Error(t, err)

	expected := `
# HELP test_burned_total Token units burned through buyback and burn.
# TYPE test_burned_total counter
test_burned_total 120
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_burned_total"))
}

// =============================================================================
// External ledger
// =============================================================================

// TestExternalLedgerMoves checks operations move value through a plugged-in ledger.
func TestExternalLedgerMoves(t *testing.T) {
	ledger := sdk.NewMemoryLedger()
	f := newFixture(t, contract.WithLedger(ledger))

	f.stake(alice, 1_000, 30*day, t0)
	bal, err := ledger.BalanceOf(f.vault())
	require.NoError(t, err)
	assert.Equal(t, sdk.Amount(1_000), bal)
	assert.Equal(t, sdk.Amount(1_000), ledger.Supply())
}

// TestExternalLedgerCompensation checks legs already applied are handed back when a later leg fails.
func TestExternalLedgerCompensation(t *testing.T) {
	ledger := sdk.NewMemoryLedger()
	f := newFixture(t, contract.WithLedger(ledger))
	w := f.wallets
	f.mint(w.TreasuryAuthority, 2_000)

	_, err := f.eng.ReleaseFunds(f.ctx, env(w.TreasuryAuthority, t0), 10_000)
	requireKind(t, err, contract.KindInsufficientBalance)

	for addr, want := range map[sdk.Address]sdk.Amount{
		w.TreasuryAuthority: 2_000,
		w.StakingReward:     0,
		w.MonthlyTopTier:    0,
	} {
		got, err := ledger.BalanceOf(addr)
		require.NoError(t, err)
		assert.Equal(t, want, got, addr.String())
	}
	assert.Equal(t, sdk.Amount(2_000), ledger.Supply())
}

// TestExternalLedgerBurnSucceeds checks burns shrink the external supply.
func TestExternalLedgerBurnSucceeds(t *testing.T) {
	ledger := sdk.NewMemoryLedger()
	f := newFixture(t, contract.WithLedger(ledger))
	f.mint(f.wallets.DeathWallet, 300)

	_, err := f.eng.BuybackAndBurn(f.ctx, env(f.wallets.DeathWallet, t0), 100, 0)
	require.NoError(t, err)
	assert.Equal(t, sdk.Amount(200), ledger.Supply())
}

// =============================================================================
// Persistence
// =============================================================================

// TestMemorySnapshotReload checks a snapshot file brings the whole state back.
func TestMemorySnapshotReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "state.bin")
	ctx := context.Background()

	backend, err := contract.OpenMemoryBackend(file)
	require.NoError(t, err)
	eng := contract.NewEngine(backend)
	_, err = eng.Initialize(ctx, env(operator, t0), contract.InitializeArgs{TokenMint: mintAsset, Wallets: testWallets()})
	require.NoError(t, err)
	require.NoError(t, eng.Mint(ctx, env(operator, t0), alice, 42))
	require.NoError(t, eng.Close())

	backend, err = contract.OpenMemoryBackend(file)
	require.NoError(t, err)
	eng = contract.NewEngine(backend)
	cfg, err := eng.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, operator, cfg.Operator)
	bal, err := eng.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, sdk.Amount(42), bal)
}

// TestBadgerBackend runs a short lifecycle on disk and reopens it.
func TestBadgerBackend(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend, err := contract.OpenBadger(dir, nil)
	require.NoError(t, err)
	eng := contract.NewEngine(backend)
	_, err = eng.Initialize(ctx, env(operator, t0), contract.InitializeArgs{TokenMint: mintAsset, Wallets: testWallets()})
	require.NoError(t, err)
	require.NoError(t, eng.SetRewardTiers(ctx, env(operator, t0), testTiers()))
	_, err = eng.InitializeStakingPool(ctx, env(operator, t0))
	require.NoError(t, err)
	require.NoError(t, eng.Mint(ctx, env(operator, t0), alice, 1_000))
	_, err = eng.Stake(ctx, env(alice, t0), 600, uint64(30*day))
	require.NoError(t, err)
	_, err = eng.Stake(ctx, env(alice, t0), 600, uint64(30*day))
	requireKind(t, err, contract.KindInsufficientBalance)
	require.NoError(t, eng.Close())

	backend, err = contract.OpenBadger(dir, zap.NewNop())
	require.NoError(t, err)
	eng = contract.NewEngine(backend)
	defer eng.Close()

	u, err := eng.GetUserStake(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, sdk.Amount(600), u.TotalAmount)
	bal, err := eng.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, sdk.Amount(400), bal)
	cfg, err := eng.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.NextStakingID)
}
