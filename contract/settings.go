package contract

import (
	"charcoin/sdk"
	"github.com/samber/lo"
)

// initialize creates the config singleton, the caller becomes operator.
func initialize(tx *Tx, args InitializeArgs, cooldown uint64) (*Config, error) {
	done, err := isInitialized(tx)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, fail(KindAlreadyInitialized, "config already initialized")
	}
	if !tx.Sender().IsValid() {
		return nil, fail(KindInvalidArgument, "operator address %q is invalid", tx.Sender())
	}
	if args.TokenMint == "" {
		return nil, fail(KindInvalidArgument, "token mint is required")
	}
	wallets := args.Wallets
	for _, n := range wallets.named() {
		if !n.addr.IsValid() {
			return nil, fail(KindInvalidArgument, "wallet %s has invalid address %q", n.name, *n.addr)
		}
	}
	cfg := &Config{
		Operator:                  tx.Sender(),
		TokenMint:                 args.TokenMint,
		Wallets:                   wallets,
		MinGovernanceStake:        args.MinGovernanceStake,
		MinStakeDurationForVoting: args.MinStakeDurationForVoting,
		UnstakeCooldown:           cooldown,
	}
	cfg.RewardSplits, cfg.DonationSplits, cfg.StakingSplits = defaultSplits(wallets)
	for _, key := range []string{CharitiesCount, ProposalsCount, StakesCount, WithdrawalsCount} {
		if err := setCount(tx.state, key, 0); err != nil {
			return nil, err
		}
	}
	if err := saveConfig(tx, cfg); err != nil {
		return nil, err
	}
	emitInitializedEvent(tx, cfg)
	return cfg, nil
}

// updateSettings moves the governance eligibility thresholds.
func updateSettings(tx *Tx, minStake sdk.Amount, minDuration uint64) error {
	cfg, err := requireOperator(tx)
	if err != nil {
		return err
	}
	cfg.MinGovernanceStake = minStake
	cfg.MinStakeDurationForVoting = minDuration
	if err := saveConfig(tx, cfg); err != nil {
		return err
	}
	emitSettingsEvent(tx, minStake, minDuration)
	return nil
}

// setEmergencyState flips the halt flag. Not halt gated itself, otherwise nobody could unhalt.
func setEmergencyState(tx *Tx, halted bool) error {
	cfg, err := requireOperator(tx)
	if err != nil {
		return err
	}
	cfg.Halted = halted
	if err := saveConfig(tx, cfg); err != nil {
		return err
	}
	emitHaltEvent(tx, halted)
	return nil
}

// updateUnstakePolicy sets the early unstake penalty (per mille) and the forfeit switch.
func updateUnstakePolicy(tx *Tx, penalty uint64, forfeit bool) error {
	cfg, err := requireOperator(tx)
	if err != nil {
		return err
	}
	if penalty > perMille {
		return fail(KindInvalidArgument, "penalty %d exceeds %d per mille", penalty, perMille)
	}
	cfg.EarlyUnstakePenalty = penalty
	cfg.ForfeitUnclaimedReward = forfeit
	if err := saveConfig(tx, cfg); err != nil {
		return err
	}
	emitUnstakePolicyEvent(tx, penalty, forfeit)
	return nil
}

// updateSplits replaces one release table. Shares are basis points and must add up to 100%.
func updateSplits(tx *Tx, kind SplitKind, splits []Split) error {
	cfg, err := requireOperator(tx)
	if err != nil {
		return err
	}
	if err := validateSplits(splits); err != nil {
		return err
	}
	cp := append([]Split(nil), splits...)
	switch kind {
	case SplitRewards:
		cfg.RewardSplits = cp
	case SplitDonations:
		cfg.DonationSplits = cp
	case SplitStaking:
		cfg.StakingSplits = cp
	default:
		return fail(KindInvalidArgument, "unknown split table %d", kind)
	}
	if err := saveConfig(tx, cfg); err != nil {
		return err
	}
	emitSplitsEvent(tx, kind, len(cp))
	return nil
}

func validateSplits(splits []Split) error {
	if len(splits) == 0 {
		return fail(KindInvalidArgument, "split table is empty")
	}
	for _, s := range splits {
		if !s.To.IsValid() {
			return fail(KindInvalidArgument, "split destination %q is invalid", s.To)
		}
	}
	// huge single shares could wrap the sum
	if lo.ContainsBy(splits, func(s Split) bool { return s.Bps > bpsDenom }) {
		return fail(KindInvalidArgument, "split share above %d bps", bpsDenom)
	}
	if sum := lo.SumBy(splits, func(s Split) uint64 { return s.Bps }); sum != bpsDenom {
		return fail(KindInvalidArgument, "split shares sum to %d bps, want %d", sum, bpsDenom)
	}
	return nil
}
