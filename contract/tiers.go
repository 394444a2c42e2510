package contract

import (
	"sort"

	"github.com/samber/lo"
)

// loadTiers returns the tier table sorted by MinLockup, empty when never set.
func loadTiers(tx *Tx) ([]RewardTier, error) {
	tiers, _, err := loadObject(tx.state, rewardTiersKey(), DecodeRewardTiers)
	return tiers, err
}

// setRewardTiers replaces the whole table in one write, never partially.
func setRewardTiers(tx *Tx, tiers []RewardTier) error {
	if _, err := requireOperator(tx); err != nil {
		return err
	}
	if len(tiers) == 0 || len(tiers) > MaxRewardTiers {
		return fail(KindInvalidArgument, "need 1 to %d tiers, got %d", MaxRewardTiers, len(tiers))
	}
	for i, t := range tiers {
		if t.Denominator == 0 {
			return fail(KindInvalidArgument, "tier %d has a zero denominator", i)
		}
	}
	lockups := lo.Map(tiers, func(t RewardTier, _ int) uint64 { return t.MinLockup })
	if len(lo.Uniq(lockups)) != len(lockups) {
		return fail(KindInvalidArgument, "tier lockup thresholds must be distinct")
	}
	sorted := append([]RewardTier(nil), tiers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinLockup < sorted[j].MinLockup })
	if err := saveObject(tx.state, rewardTiersKey(), EncodeRewardTiers(sorted)); err != nil {
		return err
	}
	emitTiersEvent(tx, len(sorted))
	return nil
}

// selectTier picks the tier with the greatest MinLockup not above lockup.
func selectTier(tiers []RewardTier, lockup uint64) (RewardTier, error) {
	// tiers are stored ascending
	for i := len(tiers) - 1; i >= 0; i-- {
		if tiers[i].MinLockup <= lockup {
			return tiers[i], nil
		}
	}
	return RewardTier{}, fail(KindInvalidLockup, "no tier accepts a lockup of %d seconds", lockup)
}
