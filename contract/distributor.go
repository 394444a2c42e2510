package contract

import (
	"errors"

	"charcoin/sdk"
)

var errSplitOverrun = errors.New("split shares exceed total")

// -----------------------------------------------------------------------------
// Fixed ratio distributions
// -----------------------------------------------------------------------------

// splitAmount cuts total by basis points. The last destination takes whatever rounding left
// over, so the legs always add up to total exactly.
func splitAmount(total sdk.Amount, splits []Split) ([]Payout, error) {
	if len(splits) == 0 {
		return nil, fail(KindInvalidArgument, "no split destinations configured")
	}
	payouts := make([]Payout, len(splits))
	var used sdk.Amount
	for i, s := range splits {
		if i == len(splits)-1 {
			if used > total {
				return nil, internal("split", errSplitOverrun)
			}
			payouts[i] = Payout{To: s.To, Amount: total - used}
			break
		}
		share, ok := sdk.MulDiv(total, s.Bps, bpsDenom)
		if !ok {
			return nil, fail(KindInvalidArgument, "split share overflows")
		}
		payouts[i] = Payout{To: s.To, Amount: share}
		used += share
	}
	return payouts, nil
}

// payAll moves every leg from source inside the current tx.
func payAll(tx *Tx, from sdk.Address, payouts []Payout) error {
	for _, p := range payouts {
		if err := transfer(tx, from, p.To, p.Amount); err != nil {
			return err
		}
	}
	return nil
}

func treasuryAuthority(w *Wallets) sdk.Address { return w.TreasuryAuthority }

// distributeMarketingFunds sends 42.5% / 42.5% to the marketing wallets and the rest to the
// death wallet.
func distributeMarketingFunds(tx *Tx, total sdk.Amount) ([]Payout, error) {
	cfg, err := requireAuthority(tx, treasuryAuthority, "treasury authority")
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fail(KindInvalidArgument, "nothing to distribute")
	}
	payouts, err := splitAmount(total, marketingSplits(cfg.Wallets))
	if err != nil {
		return nil, err
	}
	if err := payAll(tx, cfg.Wallets.TreasuryAuthority, payouts); err != nil {
		return nil, err
	}
	emitDistributionEvent(tx, "md", total, payouts)
	return payouts, nil
}

// release splits total across one configured table.
func release(tx *Tx, kind SplitKind, total sdk.Amount) ([]Payout, error) {
	cfg, err := requireAuthority(tx, treasuryAuthority, "treasury authority")
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fail(KindInvalidArgument, "nothing to release")
	}
	payouts, err := splitAmount(total, cfg.splits(kind))
	if err != nil {
		return nil, err
	}
	if err := payAll(tx, cfg.Wallets.TreasuryAuthority, payouts); err != nil {
		return nil, err
	}
	emitDistributionEvent(tx, "r"+kind.String()[:1], total, payouts)
	return payouts, nil
}

// releaseFunds is the combined monthly release: 15% through the staking table, 75% into the
// donation ecosystem (a fifth of that through the rewards table, the rest through the donations
// table). The last 10% stays with the authority.
func releaseFunds(tx *Tx, total sdk.Amount) ([]Payout, error) {
	cfg, err := requireAuthority(tx, treasuryAuthority, "treasury authority")
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fail(KindInvalidArgument, "nothing to release")
	}
	stakingPart, ok1 := sdk.MulDiv(total, releaseStakingShare, perMille)
	ecosystem, ok2 := sdk.MulDiv(total, releaseEcosystemShare, perMille)
	rewardsPart, ok3 := sdk.MulDiv(ecosystem, ecosystemRewardsShare, perMille)
	if !ok1 || !ok2 || !ok3 {
		return nil, fail(KindInvalidArgument, "release shares overflow")
	}
	parts := []struct {
		kind   SplitKind
		amount sdk.Amount
	}{
		{SplitStaking, stakingPart},
		{SplitRewards, rewardsPart},
		{SplitDonations, ecosystem - rewardsPart},
	}
	var all []Payout
	for _, p := range parts {
		if p.amount == 0 {
			continue
		}
		payouts, err := splitAmount(p.amount, cfg.splits(p.kind))
		if err != nil {
			return nil, err
		}
		all = append(all, payouts...)
	}
	if err := payAll(tx, cfg.Wallets.TreasuryAuthority, all); err != nil {
		return nil, err
	}
	emitDistributionEvent(tx, "rf", total, all)
	return all, nil
}
