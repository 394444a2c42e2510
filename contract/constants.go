package contract

import "charcoin/sdk"

const (
	// MaxRewardTiers caps the tier table.
	MaxRewardTiers = 4
	// MaxTreasuryOwners caps the multisig owner set.
	MaxTreasuryOwners = 10
	// DefaultUnstakeCooldown is the wait between requesting and executing an unstake.
	DefaultUnstakeCooldown uint64 = 48 * 60 * 60

	perMille  uint64 = 1000
	bpsDenom  uint64 = 10000
	maxString        = 512

	// vault derivation tags
	stakingPoolTag = "staking_pool"
	treasuryTag    = "treasury"
)

// marketing split in basis points, death wallet last so it soaks up rounding dust
const (
	marketingWalletBps uint64 = 4250
	marketingBurnBps   uint64 = 1500
)

// combined release ratios (per mille of total, then of the donation ecosystem)
const (
	releaseStakingShare   uint64 = 150
	releaseEcosystemShare uint64 = 750
	ecosystemRewardsShare uint64 = 200
)

// defaultSplits builds the release tables a fresh config starts with.
func defaultSplits(w Wallets) (rewards, donations, staking []Split) {
	rewards = []Split{
		{To: w.MonthlyTopTier, Bps: 2500},
		{To: w.MonthlyCharityLottery, Bps: 2500},
		{To: w.AnnualTopTier, Bps: 2500},
		{To: w.AnnualCharityLottery, Bps: 2500},
	}
	donations = []Split{
		{To: w.MonthlyOneTimeCauses, Bps: 4000},
		{To: w.MonthlyInfiniteImpactCauses, Bps: 4000},
		{To: w.AnnualOneTimeCauses, Bps: 500},
		{To: w.AnnualInfiniteImpactCauses, Bps: 500},
		{To: w.CharFunds, Bps: 1000},
	}
	staking = []Split{
		{To: w.StakingReward, Bps: bpsDenom},
	}
	return rewards, donations, staking
}

func marketingSplits(w Wallets) []Split {
	return []Split{
		{To: w.MarketingWallet1, Bps: marketingWalletBps},
		{To: w.MarketingWallet2, Bps: marketingWalletBps},
		{To: w.DeathWallet, Bps: marketingBurnBps},
	}
}

// poolVault is where staked principal sits for a mint.
func poolVault(mint sdk.Asset) sdk.Address {
	return sdk.DeriveAddress(stakingPoolTag, mint.String())
}

// treasuryVault holds multisig controlled funds for a mint.
func treasuryVault(mint sdk.Asset) sdk.Address {
	return sdk.DeriveAddress(treasuryTag, mint.String())
}
