package contract

import (
	"context"

	"charcoin/sdk"
)

// -----------------------------------------------------------------------------
// Config
// -----------------------------------------------------------------------------

// Initialize creates the config, env.Sender becomes the operator.
func (e *Engine) Initialize(ctx context.Context, env sdk.Env, args InitializeArgs) (*Config, error) {
	return run(ctx, e, "initialize", env, func(tx *Tx) (*Config, error) {
		return initialize(tx, args, e.cooldown)
	})
}

func (e *Engine) UpdateSettings(ctx context.Context, env sdk.Env, minStake sdk.Amount, minDuration uint64) error {
	return e.exec(ctx, "settings_update", env, func(tx *Tx) error {
		return updateSettings(tx, minStake, minDuration)
	})
}

// SetEmergencyState halts or resumes everything that is halt gated.
func (e *Engine) SetEmergencyState(ctx context.Context, env sdk.Env, halted bool) error {
	return e.exec(ctx, "emergency_set", env, func(tx *Tx) error {
		return setEmergencyState(tx, halted)
	})
}

func (e *Engine) UpdateUnstakePolicy(ctx context.Context, env sdk.Env, penaltyPerMille uint64, forfeit bool) error {
	return e.exec(ctx, "unstake_policy_update", env, func(tx *Tx) error {
		return updateUnstakePolicy(tx, penaltyPerMille, forfeit)
	})
}

func (e *Engine) UpdateSplits(ctx context.Context, env sdk.Env, kind SplitKind, splits []Split) error {
	return e.exec(ctx, "splits_update", env, func(tx *Tx) error {
		return updateSplits(tx, kind, splits)
	})
}

// -----------------------------------------------------------------------------
// Staking
// -----------------------------------------------------------------------------

func (e *Engine) SetRewardTiers(ctx context.Context, env sdk.Env, tiers []RewardTier) error {
	return e.exec(ctx, "tiers_set", env, func(tx *Tx) error {
		return setRewardTiers(tx, tiers)
	})
}

func (e *Engine) InitializeStakingPool(ctx context.Context, env sdk.Env) (*StakingPool, error) {
	return run(ctx, e, "pool_init", env, initStakingPool)
}

// Stake locks amount of the sender for lockup seconds.
func (e *Engine) Stake(ctx context.Context, env sdk.Env, amount sdk.Amount, lockup uint64) (*StakeEntry, error) {
	return run(ctx, e, "stake", env, func(tx *Tx) (*StakeEntry, error) {
		return stake(tx, amount, lockup)
	})
}

func (e *Engine) RequestUnstake(ctx context.Context, env sdk.Env, id uint64) (*StakeEntry, error) {
	return run(ctx, e, "unstake_request", env, func(tx *Tx) (*StakeEntry, error) {
		return requestUnstake(tx, id)
	})
}

// UnstakeResult is the closed entry plus what actually went back to the owner.
type UnstakeResult struct {
	Entry    *StakeEntry
	Returned sdk.Amount
}

func (e *Engine) Unstake(ctx context.Context, env sdk.Env, id uint64) (UnstakeResult, error) {
	return run(ctx, e, "unstake", env, func(tx *Tx) (UnstakeResult, error) {
		entry, returned, err := unstake(tx, id)
		return UnstakeResult{Entry: entry, Returned: returned}, err
	})
}

func (e *Engine) ClaimReward(ctx context.Context, env sdk.Env, id uint64) (*StakeEntry, error) {
	return run(ctx, e, "reward_claim", env, func(tx *Tx) (*StakeEntry, error) {
		return claimReward(tx, id)
	})
}

// -----------------------------------------------------------------------------
// Governance
// -----------------------------------------------------------------------------

func (e *Engine) RegisterCharity(ctx context.Context, env sdk.Env, args RegisterCharityArgs) (*Charity, error) {
	return run(ctx, e, "charity_register", env, func(tx *Tx) (*Charity, error) {
		return registerCharity(tx, args)
	})
}

// CastCharityVote adds weight to the tally, 0 votes with everything the sender has.
func (e *Engine) CastCharityVote(ctx context.Context, env sdk.Env, id uint64, weight sdk.Amount) (*VoteRecord, error) {
	return run(ctx, e, "charity_vote", env, func(tx *Tx) (*VoteRecord, error) {
		_, rec, err := castCharityVote(tx, id, weight)
		return rec, err
	})
}

func (e *Engine) FinalizeCharity(ctx context.Context, env sdk.Env, id uint64) (*Charity, error) {
	return run(ctx, e, "charity_finalize", env, func(tx *Tx) (*Charity, error) {
		return finalizeCharity(tx, id)
	})
}

func (e *Engine) SubmitProposal(ctx context.Context, env sdk.Env, title, description string, duration uint64) (*Proposal, error) {
	return run(ctx, e, "proposal_create", env, func(tx *Tx) (*Proposal, error) {
		return submitProposal(tx, title, description, duration)
	})
}

func (e *Engine) VoteOnProposal(ctx context.Context, env sdk.Env, id uint64, yes bool) (*VoteRecord, error) {
	return run(ctx, e, "proposal_vote", env, func(tx *Tx) (*VoteRecord, error) {
		_, rec, err := voteOnProposal(tx, id, yes)
		return rec, err
	})
}

func (e *Engine) FinalizeProposal(ctx context.Context, env sdk.Env, id uint64) (*Proposal, error) {
	return run(ctx, e, "proposal_finalize", env, func(tx *Tx) (*Proposal, error) {
		return finalizeProposal(tx, id)
	})
}

// -----------------------------------------------------------------------------
// Treasury
// -----------------------------------------------------------------------------

func (e *Engine) InitializeTreasury(ctx context.Context, env sdk.Env, owners []sdk.Address, threshold uint64) (*Treasury, error) {
	return run(ctx, e, "treasury_init", env, func(tx *Tx) (*Treasury, error) {
		return initTreasury(tx, owners, threshold)
	})
}

func (e *Engine) CreateWithdrawal(ctx context.Context, env sdk.Env, amount sdk.Amount, recipient sdk.Address) (*WithdrawalRequest, error) {
	return run(ctx, e, "withdrawal_create", env, func(tx *Tx) (*WithdrawalRequest, error) {
		return createWithdrawal(tx, amount, recipient)
	})
}

func (e *Engine) ApproveWithdrawal(ctx context.Context, env sdk.Env, id uint64) (*WithdrawalRequest, error) {
	return run(ctx, e, "withdrawal_approve", env, func(tx *Tx) (*WithdrawalRequest, error) {
		return approveWithdrawal(tx, id)
	})
}

func (e *Engine) ExecuteWithdrawal(ctx context.Context, env sdk.Env, id uint64) (*WithdrawalRequest, error) {
	return run(ctx, e, "withdrawal_execute", env, func(tx *Tx) (*WithdrawalRequest, error) {
		return executeWithdrawal(tx, id)
	})
}

// -----------------------------------------------------------------------------
// Distribution and burn
// -----------------------------------------------------------------------------

func (e *Engine) DistributeMarketingFunds(ctx context.Context, env sdk.Env, total sdk.Amount) ([]Payout, error) {
	return run(ctx, e, "marketing_distribute", env, func(tx *Tx) ([]Payout, error) {
		return distributeMarketingFunds(tx, total)
	})
}

func (e *Engine) ReleaseRewards(ctx context.Context, env sdk.Env, total sdk.Amount) ([]Payout, error) {
	return e.release(ctx, "release_rewards", env, SplitRewards, total)
}

func (e *Engine) ReleaseDonations(ctx context.Context, env sdk.Env, total sdk.Amount) ([]Payout, error) {
	return e.release(ctx, "release_donations", env, SplitDonations, total)
}

func (e *Engine) ReleaseStakingFunds(ctx context.Context, env sdk.Env, total sdk.Amount) ([]Payout, error) {
	return e.release(ctx, "release_staking", env, SplitStaking, total)
}

func (e *Engine) release(ctx context.Context, op string, env sdk.Env, kind SplitKind, total sdk.Amount) ([]Payout, error) {
	return run(ctx, e, op, env, func(tx *Tx) ([]Payout, error) {
		return release(tx, kind, total)
	})
}

// ReleaseFunds runs the combined monthly release across all three tables.
func (e *Engine) ReleaseFunds(ctx context.Context, env sdk.Env, total sdk.Amount) ([]Payout, error) {
	return run(ctx, e, "release_funds", env, func(tx *Tx) ([]Payout, error) {
		return releaseFunds(tx, total)
	})
}

// BuybackAndBurn burns from the death wallet and returns the new burned total.
func (e *Engine) BuybackAndBurn(ctx context.Context, env sdk.Env, amount sdk.Amount, minInterval uint64) (sdk.Amount, error) {
	total, err := run(ctx, e, "buyback_burn", env, func(tx *Tx) (sdk.Amount, error) {
		return buybackAndBurn(tx, amount, minInterval)
	})
	if err == nil {
		e.metrics.addBurned(uint64(amount))
	}
	return total, err
}

func (e *Engine) Mint(ctx context.Context, env sdk.Env, to sdk.Address, amount sdk.Amount) error {
	return e.exec(ctx, "mint", env, func(tx *Tx) error {
		return mint(tx, to, amount)
	})
}

// -----------------------------------------------------------------------------
// Queries
// -----------------------------------------------------------------------------

func (e *Engine) GetConfig(ctx context.Context) (*Config, error) {
	return query(ctx, e, "config_get", 0, loadConfig)
}

func (e *Engine) GetRewardTiers(ctx context.Context) ([]RewardTier, error) {
	return query(ctx, e, "tiers_get", 0, loadTiers)
}

func (e *Engine) GetStakingPool(ctx context.Context) (*StakingPool, error) {
	return query(ctx, e, "pool_get", 0, func(tx *Tx) (*StakingPool, error) {
		cfg, err := loadConfig(tx)
		if err != nil {
			return nil, err
		}
		return loadPool(tx, cfg.TokenMint)
	})
}

func (e *Engine) GetStakeEntry(ctx context.Context, owner sdk.Address, id uint64) (*StakeEntry, error) {
	return query(ctx, e, "stake_entry_get", 0, func(tx *Tx) (*StakeEntry, error) {
		return loadEntry(tx, owner, id)
	})
}

func (e *Engine) GetUserStake(ctx context.Context, owner sdk.Address) (*UserStake, error) {
	return query(ctx, e, "user_stake_get", 0, func(tx *Tx) (*UserStake, error) {
		return loadUserStake(tx, owner)
	})
}

// VotePower is what owner could vote with at time now, or the Eligibility error explaining why not.
func (e *Engine) VotePower(ctx context.Context, owner sdk.Address, now int64) (sdk.Amount, error) {
	return query(ctx, e, "vote_power", now, func(tx *Tx) (sdk.Amount, error) {
		cfg, err := loadConfig(tx)
		if err != nil {
			return 0, err
		}
		return votingPower(tx, cfg, owner)
	})
}

func (e *Engine) GetCharity(ctx context.Context, id uint64) (*Charity, error) {
	return query(ctx, e, "charity_get", 0, func(tx *Tx) (*Charity, error) {
		return charities.load(tx, id)
	})
}

func (e *Engine) GetProposal(ctx context.Context, id uint64) (*Proposal, error) {
	return query(ctx, e, "proposal_get", 0, func(tx *Tx) (*Proposal, error) {
		return proposals.load(tx, id)
	})
}

// GetVoteRecord returns NotFound when voter never voted on that ballot.
func (e *Engine) GetVoteRecord(ctx context.Context, kind BallotKind, id uint64, voter sdk.Address) (*VoteRecord, error) {
	return query(ctx, e, "vote_record_get", 0, func(tx *Tx) (*VoteRecord, error) {
		rec, found, err := loadVote(tx, kind, id, voter)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fail(KindNotFound, "%s has no vote on %s %d", voter, kind, id)
		}
		return rec, nil
	})
}

func (e *Engine) GetTreasury(ctx context.Context) (*Treasury, error) {
	return query(ctx, e, "treasury_get", 0, loadTreasury)
}

func (e *Engine) GetWithdrawal(ctx context.Context, id uint64) (*WithdrawalRequest, error) {
	return query(ctx, e, "withdrawal_get", 0, func(tx *Tx) (*WithdrawalRequest, error) {
		return loadWithdrawal(tx, id)
	})
}

func (e *Engine) BalanceOf(ctx context.Context, addr sdk.Address) (sdk.Amount, error) {
	return query(ctx, e, "balance_of", 0, func(tx *Tx) (sdk.Amount, error) {
		return balanceOf(tx, addr)
	})
}
