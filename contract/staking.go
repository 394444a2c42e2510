package contract

import "charcoin/sdk"

// initStakingPool creates the pool record for the configured mint, once.
func initStakingPool(tx *Tx) (*StakingPool, error) {
	cfg, err := requireOperator(tx)
	if err != nil {
		return nil, err
	}
	_, found, err := loadObject(tx.state, stakingPoolKey(cfg.TokenMint), DecodeStakingPool)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, fail(KindAlreadyInitialized, "staking pool for %s already exists", cfg.TokenMint)
	}
	pool := &StakingPool{
		TokenMint: cfg.TokenMint,
		Vault:     poolVault(cfg.TokenMint),
		CreatedAt: tx.Now(),
	}
	if err := savePool(tx, pool); err != nil {
		return nil, err
	}
	emitPoolEvent(tx, pool)
	return pool, nil
}

// entryVotePower is amount * tier power / denominator from the tier snapshot.
func entryVotePower(e *StakeEntry) (sdk.Amount, error) {
	vp, ok := sdk.MulDiv(e.Amount, e.Tier.VotePower, e.Tier.Denominator)
	if !ok {
		return 0, fail(KindInvalidArgument, "vote power of entry %d overflows", e.ID)
	}
	return vp, nil
}

// refreshEligibility starts the voting clock when the owner crosses the governance minimum and
// stops it when they drop below.
func refreshEligibility(u *UserStake, cfg *Config, now int64) {
	if u.ActiveEntries == 0 || u.TotalAmount < cfg.MinGovernanceStake {
		u.EligibleAt = 0
		return
	}
	if u.EligibleAt == 0 {
		u.EligibleAt = now
	}
}

// stake moves amount into the pool vault and opens a new entry under the matching tier.
func stake(tx *Tx, amount sdk.Amount, lockup uint64) (*StakeEntry, error) {
	cfg, err := requireLive(tx)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, fail(KindInvalidArgument, "stake amount must be positive")
	}
	pool, err := loadPool(tx, cfg.TokenMint)
	if err != nil {
		return nil, err
	}
	tiers, err := loadTiers(tx)
	if err != nil {
		return nil, err
	}
	tier, err := selectTier(tiers, lockup)
	if err != nil {
		return nil, err
	}
	owner := tx.Sender()
	entry := &StakeEntry{
		Owner:     owner,
		Amount:    amount,
		Lockup:    lockup,
		Tier:      tier,
		CreatedAt: tx.Now(),
	}
	vp, err := entryVotePower(entry)
	if err != nil {
		return nil, err
	}
	u, err := loadUserStake(tx, owner)
	if err != nil {
		return nil, err
	}
	total, ok1 := sdk.AddAmount(u.TotalAmount, amount)
	power, ok2 := sdk.AddAmount(u.TotalVotePower, vp)
	poolTotal, ok3 := sdk.AddAmount(pool.TotalStaked, amount)
	if !ok1 || !ok2 || !ok3 {
		return nil, fail(KindInvalidArgument, "stake totals would overflow")
	}

	if err := transfer(tx, owner, pool.Vault, amount); err != nil {
		return nil, err
	}

	globalID, err := nextID(tx.state, StakesCount)
	if err != nil {
		return nil, err
	}
	cfg.NextStakingID = globalID + 1
	entry.ID = u.NextSeq
	entry.GlobalID = globalID
	u.NextSeq++
	u.TotalAmount = total
	u.TotalVotePower = power
	u.ActiveEntries++
	refreshEligibility(u, cfg, tx.Now())
	pool.TotalStaked = poolTotal

	if err := saveEntry(tx, entry); err != nil {
		return nil, err
	}
	if err := saveUserStake(tx, u); err != nil {
		return nil, err
	}
	if err := savePool(tx, pool); err != nil {
		return nil, err
	}
	emitStakeEvent(tx, entry, vp)
	return entry, nil
}

// requestUnstake starts the cooldown for an entry of the caller.
func requestUnstake(tx *Tx, id uint64) (*StakeEntry, error) {
	if _, err := requireLive(tx); err != nil {
		return nil, err
	}
	e, err := loadEntry(tx, tx.Sender(), id)
	if err != nil {
		return nil, err
	}
	if !e.Active() {
		return nil, fail(KindAlreadyFinalized, "stake entry %d already unstaked", id)
	}
	if e.UnstakeRequestedAt != 0 {
		return nil, fail(KindInvalidArgument, "unstake of entry %d already requested", id)
	}
	e.UnstakeRequestedAt = tx.Now()
	if err := saveEntry(tx, e); err != nil {
		return nil, err
	}
	emitUnstakeRequestEvent(tx, e)
	return e, nil
}

// unstake pays the principal back once the cooldown passed, minus the early unstake penalty
// when the policy has one and the lockup was not served.
func unstake(tx *Tx, id uint64) (*StakeEntry, sdk.Amount, error) {
	cfg, err := requireLive(tx)
	if err != nil {
		return nil, 0, err
	}
	e, err := loadEntry(tx, tx.Sender(), id)
	if err != nil {
		return nil, 0, err
	}
	if !e.Active() {
		return nil, 0, fail(KindAlreadyFinalized, "stake entry %d already unstaked", id)
	}
	if e.UnstakeRequestedAt == 0 {
		return nil, 0, fail(KindCooldownNotElapsed, "request unstake of entry %d first", id)
	}
	now := tx.Now()
	if waited := elapsed(now, e.UnstakeRequestedAt); waited < cfg.UnstakeCooldown {
		return nil, 0, fail(KindCooldownNotElapsed, "cooldown has %d seconds left", cfg.UnstakeCooldown-waited)
	}
	pool, err := loadPool(tx, cfg.TokenMint)
	if err != nil {
		return nil, 0, err
	}

	var penalty sdk.Amount
	if cfg.EarlyUnstakePenalty > 0 && elapsed(now, e.CreatedAt) < e.Lockup {
		var ok bool
		if penalty, ok = sdk.MulDiv(e.Amount, cfg.EarlyUnstakePenalty, perMille); !ok {
			return nil, 0, fail(KindInvalidArgument, "penalty overflows")
		}
	}
	returned := e.Amount - penalty
	if err := transfer(tx, pool.Vault, e.Owner, returned); err != nil {
		return nil, 0, err
	}
	if err := transfer(tx, pool.Vault, cfg.Wallets.StakingReward, penalty); err != nil {
		return nil, 0, err
	}

	vp, err := entryVotePower(e)
	if err != nil {
		return nil, 0, err
	}
	u, err := loadUserStake(tx, e.Owner)
	if err != nil {
		return nil, 0, err
	}
	u.TotalAmount -= min(u.TotalAmount, e.Amount)
	u.TotalVotePower -= min(u.TotalVotePower, vp)
	if u.ActiveEntries > 0 {
		u.ActiveEntries--
	}
	refreshEligibility(u, cfg, now)
	pool.TotalStaked -= min(pool.TotalStaked, e.Amount)

	e.UnstakedAt = now
	e.Penalty = penalty
	if cfg.ForfeitUnclaimedReward && !e.RewardClaimed {
		e.RewardClaimed = true
	}

	if err := saveEntry(tx, e); err != nil {
		return nil, 0, err
	}
	if err := saveUserStake(tx, u); err != nil {
		return nil, 0, err
	}
	if err := savePool(tx, pool); err != nil {
		return nil, 0, err
	}
	emitUnstakeEvent(tx, e, returned)
	return e, returned, nil
}

// claimReward pays amount*rate/denominator from the staking reward wallet, once per entry.
// For unstaked entries the served term ends at unstake time.
func claimReward(tx *Tx, id uint64) (*StakeEntry, error) {
	cfg, err := requireLive(tx)
	if err != nil {
		return nil, err
	}
	e, err := loadEntry(tx, tx.Sender(), id)
	if err != nil {
		return nil, err
	}
	end := tx.Now()
	if !e.Active() {
		end = e.UnstakedAt
	}
	if served := elapsed(end, e.CreatedAt); served < e.Lockup {
		return nil, fail(KindRewardPeriodNotMet, "served %d of %d seconds", served, e.Lockup)
	}
	if e.RewardClaimed {
		return nil, fail(KindAlreadyClaimed, "reward of entry %d already claimed", id)
	}
	reward, ok := sdk.MulDiv(e.Amount, e.Tier.RewardRate, e.Tier.Denominator)
	if !ok {
		return nil, fail(KindInvalidArgument, "reward of entry %d overflows", id)
	}
	if err := transfer(tx, cfg.Wallets.StakingReward, e.Owner, reward); err != nil {
		return nil, err
	}
	e.RewardClaimed = true
	e.RewardPaid = reward
	if err := saveEntry(tx, e); err != nil {
		return nil, err
	}
	emitClaimEvent(tx, e)
	return e, nil
}

// votingPower is the owner's total vote power, provided they hold the governance minimum and
// have held it long enough.
func votingPower(tx *Tx, cfg *Config, owner sdk.Address) (sdk.Amount, error) {
	u, err := loadUserStake(tx, owner)
	if err != nil {
		return 0, err
	}
	if u.ActiveEntries == 0 || u.TotalAmount == 0 {
		return 0, fail(KindEligibility, "%s has no active stake", owner)
	}
	if u.TotalAmount < cfg.MinGovernanceStake || u.EligibleAt == 0 {
		return 0, fail(KindEligibility, "stake %s below governance minimum %s", u.TotalAmount, cfg.MinGovernanceStake)
	}
	if held := elapsed(tx.Now(), u.EligibleAt); held < cfg.MinStakeDurationForVoting {
		return 0, fail(KindEligibility, "stake held %d of %d seconds", held, cfg.MinStakeDurationForVoting)
	}
	if u.TotalVotePower == 0 {
		return 0, fail(KindEligibility, "%s has no vote power", owner)
	}
	return u.TotalVotePower, nil
}
