package contract

import "charcoin/sdk"

func loadPool(tx *Tx, mint sdk.Asset) (*StakingPool, error) {
	pool, found, err := loadObject(tx.state, stakingPoolKey(mint), DecodeStakingPool)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fail(KindNotInitialized, "staking pool for %s not initialized", mint)
	}
	return pool, nil
}

func savePool(tx *Tx, pool *StakingPool) error {
	return saveObject(tx.state, stakingPoolKey(pool.TokenMint), EncodeStakingPool(pool))
}

// loadEntry looks the entry up under the caller's own key space, so a foreign id is just
// "not found" for them.
func loadEntry(tx *Tx, owner sdk.Address, id uint64) (*StakeEntry, error) {
	e, found, err := loadObject(tx.state, stakeEntryKey(owner, id), DecodeStakeEntry)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fail(KindNotFound, "stake entry %d of %s not found", id, owner)
	}
	return e, nil
}

func saveEntry(tx *Tx, e *StakeEntry) error {
	return saveObject(tx.state, stakeEntryKey(e.Owner, e.ID), EncodeStakeEntry(e))
}

// loadUserStake returns a zero aggregate for owners that never staked.
func loadUserStake(tx *Tx, owner sdk.Address) (*UserStake, error) {
	u, found, err := loadObject(tx.state, userStakeKey(owner), DecodeUserStake)
	if err != nil {
		return nil, err
	}
	if !found {
		return &UserStake{Owner: owner}, nil
	}
	return u, nil
}

func saveUserStake(tx *Tx, u *UserStake) error {
	return saveObject(tx.state, userStakeKey(u.Owner), EncodeUserStake(u))
}
