package contract

// loadTreasury fails with NotInitialized until InitializeTreasury ran.
func loadTreasury(tx *Tx) (*Treasury, error) {
	t, found, err := loadObject(tx.state, treasuryKey(), DecodeTreasury)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fail(KindNotInitialized, "treasury not initialized")
	}
	return t, nil
}

func saveTreasury(tx *Tx, t *Treasury) error {
	return saveObject(tx.state, treasuryKey(), EncodeTreasury(t))
}

func loadWithdrawal(tx *Tx, id uint64) (*WithdrawalRequest, error) {
	wr, found, err := loadObject(tx.state, withdrawalKey(id), DecodeWithdrawal)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fail(KindNotFound, "withdrawal %d not found", id)
	}
	return wr, nil
}

func saveWithdrawal(tx *Tx, wr *WithdrawalRequest) error {
	return saveObject(tx.state, withdrawalKey(wr.ID), EncodeWithdrawal(wr))
}
