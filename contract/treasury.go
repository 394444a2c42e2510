package contract

import (
	"charcoin/sdk"
	"github.com/samber/lo"
)

// -----------------------------------------------------------------------------
// Treasury multisig
// -----------------------------------------------------------------------------

// initTreasury fixes the owner set and threshold for the life of the treasury.
func initTreasury(tx *Tx, owners []sdk.Address, threshold uint64) (*Treasury, error) {
	cfg, err := requireOperator(tx)
	if err != nil {
		return nil, err
	}
	_, found, err := loadObject(tx.state, treasuryKey(), DecodeTreasury)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, fail(KindAlreadyInitialized, "treasury already initialized")
	}
	if len(owners) == 0 || len(owners) > MaxTreasuryOwners {
		return nil, fail(KindInvalidArgument, "need 1 to %d owners, got %d", MaxTreasuryOwners, len(owners))
	}
	if len(lo.Uniq(owners)) != len(owners) {
		return nil, fail(KindInvalidArgument, "treasury owners must be unique")
	}
	if bad, ok := lo.Find(owners, func(a sdk.Address) bool { return !a.IsValid() }); ok {
		return nil, fail(KindInvalidArgument, "owner address %q is invalid", bad)
	}
	if threshold == 0 || threshold > uint64(len(owners)) {
		return nil, fail(KindInvalidArgument, "threshold %d outside 1..%d", threshold, len(owners))
	}
	t := &Treasury{
		Owners:    append([]sdk.Address(nil), owners...),
		Threshold: threshold,
		Vault:     treasuryVault(cfg.TokenMint),
		CreatedAt: tx.Now(),
	}
	if err := saveTreasury(tx, t); err != nil {
		return nil, err
	}
	emitTreasuryEvent(tx, t)
	return t, nil
}

// requireOwner loads the treasury and rejects callers outside the owner set.
func requireOwner(tx *Tx) (*Treasury, error) {
	t, err := loadTreasury(tx)
	if err != nil {
		return nil, err
	}
	if !containsAddress(t.Owners, tx.Sender()) {
		return nil, fail(KindAuthorization, "%s is not a treasury owner", tx.Sender())
	}
	return t, nil
}

// createWithdrawal opens a request with an empty approval set.
func createWithdrawal(tx *Tx, amount sdk.Amount, recipient sdk.Address) (*WithdrawalRequest, error) {
	if _, err := requireLive(tx); err != nil {
		return nil, err
	}
	if _, err := requireOwner(tx); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, fail(KindInvalidArgument, "withdrawal amount must be positive")
	}
	if !recipient.IsValid() {
		return nil, fail(KindInvalidArgument, "recipient %q is invalid", recipient)
	}
	id, err := nextID(tx.state, WithdrawalsCount)
	if err != nil {
		return nil, err
	}
	wr := &WithdrawalRequest{
		ID:        id,
		Creator:   tx.Sender(),
		Amount:    amount,
		Recipient: recipient,
		Approvals: []sdk.Address{},
		CreatedAt: tx.Now(),
	}
	if err := saveWithdrawal(tx, wr); err != nil {
		return nil, err
	}
	emitWithdrawalEvent(tx, "wc", wr)
	return wr, nil
}

// approveWithdrawal adds the caller once, a repeat approval changes nothing.
func approveWithdrawal(tx *Tx, id uint64) (*WithdrawalRequest, error) {
	if _, err := requireLive(tx); err != nil {
		return nil, err
	}
	if _, err := requireOwner(tx); err != nil {
		return nil, err
	}
	wr, err := loadWithdrawal(tx, id)
	if err != nil {
		return nil, err
	}
	if wr.Executed {
		return nil, fail(KindAlreadyExecuted, "withdrawal %d already executed", id)
	}
	if containsAddress(wr.Approvals, tx.Sender()) {
		return wr, nil
	}
	wr.Approvals = append(wr.Approvals, tx.Sender())
	if err := saveWithdrawal(tx, wr); err != nil {
		return nil, err
	}
	emitWithdrawalEvent(tx, "wa", wr)
	return wr, nil
}

// executeWithdrawal pays out from the treasury vault once quorum is reached, exactly once.
func executeWithdrawal(tx *Tx, id uint64) (*WithdrawalRequest, error) {
	if _, err := requireLive(tx); err != nil {
		return nil, err
	}
	t, err := requireOwner(tx)
	if err != nil {
		return nil, err
	}
	wr, err := loadWithdrawal(tx, id)
	if err != nil {
		return nil, err
	}
	if wr.Executed {
		return nil, fail(KindAlreadyExecuted, "withdrawal %d already executed", id)
	}
	// approvals outside the owner set never count
	approvals := lo.CountBy(wr.Approvals, func(a sdk.Address) bool { return containsAddress(t.Owners, a) })
	if uint64(approvals) < t.Threshold {
		return nil, fail(KindThresholdNotMet, "withdrawal %d has %d of %d approvals", id, approvals, t.Threshold)
	}
	if err := transfer(tx, t.Vault, wr.Recipient, wr.Amount); err != nil {
		return nil, err
	}
	wr.Executed = true
	wr.ExecutedAt = tx.Now()
	if err := saveWithdrawal(tx, wr); err != nil {
		return nil, err
	}
	emitWithdrawalEvent(tx, "wx", wr)
	return wr, nil
}
