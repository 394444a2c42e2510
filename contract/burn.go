package contract

import "charcoin/sdk"

func deathWallet(w *Wallets) sdk.Address { return w.DeathWallet }

// buybackAndBurn burns amount held by the death wallet. minInterval, when set, is the least
// time since the previous burn.
func buybackAndBurn(tx *Tx, amount sdk.Amount, minInterval uint64) (sdk.Amount, error) {
	cfg, err := requireAuthority(tx, deathWallet, "burn authority")
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, fail(KindInvalidArgument, "nothing to burn")
	}
	now := tx.Now()
	if minInterval > 0 && cfg.LastBurnAt != 0 {
		if since := elapsed(now, cfg.LastBurnAt); since < minInterval {
			return 0, fail(KindCooldownNotElapsed, "last burn %d seconds ago, need %d", since, minInterval)
		}
	}
	total, ok := sdk.AddAmount(cfg.TotalBurned, amount)
	if !ok {
		return 0, fail(KindInvalidArgument, "burn total overflows")
	}
	if err := ledgerErr(tx.ledger.Burn(cfg.Wallets.DeathWallet, amount)); err != nil {
		return 0, err
	}
	cfg.TotalBurned = total
	cfg.LastBurnAt = now
	if err := saveConfig(tx, cfg); err != nil {
		return 0, err
	}
	emitBurnEvent(tx, amount, total)
	return total, nil
}

// mint credits fresh units, operator only. Mainly how local setups and tests fund wallets.
func mint(tx *Tx, to sdk.Address, amount sdk.Amount) error {
	if _, err := requireOperator(tx); err != nil {
		return err
	}
	if !to.IsValid() {
		return fail(KindInvalidArgument, "mint target %q is invalid", to)
	}
	if amount == 0 {
		return fail(KindInvalidArgument, "nothing to mint")
	}
	if err := ledgerErr(tx.ledger.Mint(to, amount)); err != nil {
		return err
	}
	emitMintEvent(tx, to, amount)
	return nil
}
