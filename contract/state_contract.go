package contract

import (
	"charcoin/sdk"
)

// -----------------------------------------------------------------------------
// Config State
// -----------------------------------------------------------------------------

// isInitialized returns true if Initialize already ran.
func isInitialized(tx *Tx) (bool, error) {
	if tx.cfg != nil {
		return true, nil
	}
	ptr, err := tx.state.Get(configKey())
	if err != nil {
		return false, internal("read config", err)
	}
	return ptr != nil && *ptr != "", nil
}

// loadConfig loads the singleton and fills the id counters in.
func loadConfig(tx *Tx) (*Config, error) {
	if tx.cfg != nil {
		return tx.cfg, nil
	}
	cfg, found, err := loadObject(tx.state, configKey(), DecodeConfig)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fail(KindNotInitialized, "config not initialized")
	}
	if cfg.NextCharityID, err = getCount(tx.state, CharitiesCount); err != nil {
		return nil, err
	}
	if cfg.NextProposalID, err = getCount(tx.state, ProposalsCount); err != nil {
		return nil, err
	}
	if cfg.NextStakingID, err = getCount(tx.state, StakesCount); err != nil {
		return nil, err
	}
	tx.cfg = cfg
	return cfg, nil
}

// saveConfig stores the config and refreshes the tx cache.
func saveConfig(tx *Tx, cfg *Config) error {
	if err := saveObject(tx.state, configKey(), EncodeConfig(cfg)); err != nil {
		return err
	}
	tx.cfg = cfg
	return nil
}

// requireOperator loads config and rejects anyone but the operator.
func requireOperator(tx *Tx) (*Config, error) {
	cfg, err := loadConfig(tx)
	if err != nil {
		return nil, err
	}
	if tx.Sender() != cfg.Operator {
		return nil, fail(KindAuthorization, "only the operator may do this")
	}
	return cfg, nil
}

// requireLive loads config and rejects while the halt flag is set.
func requireLive(tx *Tx) (*Config, error) {
	cfg, err := loadConfig(tx)
	if err != nil {
		return nil, err
	}
	if cfg.Halted {
		return nil, fail(KindHalted, "program is halted")
	}
	return cfg, nil
}

// requireAuthority is requireLive plus a caller check against one configured wallet.
func requireAuthority(tx *Tx, pick func(*Wallets) sdk.Address, role string) (*Config, error) {
	cfg, err := requireLive(tx)
	if err != nil {
		return nil, err
	}
	if tx.Sender() != pick(&cfg.Wallets) {
		return nil, fail(KindAuthorization, "caller is not the %s", role)
	}
	return cfg, nil
}
