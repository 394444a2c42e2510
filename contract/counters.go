package contract

import "strconv"

// Counter keys for id allocation. Ids start at zero and are never handed out twice.
const (
	CharitiesCount   = "count:charity"
	ProposalsCount   = "count:props"
	StakesCount      = "count:stake"
	WithdrawalsCount = "count:withdrawal"
	// supplyKey tracks minted minus burned units for the state ledger.
	supplyKey = "count:supply"
)

// getCount reads the string counter under the key and defaults to zero, nothing magical here.
func getCount(st State, key string) (uint64, error) {
	ptr, err := st.Get(key)
	if err != nil {
		return 0, internal("read counter "+key, err)
	}
	if ptr == nil || *ptr == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(*ptr, 10, 64)
	if err != nil {
		return 0, internal("parse counter "+key, err)
	}
	return n, nil
}

// setCount stores uint64 counters back as decimal strings.
func setCount(st State, key string, n uint64) error {
	if err := st.Set(key, strconv.FormatUint(n, 10)); err != nil {
		return internal("write counter "+key, err)
	}
	return nil
}

// nextID hands out the current counter value and bumps it in the same tx.
func nextID(st State, key string) (uint64, error) {
	id, err := getCount(st, key)
	if err != nil {
		return 0, err
	}
	if err := setCount(st, key, id+1); err != nil {
		return 0, err
	}
	return id, nil
}
