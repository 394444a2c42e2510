package contract

import (
	"strings"

	"charcoin/sdk"
	"github.com/samber/lo"
)

// elapsed returns now-since in seconds, clamped at zero so clock skew never wraps around.
func elapsed(now, since int64) uint64 {
	if now <= since {
		return 0
	}
	return uint64(now - since)
}

// addSeconds saturates instead of overflowing when a huge duration is added to a timestamp.
func addSeconds(ts int64, secs uint64) int64 {
	const maxTs = int64(^uint64(0) >> 1)
	if secs > uint64(maxTs-ts) {
		return maxTs
	}
	return ts + int64(secs)
}

// cleanText trims and bounds free text fields (names, titles, descriptions).
func cleanText(field, s string, required bool) (string, error) {
	s = strings.TrimSpace(s)
	if required && s == "" {
		return "", fail(KindInvalidArgument, "%s is required", field)
	}
	if len(s) > maxString {
		return "", fail(KindInvalidArgument, "%s longer than %d bytes", field, maxString)
	}
	return s, nil
}

// containsAddress is a tiny helper for owner and approval sets.
func containsAddress(list []sdk.Address, addr sdk.Address) bool {
	return lo.Contains(list, addr)
}
