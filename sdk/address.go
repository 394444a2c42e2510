package sdk

import (
	"crypto/sha256"
	"strings"

	"github.com/mr-tron/base58"
)

type AddressType string

const (
	AddressTypeKey     AddressType = "key"
	AddressTypeHive    AddressType = "hive"
	AddressTypeEVM     AddressType = "evm"
	AddressTypeSystem  AddressType = "system"
	AddressTypeUnknown AddressType = "unknown"
)

// keyLength is the decoded size of a base58 account key (and of every derived address).
const keyLength = 32

type Address string

// String returns the literal representation (like hive:alice) of the address.
// Example payload: sdk.Address("hive:foo").String()
func (a Address) String() string {
	return string(a)
}

// Type inspects the prefix to categorize the address. Anything without a known prefix has to
// be a base58 encoded 32 byte key, otherwise we call it unknown.
// Example payload: sdk.Address("did:pkh:eip155:1:0xabc").Type()
func (a Address) Type() AddressType {
	s := a.String()
	switch {
	case strings.HasPrefix(s, "did:pkh:eip155"):
		return AddressTypeEVM
	case strings.HasPrefix(s, "hive:"):
		return AddressTypeHive
	case strings.HasPrefix(s, "system:"):
		return AddressTypeSystem
	}
	raw, err := base58.Decode(s)
	if err == nil && len(raw) == keyLength {
		return AddressTypeKey
	}
	return AddressTypeUnknown
}

// IsValid returns false if the address type detection failed, used as a light sanity check.
// Example payload: sdk.Address("foo").IsValid()
func (a Address) IsValid() bool {
	return a.Type() != AddressTypeUnknown
}

// DeriveAddress maps a namespace tag plus seeds onto a stable base58 key, so the same logical
// account (pool vault, treasury vault) always resolves to the same address.
// Example payload: sdk.DeriveAddress("treasury", "mint-address")
func DeriveAddress(tag string, seeds ...string) Address {
	h := sha256.New()
	h.Write([]byte(tag))
	for _, s := range seeds {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	return Address(base58.Encode(h.Sum(nil)))
}
