package contract

import "charcoin/sdk"

const (
	// kConfig is the singleton Config blob.
	kConfig byte = 0x01
	// kRewardTiers holds the whole tier table so replacing it is one write.
	kRewardTiers byte = 0x02
	// kStakingPool stores one pool per token mint.
	kStakingPool byte = 0x03
	// kStakeEntry houses entries keyed by per-owner sequence + owner.
	kStakeEntry byte = 0x04
	// kUserStake is the per-owner aggregate (totals, vote power, next seq).
	kUserStake byte = 0x05
	// kCharity contains encoded Charity ballots.
	kCharity byte = 0x10
	// kProposal contains encoded Proposal ballots.
	kProposal byte = 0x11
	// kVoteRecord marks that a voter already voted on a ballot, never deleted.
	kVoteRecord byte = 0x20
	// kTreasury is the multisig owner set.
	kTreasury byte = 0x30
	// kWithdrawal stores WithdrawalRequests by id.
	kWithdrawal byte = 0x31
	// kBalance is only used by the state backed ledger.
	kBalance byte = 0x40
)

// packU64LEInline sprinkles a uint64 into dst in little-endian order so our keys stay compact.
func packU64LEInline(x uint64, dst []byte) {
	dst[0] = byte(x)
	dst[1] = byte(x >> 8)
	dst[2] = byte(x >> 16)
	dst[3] = byte(x >> 24)
	dst[4] = byte(x >> 32)
	dst[5] = byte(x >> 40)
	dst[6] = byte(x >> 48)
	dst[7] = byte(x >> 56)
}

// packU64LE appends the encoded number to dst and returns the new slice.
func packU64LE(x uint64, dst []byte) []byte {
	var b [8]byte
	packU64LEInline(x, b[:])
	return append(dst, b[:]...)
}

// idKey is the shared shape for prefix + id records.
func idKey(prefix byte, id uint64) string {
	var buf [9]byte
	buf[0] = prefix
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}

// addrKey is prefix + raw address bytes.
func addrKey(prefix byte, addr string) string {
	buf := make([]byte, 0, 1+len(addr))
	buf = append(buf, prefix)
	buf = append(buf, addr...)
	return string(buf)
}

func configKey() string { return string([]byte{kConfig}) }

func rewardTiersKey() string { return string([]byte{kRewardTiers}) }

func treasuryKey() string { return string([]byte{kTreasury}) }

// stakingPoolKey keeps one pool per mint.
func stakingPoolKey(mint sdk.Asset) string { return addrKey(kStakingPool, mint.String()) }

// stakeEntryKey mixes sequence id plus owner so entries of different owners never collide.
func stakeEntryKey(owner sdk.Address, seq uint64) string {
	o := owner.String()
	buf := make([]byte, 0, 1+8+len(o))
	buf = append(buf, kStakeEntry)
	buf = packU64LE(seq, buf)
	buf = append(buf, o...)
	return string(buf)
}

func userStakeKey(owner sdk.Address) string { return addrKey(kUserStake, owner.String()) }

func charityKey(id uint64) string { return idKey(kCharity, id) }

func proposalKey(id uint64) string { return idKey(kProposal, id) }

func withdrawalKey(id uint64) string { return idKey(kWithdrawal, id) }

func balanceKey(addr sdk.Address) string { return addrKey(kBalance, addr.String()) }

// voteRecordKey is (ballot kind, ballot id, voter), the only double-vote guard we have.
func voteRecordKey(kind BallotKind, id uint64, voter sdk.Address) string {
	v := voter.String()
	buf := make([]byte, 0, 2+8+len(v))
	buf = append(buf, kVoteRecord, byte(kind))
	buf = packU64LE(id, buf)
	buf = append(buf, v...)
	return string(buf)
}
