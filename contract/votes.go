package contract

import "charcoin/sdk"

// -----------------------------------------------------------------------------
// Vote records
// -----------------------------------------------------------------------------

// loadVote returns the voter's record for a ballot, found=false when they did not vote yet.
func loadVote(tx *Tx, kind BallotKind, id uint64, voter sdk.Address) (*VoteRecord, bool, error) {
	return loadObject(tx.state, voteRecordKey(kind, id, voter), DecodeVoteRecord)
}

// saveVote persists the record, it is never rewritten or deleted afterwards.
func saveVote(tx *Tx, v *VoteRecord) error {
	return saveObject(tx.state, voteRecordKey(v.Kind, v.BallotID, v.Voter), EncodeVoteRecord(v))
}
