package contract

import "charcoin/sdk"

// ballot is the shared shape of charities and proposals: a vote window, a tally and a one
// shot finalization.
type ballot interface {
	ballotID() uint64
	assignID(id uint64)
	opensAt() int64
	closesAt() int64
	isFinalized() bool
	// record adds weight to the tally, false when the tally would overflow
	record(weight sdk.Amount, approve bool) bool
	// finalize locks the tally and returns a short outcome for the event line
	finalize(now int64) string
}

// ballotRegistry implements create/vote/finalize once, instantiated per ballot kind.
type ballotRegistry[T ballot] struct {
	kind    BallotKind
	counter string
	key     func(uint64) string
	encode  func(T) []byte
	decode  func([]byte) (T, error)
}

var (
	charities = ballotRegistry[*Charity]{
		kind:    BallotCharity,
		counter: CharitiesCount,
		key:     charityKey,
		encode:  EncodeCharity,
		decode:  DecodeCharity,
	}
	proposals = ballotRegistry[*Proposal]{
		kind:    BallotProposal,
		counter: ProposalsCount,
		key:     proposalKey,
		encode:  EncodeProposal,
		decode:  DecodeProposal,
	}
)

func (r ballotRegistry[T]) load(tx *Tx, id uint64) (T, error) {
	b, found, err := loadObject(tx.state, r.key(id), r.decode)
	if err != nil {
		return b, err
	}
	if !found {
		return b, fail(KindNotFound, "%s %d not found", r.kind, id)
	}
	return b, nil
}

func (r ballotRegistry[T]) save(tx *Tx, b T) error {
	return saveObject(tx.state, r.key(b.ballotID()), r.encode(b))
}

// create assigns the next id from the kind's counter and stores the ballot.
func (r ballotRegistry[T]) create(tx *Tx, b T) (T, error) {
	id, err := nextID(tx.state, r.counter)
	if err != nil {
		return b, err
	}
	b.assignID(id)
	if err := r.save(tx, b); err != nil {
		return b, err
	}
	emitBallotCreatedEvent(tx, r.kind, id)
	return b, nil
}

// vote checks the vote record, window and eligibility before touching the tally. weight 0
// means "all my vote power".
func (r ballotRegistry[T]) vote(tx *Tx, cfg *Config, id uint64, weight sdk.Amount, approve bool) (T, *VoteRecord, error) {
	b, err := r.load(tx, id)
	if err != nil {
		return b, nil, err
	}
	if b.isFinalized() {
		return b, nil, fail(KindAlreadyFinalized, "%s %d already finalized", r.kind, id)
	}
	voter := tx.Sender()
	// a second vote is a duplicate whatever the voter's stake looks like now
	_, voted, err := loadVote(tx, r.kind, id, voter)
	if err != nil {
		return b, nil, err
	}
	if voted {
		return b, nil, fail(KindDuplicateVote, "%s already voted on %s %d", voter, r.kind, id)
	}
	now := tx.Now()
	if now < b.opensAt() || now >= b.closesAt() {
		return b, nil, fail(KindWindowNotOpen, "%s %d accepts votes in [%d, %d)", r.kind, id, b.opensAt(), b.closesAt())
	}
	power, err := votingPower(tx, cfg, voter)
	if err != nil {
		return b, nil, err
	}
	if weight == 0 {
		weight = power
	} else if weight > power {
		return b, nil, fail(KindEligibility, "weight %s exceeds vote power %s", weight, power)
	}
	if !b.record(weight, approve) {
		return b, nil, fail(KindInvalidArgument, "%s %d tally overflows", r.kind, id)
	}
	rec := &VoteRecord{
		Kind:      r.kind,
		BallotID:  id,
		Voter:     voter,
		Approve:   approve,
		Weight:    weight,
		Timestamp: now,
	}
	if err := saveVote(tx, rec); err != nil {
		return b, nil, err
	}
	if err := r.save(tx, b); err != nil {
		return b, nil, err
	}
	emitVoteEvent(tx, rec)
	return b, rec, nil
}

// finalize is allowed from the window end on, exactly once.
func (r ballotRegistry[T]) finalize(tx *Tx, id uint64) (T, error) {
	b, err := r.load(tx, id)
	if err != nil {
		return b, err
	}
	if now := tx.Now(); now < b.closesAt() {
		return b, fail(KindWindowNotClosed, "%s %d closes at %d", r.kind, id, b.closesAt())
	}
	if b.isFinalized() {
		return b, fail(KindAlreadyFinalized, "%s %d already finalized", r.kind, id)
	}
	outcome := b.finalize(tx.Now())
	if err := r.save(tx, b); err != nil {
		return b, err
	}
	emitBallotFinalizedEvent(tx, r.kind, id, outcome)
	return b, nil
}
