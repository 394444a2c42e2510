package contract

import "charcoin/sdk"

// -----------------------------------------------------------------------------
// Proposal ballots
// -----------------------------------------------------------------------------

func (p *Proposal) ballotID() uint64 { return p.ID }
func (p *Proposal) assignID(id uint64) { p.ID = id }
func (p *Proposal) opensAt() int64 { return p.CreatedAt }
func (p *Proposal) closesAt() int64 { return addSeconds(p.CreatedAt, p.Duration) }
func (p *Proposal) isFinalized() bool { return p.Finalized }

func (p *Proposal) record(weight sdk.Amount, approve bool) bool {
	side := &p.No
	if approve {
		side = &p.Yes
	}
	next, ok := sdk.AddAmount(*side, weight)
	if !ok {
		return false
	}
	*side = next
	p.Voters++
	return true
}

// finalize approves only on a strict yes majority, ties are rejected.
func (p *Proposal) finalize(now int64) string {
	p.Finalized = true
	p.FinalizedAt = now
	if p.Yes > p.No {
		p.Status = ProposalApproved
	} else {
		p.Status = ProposalRejected
	}
	return p.Status.String()
}

// submitProposal opens a yes/no vote running duration seconds from now.
func submitProposal(tx *Tx, title, description string, duration uint64) (*Proposal, error) {
	cfg, err := requireLive(tx)
	if err != nil {
		return nil, err
	}
	title, err = cleanText("title", title, true)
	if err != nil {
		return nil, err
	}
	description, err = cleanText("description", description, false)
	if err != nil {
		return nil, err
	}
	if duration == 0 {
		return nil, fail(KindInvalidArgument, "proposal duration must be positive")
	}
	p, err := proposals.create(tx, &Proposal{
		Title:       title,
		Description: description,
		Proposer:    tx.Sender(),
		CreatedAt:   tx.Now(),
		Duration:    duration,
		Status:      ProposalOpen,
	})
	if err != nil {
		return nil, err
	}
	cfg.NextProposalID = p.ID + 1
	return p, nil
}

// voteOnProposal puts the caller's full vote power on yes or no.
func voteOnProposal(tx *Tx, id uint64, yes bool) (*Proposal, *VoteRecord, error) {
	cfg, err := requireLive(tx)
	if err != nil {
		return nil, nil, err
	}
	return proposals.vote(tx, cfg, id, 0, yes)
}

func finalizeProposal(tx *Tx, id uint64) (*Proposal, error) {
	if _, err := requireLive(tx); err != nil {
		return nil, err
	}
	return proposals.finalize(tx, id)
}
