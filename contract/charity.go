package contract

import "charcoin/sdk"

// -----------------------------------------------------------------------------
// Charity ballots
// -----------------------------------------------------------------------------

func (c *Charity) ballotID() uint64 { return c.ID }
func (c *Charity) assignID(id uint64) { c.ID = id }
func (c *Charity) opensAt() int64 { return c.StartTime }
func (c *Charity) closesAt() int64 { return c.EndTime }
func (c *Charity) isFinalized() bool { return c.Finalized }

func (c *Charity) record(weight sdk.Amount, _ bool) bool {
	tally, ok := sdk.AddAmount(c.Tally, weight)
	if !ok {
		return false
	}
	c.Tally = tally
	c.Voters++
	return true
}

func (c *Charity) finalize(now int64) string {
	c.Finalized = true
	c.FinalizedAt = now
	return c.Tally.String()
}

// RegisterCharityArgs is the payload of RegisterCharity.
type RegisterCharityArgs struct {
	Name        string
	Description string
	Wallet      sdk.Address
	StartTime   int64
	EndTime     int64
}

// registerCharity opens a time boxed vote on a charity. Registrar is the operator.
func registerCharity(tx *Tx, args RegisterCharityArgs) (*Charity, error) {
	cfg, err := requireLive(tx)
	if err != nil {
		return nil, err
	}
	if tx.Sender() != cfg.Operator {
		return nil, fail(KindAuthorization, "only the operator registers charities")
	}
	name, err := cleanText("name", args.Name, true)
	if err != nil {
		return nil, err
	}
	desc, err := cleanText("description", args.Description, false)
	if err != nil {
		return nil, err
	}
	if !args.Wallet.IsValid() {
		return nil, fail(KindInvalidArgument, "charity wallet %q is invalid", args.Wallet)
	}
	if args.StartTime <= 0 || args.EndTime <= args.StartTime {
		return nil, fail(KindInvalidArgument, "vote window [%d, %d) is empty", args.StartTime, args.EndTime)
	}
	c, err := charities.create(tx, &Charity{
		Name:        name,
		Description: desc,
		Wallet:      args.Wallet,
		Registrar:   tx.Sender(),
		StartTime:   args.StartTime,
		EndTime:     args.EndTime,
	})
	if err != nil {
		return nil, err
	}
	cfg.NextCharityID = c.ID + 1
	return c, nil
}

// castCharityVote adds the caller's weight (0 = full vote power) to the charity tally.
func castCharityVote(tx *Tx, id uint64, weight sdk.Amount) (*Charity, *VoteRecord, error) {
	cfg, err := requireLive(tx)
	if err != nil {
		return nil, nil, err
	}
	return charities.vote(tx, cfg, id, weight, true)
}

func finalizeCharity(tx *Tx, id uint64) (*Charity, error) {
	if _, err := requireLive(tx); err != nil {
		return nil, err
	}
	return charities.finalize(tx, id)
}
