package contract

import (
	"bytes"
	"encoding/binary"
	"errors"

	"charcoin/sdk"
)

var errUnexpectedEOF = errors.New("unexpected EOF")

type binWriter struct {
	buf bytes.Buffer
}

// newWriter spins up a fresh writer so we dont leak old bytes between encodes.
func newWriter() *binWriter { return &binWriter{} }

// bytes returns the accumulated buffer, tiny helper but keeps code tidy.
func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

// writeBool squashes bools into a single byte flag for deterministic payloads.
func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// writeUint64 writes big endian numbers so tooling can read them without guessing.
func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// writeInt64 reuses the uint routine since casting keeps the sign bits intact.
func (w *binWriter) writeInt64(v int64) {
	w.writeUint64(uint64(v))
}

// writeVarUint uses varints to keep counts and lens compact.
func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

func (w *binWriter) writeAmount(v sdk.Amount) {
	w.writeUint64(uint64(v))
}

// writeString prefixes its length then dumps the bytes directly.
func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeAddress(a sdk.Address) {
	w.writeString(a.String())
}

func (w *binWriter) writeAddresses(list []sdk.Address) {
	w.writeVarUint(uint64(len(list)))
	for _, a := range list {
		w.writeAddress(a)
	}
}

func (w *binWriter) writeSplits(list []Split) {
	w.writeVarUint(uint64(len(list)))
	for _, s := range list {
		w.writeAddress(s.To)
		w.writeUint64(s.Bps)
	}
}

// ------------------------------------------------------------------
// Decoder helpers
// ------------------------------------------------------------------

type binReader struct {
	data []byte
	pos  int
}

// newReader wraps raw bytes so we can peek sequentially w/out copying.
func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

// readByte grabs the next byte and bumps the cursor.
func (r *binReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *binReader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

func (r *binReader) readUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errUnexpectedEOF
	}
	val := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return val, nil
}

func (r *binReader) readInt64() (int64, error) {
	v, err := r.readUint64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// readVarUint undoes the compact varint encoding for lengths/counts.
func (r *binReader) readVarUint() (uint64, error) {
	val, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return val, nil
}

func (r *binReader) readAmount() (sdk.Amount, error) {
	v, err := r.readUint64()
	return sdk.Amount(v), err
}

// readString reads the varint length then slices out the chunk.
func (r *binReader) readString() (string, error) {
	l, err := r.readVarUint()
	if err != nil {
		return "", err
	}
	if l > uint64(len(r.data)-r.pos) {
		return "", errUnexpectedEOF
	}
	s := string(r.data[r.pos : r.pos+int(l)])
	r.pos += int(l)
	return s, nil
}

func (r *binReader) readAddress() (sdk.Address, error) {
	s, err := r.readString()
	return sdk.Address(s), err
}

func (r *binReader) readAddresses() ([]sdk.Address, error) {
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(r.data)-r.pos) {
		return nil, errUnexpectedEOF
	}
	out := make([]sdk.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		a, err := r.readAddress()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *binReader) readSplits() ([]Split, error) {
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(r.data)-r.pos) {
		return nil, errUnexpectedEOF
	}
	out := make([]Split, 0, n)
	for i := uint64(0); i < n; i++ {
		to, err := r.readAddress()
		if err != nil {
			return nil, err
		}
		bps, err := r.readUint64()
		if err != nil {
			return nil, err
		}
		out = append(out, Split{To: to, Bps: bps})
	}
	return out, nil
}

// ------------------------------------------------------------------
// Entities
// ------------------------------------------------------------------

// EncodeConfig packs the singleton, counters are kept out since they live under count:*.
func EncodeConfig(c *Config) []byte {
	w := newWriter()
	w.writeAddress(c.Operator)
	w.writeString(c.TokenMint.String())
	for _, n := range c.Wallets.named() {
		w.writeAddress(*n.addr)
	}
	w.writeBool(c.Halted)
	w.writeAmount(c.MinGovernanceStake)
	w.writeUint64(c.MinStakeDurationForVoting)
	w.writeUint64(c.UnstakeCooldown)
	w.writeUint64(c.EarlyUnstakePenalty)
	w.writeBool(c.ForfeitUnclaimedReward)
	w.writeAmount(c.TotalBurned)
	w.writeInt64(c.LastBurnAt)
	w.writeSplits(c.RewardSplits)
	w.writeSplits(c.DonationSplits)
	w.writeSplits(c.StakingSplits)
	return w.bytes()
}

// DecodeConfig keeps the same field order as EncodeConfig.
func DecodeConfig(data []byte) (*Config, error) {
	r := newReader(data)
	c := &Config{}
	var err error
	if c.Operator, err = r.readAddress(); err != nil {
		return nil, err
	}
	mint, err := r.readString()
	if err != nil {
		return nil, err
	}
	c.TokenMint = sdk.Asset(mint)
	for _, n := range c.Wallets.named() {
		if *n.addr, err = r.readAddress(); err != nil {
			return nil, err
		}
	}
	if c.Halted, err = r.readBool(); err != nil {
		return nil, err
	}
	if c.MinGovernanceStake, err = r.readAmount(); err != nil {
		return nil, err
	}
	if c.MinStakeDurationForVoting, err = r.readUint64(); err != nil {
		return nil, err
	}
	if c.UnstakeCooldown, err = r.readUint64(); err != nil {
		return nil, err
	}
	if c.EarlyUnstakePenalty, err = r.readUint64(); err != nil {
		return nil, err
	}
	if c.ForfeitUnclaimedReward, err = r.readBool(); err != nil {
		return nil, err
	}
	if c.TotalBurned, err = r.readAmount(); err != nil {
		return nil, err
	}
	if c.LastBurnAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	if c.RewardSplits, err = r.readSplits(); err != nil {
		return nil, err
	}
	if c.DonationSplits, err = r.readSplits(); err != nil {
		return nil, err
	}
	if c.StakingSplits, err = r.readSplits(); err != nil {
		return nil, err
	}
	return c, nil
}

// EncodeRewardTiers writes the full table, one blob so replacement is atomic.
func EncodeRewardTiers(tiers []RewardTier) []byte {
	w := newWriter()
	w.writeVarUint(uint64(len(tiers)))
	for _, t := range tiers {
		encodeTier(w, t)
	}
	return w.bytes()
}

func DecodeRewardTiers(data []byte) ([]RewardTier, error) {
	r := newReader(data)
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	if n > MaxRewardTiers {
		return nil, errors.New("tier table too long")
	}
	tiers := make([]RewardTier, n)
	for i := range tiers {
		t, err := decodeTier(r)
		if err != nil {
			return nil, err
		}
		tiers[i] = t
	}
	return tiers, nil
}

func encodeTier(w *binWriter, t RewardTier) {
	w.writeUint64(t.MinLockup)
	w.writeUint64(t.RewardRate)
	w.writeUint64(t.VotePower)
	w.writeUint64(t.Denominator)
}

func decodeTier(r *binReader) (RewardTier, error) {
	var t RewardTier
	var err error
	if t.MinLockup, err = r.readUint64(); err != nil {
		return t, err
	}
	if t.RewardRate, err = r.readUint64(); err != nil {
		return t, err
	}
	if t.VotePower, err = r.readUint64(); err != nil {
		return t, err
	}
	if t.Denominator, err = r.readUint64(); err != nil {
		return t, err
	}
	return t, nil
}

func EncodeStakingPool(p *StakingPool) []byte {
	w := newWriter()
	w.writeString(p.TokenMint.String())
	w.writeAddress(p.Vault)
	w.writeAmount(p.TotalStaked)
	w.writeInt64(p.CreatedAt)
	return w.bytes()
}

func DecodeStakingPool(data []byte) (*StakingPool, error) {
	r := newReader(data)
	p := &StakingPool{}
	mint, err := r.readString()
	if err != nil {
		return nil, err
	}
	p.TokenMint = sdk.Asset(mint)
	if p.Vault, err = r.readAddress(); err != nil {
		return nil, err
	}
	if p.TotalStaked, err = r.readAmount(); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodeStakeEntry carries a snapshot of the tier it was opened under.
func EncodeStakeEntry(e *StakeEntry) []byte {
	w := newWriter()
	w.writeAddress(e.Owner)
	w.writeUint64(e.ID)
	w.writeUint64(e.GlobalID)
	w.writeAmount(e.Amount)
	w.writeUint64(e.Lockup)
	encodeTier(w, e.Tier)
	w.writeInt64(e.CreatedAt)
	w.writeInt64(e.UnstakeRequestedAt)
	w.writeInt64(e.UnstakedAt)
	w.writeBool(e.RewardClaimed)
	w.writeAmount(e.RewardPaid)
	w.writeAmount(e.Penalty)
	return w.bytes()
}

func DecodeStakeEntry(data []byte) (*StakeEntry, error) {
	r := newReader(data)
	e := &StakeEntry{}
	var err error
	if e.Owner, err = r.readAddress(); err != nil {
		return nil, err
	}
	if e.ID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if e.GlobalID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if e.Amount, err = r.readAmount(); err != nil {
		return nil, err
	}
	if e.Lockup, err = r.readUint64(); err != nil {
		return nil, err
	}
	if e.Tier, err = decodeTier(r); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	if e.UnstakeRequestedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	if e.UnstakedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	if e.RewardClaimed, err = r.readBool(); err != nil {
		return nil, err
	}
	if e.RewardPaid, err = r.readAmount(); err != nil {
		return nil, err
	}
	if e.Penalty, err = r.readAmount(); err != nil {
		return nil, err
	}
	return e, nil
}

func EncodeUserStake(u *UserStake) []byte {
	w := newWriter()
	w.writeAddress(u.Owner)
	w.writeUint64(u.NextSeq)
	w.writeAmount(u.TotalAmount)
	w.writeAmount(u.TotalVotePower)
	w.writeUint64(u.ActiveEntries)
	w.writeInt64(u.EligibleAt)
	return w.bytes()
}

func DecodeUserStake(data []byte) (*UserStake, error) {
	r := newReader(data)
	u := &UserStake{}
	var err error
	if u.Owner, err = r.readAddress(); err != nil {
		return nil, err
	}
	if u.NextSeq, err = r.readUint64(); err != nil {
		return nil, err
	}
	if u.TotalAmount, err = r.readAmount(); err != nil {
		return nil, err
	}
	if u.TotalVotePower, err = r.readAmount(); err != nil {
		return nil, err
	}
	if u.ActiveEntries, err = r.readUint64(); err != nil {
		return nil, err
	}
	if u.EligibleAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	return u, nil
}

func EncodeCharity(c *Charity) []byte {
	w := newWriter()
	w.writeUint64(c.ID)
	w.writeString(c.Name)
	w.writeString(c.Description)
	w.writeAddress(c.Wallet)
	w.writeAddress(c.Registrar)
	w.writeInt64(c.StartTime)
	w.writeInt64(c.EndTime)
	w.writeAmount(c.Tally)
	w.writeUint64(c.Voters)
	w.writeBool(c.Finalized)
	w.writeInt64(c.FinalizedAt)
	return w.bytes()
}

func DecodeCharity(data []byte) (*Charity, error) {
	r := newReader(data)
	c := &Charity{}
	var err error
	if c.ID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if c.Name, err = r.readString(); err != nil {
		return nil, err
	}
	if c.Description, err = r.readString(); err != nil {
		return nil, err
	}
	if c.Wallet, err = r.readAddress(); err != nil {
		return nil, err
	}
	if c.Registrar, err = r.readAddress(); err != nil {
		return nil, err
	}
	if c.StartTime, err = r.readInt64(); err != nil {
		return nil, err
	}
	if c.EndTime, err = r.readInt64(); err != nil {
		return nil, err
	}
	if c.Tally, err = r.readAmount(); err != nil {
		return nil, err
	}
	if c.Voters, err = r.readUint64(); err != nil {
		return nil, err
	}
	if c.Finalized, err = r.readBool(); err != nil {
		return nil, err
	}
	if c.FinalizedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	return c, nil
}

func EncodeProposal(p *Proposal) []byte {
	w := newWriter()
	w.writeUint64(p.ID)
	w.writeString(p.Title)
	w.writeString(p.Description)
	w.writeAddress(p.Proposer)
	w.writeInt64(p.CreatedAt)
	w.writeUint64(p.Duration)
	w.writeAmount(p.Yes)
	w.writeAmount(p.No)
	w.writeUint64(p.Voters)
	w.buf.WriteByte(byte(p.Status))
	w.writeBool(p.Finalized)
	w.writeInt64(p.FinalizedAt)
	return w.bytes()
}

func DecodeProposal(data []byte) (*Proposal, error) {
	r := newReader(data)
	p := &Proposal{}
	var err error
	if p.ID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if p.Title, err = r.readString(); err != nil {
		return nil, err
	}
	if p.Description, err = r.readString(); err != nil {
		return nil, err
	}
	if p.Proposer, err = r.readAddress(); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	if p.Duration, err = r.readUint64(); err != nil {
		return nil, err
	}
	if p.Yes, err = r.readAmount(); err != nil {
		return nil, err
	}
	if p.No, err = r.readAmount(); err != nil {
		return nil, err
	}
	if p.Voters, err = r.readUint64(); err != nil {
		return nil, err
	}
	status, err := r.readByte()
	if err != nil {
		return nil, err
	}
	p.Status = ProposalStatus(status)
	if p.Finalized, err = r.readBool(); err != nil {
		return nil, err
	}
	if p.FinalizedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	return p, nil
}

func EncodeVoteRecord(v *VoteRecord) []byte {
	w := newWriter()
	w.buf.WriteByte(byte(v.Kind))
	w.writeUint64(v.BallotID)
	w.writeAddress(v.Voter)
	w.writeBool(v.Approve)
	w.writeAmount(v.Weight)
	w.writeInt64(v.Timestamp)
	return w.bytes()
}

func DecodeVoteRecord(data []byte) (*VoteRecord, error) {
	r := newReader(data)
	v := &VoteRecord{}
	kind, err := r.readByte()
	if err != nil {
		return nil, err
	}
	v.Kind = BallotKind(kind)
	if v.BallotID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if v.Voter, err = r.readAddress(); err != nil {
		return nil, err
	}
	if v.Approve, err = r.readBool(); err != nil {
		return nil, err
	}
	if v.Weight, err = r.readAmount(); err != nil {
		return nil, err
	}
	if v.Timestamp, err = r.readInt64(); err != nil {
		return nil, err
	}
	return v, nil
}

func EncodeTreasury(t *Treasury) []byte {
	w := newWriter()
	w.writeAddresses(t.Owners)
	w.writeUint64(t.Threshold)
	w.writeAddress(t.Vault)
	w.writeInt64(t.CreatedAt)
	return w.bytes()
}

func DecodeTreasury(data []byte) (*Treasury, error) {
	r := newReader(data)
	t := &Treasury{}
	var err error
	if t.Owners, err = r.readAddresses(); err != nil {
		return nil, err
	}
	if t.Threshold, err = r.readUint64(); err != nil {
		return nil, err
	}
	if t.Vault, err = r.readAddress(); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	return t, nil
}

func EncodeWithdrawal(wr *WithdrawalRequest) []byte {
	w := newWriter()
	w.writeUint64(wr.ID)
	w.writeAddress(wr.Creator)
	w.writeAmount(wr.Amount)
	w.writeAddress(wr.Recipient)
	w.writeAddresses(wr.Approvals)
	w.writeBool(wr.Executed)
	w.writeInt64(wr.CreatedAt)
	w.writeInt64(wr.ExecutedAt)
	return w.bytes()
}

func DecodeWithdrawal(data []byte) (*WithdrawalRequest, error) {
	r := newReader(data)
	wr := &WithdrawalRequest{}
	var err error
	if wr.ID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if wr.Creator, err = r.readAddress(); err != nil {
		return nil, err
	}
	if wr.Amount, err = r.readAmount(); err != nil {
		return nil, err
	}
	if wr.Recipient, err = r.readAddress(); err != nil {
		return nil, err
	}
	if wr.Approvals, err = r.readAddresses(); err != nil {
		return nil, err
	}
	if wr.Executed, err = r.readBool(); err != nil {
		return nil, err
	}
	if wr.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	if wr.ExecutedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	return wr, nil
}
