package contract

import "charcoin/sdk"

// -----------------------------------------------------------------------------
// Config
// -----------------------------------------------------------------------------

// Wallets are the fixed destination/authority accounts set at initialization.
type Wallets struct {
	MonthlyTopTier              sdk.Address
	AnnualTopTier               sdk.Address
	MonthlyCharityLottery       sdk.Address
	AnnualCharityLottery        sdk.Address
	MonthlyOneTimeCauses        sdk.Address
	AnnualOneTimeCauses         sdk.Address
	MonthlyInfiniteImpactCauses sdk.Address
	AnnualInfiniteImpactCauses  sdk.Address
	CharFunds                   sdk.Address
	MarketingWallet1            sdk.Address
	MarketingWallet2            sdk.Address
	DeathWallet                 sdk.Address
	TreasuryAuthority           sdk.Address
	StakingReward               sdk.Address
}

// named returns the wallets in a fixed order, the codec and validation both lean on it.
func (w *Wallets) named() []namedAddress {
	return []namedAddress{
		{"monthlyTopTier", &w.MonthlyTopTier},
		{"annualTopTier", &w.AnnualTopTier},
		{"monthlyCharityLottery", &w.MonthlyCharityLottery},
		{"annualCharityLottery", &w.AnnualCharityLottery},
		{"monthlyOneTimeCauses", &w.MonthlyOneTimeCauses},
		{"annualOneTimeCauses", &w.AnnualOneTimeCauses},
		{"monthlyInfiniteImpactCauses", &w.MonthlyInfiniteImpactCauses},
		{"annualInfiniteImpactCauses", &w.AnnualInfiniteImpactCauses},
		{"charFunds", &w.CharFunds},
		{"marketingWallet1", &w.MarketingWallet1},
		{"marketingWallet2", &w.MarketingWallet2},
		{"deathWallet", &w.DeathWallet},
		{"treasuryAuthority", &w.TreasuryAuthority},
		{"stakingReward", &w.StakingReward},
	}
}

type namedAddress struct {
	name string
	addr *sdk.Address
}

// SplitKind picks one of the configurable release tables.
type SplitKind uint8

const (
	SplitRewards SplitKind = iota
	SplitDonations
	SplitStaking
)

func (k SplitKind) String() string {
	switch k {
	case SplitRewards:
		return "rewards"
	case SplitDonations:
		return "donations"
	case SplitStaking:
		return "staking"
	default:
		return "unknown"
	}
}

// Split sends Bps/10000 of a release to To.
type Split struct {
	To  sdk.Address
	Bps uint64
}

// Payout is one leg of a distribution, returned so callers can reconcile.
type Payout struct {
	To     sdk.Address
	Amount sdk.Amount
}

type Config struct {
	Operator  sdk.Address
	TokenMint sdk.Asset
	Wallets   Wallets
	Halted    bool

	MinGovernanceStake        sdk.Amount
	MinStakeDurationForVoting uint64 // seconds

	UnstakeCooldown        uint64 // seconds
	EarlyUnstakePenalty    uint64 // per mille of principal
	ForfeitUnclaimedReward bool

	TotalBurned sdk.Amount
	LastBurnAt  int64

	RewardSplits   []Split
	DonationSplits []Split
	StakingSplits  []Split

	// filled from the id counters on read, never encoded
	NextCharityID  uint64
	NextProposalID uint64
	NextStakingID  uint64
}

func (c *Config) splits(kind SplitKind) []Split {
	switch kind {
	case SplitRewards:
		return c.RewardSplits
	case SplitDonations:
		return c.DonationSplits
	default:
		return c.StakingSplits
	}
}

// InitializeArgs is the payload for Initialize, the sender becomes operator.
type InitializeArgs struct {
	TokenMint                 sdk.Asset
	Wallets                   Wallets
	MinGovernanceStake        sdk.Amount
	MinStakeDurationForVoting uint64
}

// -----------------------------------------------------------------------------
// Staking
// -----------------------------------------------------------------------------

// RewardTier is (minLockup, rate, votePower) with rate and power read as x/Denominator.
type RewardTier struct {
	MinLockup   uint64 // seconds
	RewardRate  uint64
	VotePower   uint64
	Denominator uint64
}

type StakingPool struct {
	TokenMint   sdk.Asset
	Vault       sdk.Address
	TotalStaked sdk.Amount
	CreatedAt   int64
}

type StakeEntry struct {
	Owner              sdk.Address
	ID                 uint64 // per owner sequence
	GlobalID           uint64
	Amount             sdk.Amount
	Lockup             uint64 // seconds
	Tier               RewardTier
	CreatedAt          int64
	UnstakeRequestedAt int64 // 0 = not requested
	UnstakedAt         int64 // 0 = active
	RewardClaimed      bool
	RewardPaid         sdk.Amount
	Penalty            sdk.Amount
}

// Active is true until the principal went back to the owner.
func (e *StakeEntry) Active() bool { return e.UnstakedAt == 0 }

// UserStake aggregates all active entries of one owner.
type UserStake struct {
	Owner          sdk.Address
	NextSeq        uint64
	TotalAmount    sdk.Amount
	TotalVotePower sdk.Amount
	ActiveEntries  uint64
	EligibleAt     int64 // 0 = below governance minimum
}

// -----------------------------------------------------------------------------
// Governance
// -----------------------------------------------------------------------------

// BallotKind namespaces vote records so charity 3 and proposal 3 dont clash.
type BallotKind byte

const (
	BallotCharity  BallotKind = 1
	BallotProposal BallotKind = 2
)

func (k BallotKind) String() string {
	switch k {
	case BallotCharity:
		return "charity"
	case BallotProposal:
		return "proposal"
	default:
		return "unknown"
	}
}

type Charity struct {
	ID          uint64
	Name        string
	Description string
	Wallet      sdk.Address
	Registrar   sdk.Address
	StartTime   int64
	EndTime     int64
	Tally       sdk.Amount
	Voters      uint64
	Finalized   bool
	FinalizedAt int64
}

type ProposalStatus uint8

const (
	ProposalOpen ProposalStatus = iota
	ProposalApproved
	ProposalRejected
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalOpen:
		return "open"
	case ProposalApproved:
		return "approved"
	case ProposalRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

type Proposal struct {
	ID          uint64
	Title       string
	Description string
	Proposer    sdk.Address
	CreatedAt   int64
	Duration    uint64 // seconds
	Yes         sdk.Amount
	No          sdk.Amount
	Voters      uint64
	Status      ProposalStatus
	Finalized   bool
	FinalizedAt int64
}

// VoteRecord exists once per (kind, ballot, voter) and is immutable.
type VoteRecord struct {
	Kind      BallotKind
	BallotID  uint64
	Voter     sdk.Address
	Approve   bool
	Weight    sdk.Amount
	Timestamp int64
}

// -----------------------------------------------------------------------------
// Treasury
// -----------------------------------------------------------------------------

type Treasury struct {
	Owners    []sdk.Address
	Threshold uint64
	Vault     sdk.Address
	CreatedAt int64
}

type WithdrawalRequest struct {
	ID         uint64
	Creator    sdk.Address
	Amount     sdk.Amount
	Recipient  sdk.Address
	Approvals  []sdk.Address
	Executed   bool
	CreatedAt  int64
	ExecutedAt int64
}
