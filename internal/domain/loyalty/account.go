package loyalty

import (
	"time"

	"car-rental-backend/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrZeroPointDelta     = errs.New("point delta must be non-zero")
	ErrInsufficientPoints = errs.New("insufficient point balance")
	ErrEmptyReason        = errs.New("transaction reason must not be empty")
)

// Tier is derived solely from the cumulative point balance.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Fixed thresholds; re-evaluated on every transaction.
const (
	silverThreshold   = 1000
	goldThreshold     = 2000
	platinumThreshold = 5000
)

func TierForBalance(points int64) Tier {
	switch {
	case points >= platinumThreshold:
		return TierPlatinum
	case points >= goldThreshold:
		return TierGold
	case points >= silverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

func (t Tier) String() string {
	return string(t)
}

// PriceMultiplier scales a booking total by the tier discount.
func (t Tier) PriceMultiplier() decimal.Decimal {
	switch t {
	case TierSilver:
		return decimal.NewFromFloat(0.95)
	case TierGold:
		return decimal.NewFromFloat(0.90)
	case TierPlatinum:
		return decimal.NewFromFloat(0.85)
	default:
		return decimal.NewFromInt(1)
	}
}

type TransactionType string

const (
	TransactionEarned   TransactionType = "earned"
	TransactionRedeemed TransactionType = "redeemed"
)

func (t TransactionType) String() string {
	return string(t)
}

// Transaction is an immutable ledger entry. The account balance is, at any
// point in time, the sum of all its transactions' point deltas.
type Transaction struct {
	id        uuid.UUID
	accountID uuid.UUID
	points    int64
	txType    TransactionType
	reason    string
	createdAt time.Time
}

func NewTransaction(accountID uuid.UUID, points int64, reason string, now time.Time) (*Transaction, error) {
	if points == 0 {
		return nil, ErrZeroPointDelta
	}
	if reason == "" {
		return nil, ErrEmptyReason
	}
	txType := TransactionEarned
	if points < 0 {
		txType = TransactionRedeemed
	}
	return &Transaction{
		id:        uuid.New(),
		accountID: accountID,
		points:    points,
		txType:    txType,
		reason:    reason,
		createdAt: now,
	}, nil
}

func (t *Transaction) ID() uuid.UUID         { return t.id }
func (t *Transaction) AccountID() uuid.UUID  { return t.accountID }
func (t *Transaction) Points() int64         { return t.points }
func (t *Transaction) Type() TransactionType { return t.txType }
func (t *Transaction) Reason() string        { return t.reason }
func (t *Transaction) CreatedAt() time.Time  { return t.createdAt }

// Account holds the running balance. Created lazily on a user's first points
// event; mutated only through appended transactions.
type Account struct {
	id        uuid.UUID
	userID    uuid.UUID
	points    int64
	tier      Tier
	updatedAt time.Time
}

func NewAccount(userID uuid.UUID, now time.Time) *Account {
	return &Account{
		id:        uuid.New(),
		userID:    userID,
		points:    0,
		tier:      TierBronze,
		updatedAt: now,
	}
}

func ReconstructAccount(id, userID uuid.UUID, points int64, tier Tier, updatedAt time.Time) *Account {
	return &Account{id: id, userID: userID, points: points, tier: tier, updatedAt: updatedAt}
}

// Apply validates a delta against the current balance and returns the
// resulting balance and tier. Redemptions may not drive the balance negative.
func (a *Account) Apply(delta int64) (int64, Tier, error) {
	if delta == 0 {
		return 0, "", ErrZeroPointDelta
	}
	next := a.points + delta
	if next < 0 {
		return 0, "", ErrInsufficientPoints
	}
	return next, TierForBalance(next), nil
}

func (a *Account) ID() uuid.UUID        { return a.id }
func (a *Account) UserID() uuid.UUID    { return a.userID }
func (a *Account) Points() int64        { return a.points }
func (a *Account) Tier() Tier           { return a.tier }
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }

// Replay recomputes balance and tier from scratch over a transaction history.
// Used to assert the ledger invariant: stored balance == sum of deltas.
func Replay(deltas []int64) (int64, Tier) {
	var balance int64
	for _, d := range deltas {
		balance += d
	}
	return balance, TierForBalance(balance)
}
