package alert

import (
	"github.com/shopspring/decimal"

	"github.com/somnia-buy-listener/pkg/explorer"
)

type Tier int

const (
	TierSmall Tier = iota
	TierMedium
	TierLarge
	TierMega
)

var (
	megaFloor   = decimal.NewFromInt(100000)
	largeFloor  = decimal.NewFromInt(50000)
	mediumFloor = decimal.NewFromInt(10000)
)

// Classify picks the first tier whose floor the amount reaches, high to low.
func Classify(amount decimal.Decimal) Tier {
	switch {
	case amount.GreaterThanOrEqual(megaFloor):
		return TierMega
	case amount.GreaterThanOrEqual(largeFloor):
		return TierLarge
	case amount.GreaterThanOrEqual(mediumFloor):
		return TierMedium
	default:
		return TierSmall
	}
}

func (t Tier) String() string {
	switch t {
	case TierMega:
		return "MEGA BUY"
	case TierLarge:
		return "LARGE BUY"
	case TierMedium:
		return "MEDIUM BUY"
	default:
		return "SMALL BUY"
	}
}

func (t Tier) Emoji() string {
	switch t {
	case TierMega:
		return "🔴"
	case TierLarge:
		return "🟠"
	case TierMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

// BuyAlert is one classified, new buy ready to be shown.
type BuyAlert struct {
	Transfer    explorer.Transfer
	Amount      decimal.Decimal
	Tier        Tier
	Significant bool // Amount >= ALERT_THRESHOLD, independent of tier
}

func NewBuyAlert(t explorer.Transfer, threshold decimal.Decimal) BuyAlert {
	amount := t.Amount()
	return BuyAlert{
		Transfer:    t,
		Amount:      amount,
		Tier:        Classify(amount),
		Significant: amount.GreaterThanOrEqual(threshold),
	}
}
