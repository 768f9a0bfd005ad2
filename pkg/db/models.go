package db

import (
	"time"
)

// Outcomes of a poll cycle that produced a transfer.
const (
	OutcomeBaseline  = "baseline"  // first transfer seen, adopted without alert
	OutcomeAlert     = "alert"     // new and a buy
	OutcomeNew       = "new"       // new but not a buy
	OutcomeUnchanged = "unchanged" // same as the baseline
)

type Observation struct {
	ID           int64     `json:"id"`
	Contract     string    `json:"contract"`
	TxHash       string    `json:"tx_hash"`
	FromAddress  string    `json:"from_address"`
	ToAddress    string    `json:"to_address"`
	RawValue     string    `json:"raw_value"`
	Decimals     int       `json:"decimals"`
	TransferTime time.Time `json:"transfer_time"`
	Outcome      string    `json:"outcome"`
	ObservedAt   time.Time `json:"observed_at"`
}

type BuyAlert struct {
	ID           int64     `json:"id"`
	Contract     string    `json:"contract"`
	TxHash       string    `json:"tx_hash"`
	FromAddress  string    `json:"from_address"`
	ToAddress    string    `json:"to_address"`
	Amount       string    `json:"amount"` // normalized, decimal string
	Tier         string    `json:"tier"`
	Significant  bool      `json:"significant"`
	TransferTime time.Time `json:"transfer_time"`
	CreatedAt    time.Time `json:"created_at"`
}
