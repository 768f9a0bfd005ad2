package explorer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDecimals applies when the explorer omits total.decimals.
const DefaultDecimals = 18

// maxDecimals bounds total.decimals to what an ERC-20 uint8 can carry.
const maxDecimals = 255

// ---- Blockscout v2 token transfer ----

type Transfer struct {
	Timestamp time.Time   `json:"timestamp"`
	Total     TotalAmount `json:"total"`
	TxHash    string      `json:"tx_hash"`
	From      AddressRef  `json:"from"`
	To        AddressRef  `json:"to"`
}

type TotalAmount struct {
	Value    string    `json:"value"`    // raw integer amount, string-encoded
	Decimals *Decimals `json:"decimals"` // nil when absent
}

type AddressRef struct {
	Hash string `json:"hash"`
}

type transfersPage struct {
	Items []Transfer `json:"items"`
}

// Decimals accepts both `"18"` and `18`; Blockscout sends the string form.
type Decimals int

func (d *Decimals) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*d = DefaultDecimals
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("decimals %q: %w", b, err)
	}
	if n < 0 || n > maxDecimals {
		return fmt.Errorf("decimals %d out of range 0..%d", n, maxDecimals)
	}
	*d = Decimals(n)
	return nil
}

func (d Decimals) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(d)))
}

// Scale returns the decimal scale, defaulting to 18.
func (t TotalAmount) Scale() int32 {
	if t.Decimals == nil {
		return DefaultDecimals
	}
	return int32(*t.Decimals)
}

// Amount is value / 10^decimals. A missing or malformed value is zero.
func (t Transfer) Amount() decimal.Decimal {
	if t.Total.Value == "" {
		return decimal.Zero
	}
	raw, err := decimal.NewFromString(t.Total.Value)
	if err != nil {
		return decimal.Zero
	}
	return raw.Shift(-t.Total.Scale())
}

// FormattedAmount renders the normalized amount with four decimal places.
func (t Transfer) FormattedAmount() string {
	return t.Amount().StringFixed(4)
}
