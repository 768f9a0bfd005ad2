package alert

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/somnia-buy-listener/pkg/config"
	"github.com/somnia-buy-listener/pkg/explorer"
)

func init() {
	color.NoColor = true
}

func TestClassify_boundaries(t *testing.T) {
	cases := map[string]Tier{
		"1000000":    TierMega,
		"100000":     TierMega,
		"99999.9999": TierLarge,
		"50000":      TierLarge,
		"49999.9999": TierMedium,
		"10000":      TierMedium,
		"9999.9999":  TierSmall,
		"0.0001":     TierSmall,
	}
	for amount, want := range cases {
		got := Classify(decimal.RequireFromString(amount))
		assert.Equal(t, want, got, "amount %s", amount)
	}
}

func TestTier_labels(t *testing.T) {
	assert.Equal(t, "MEGA BUY", TierMega.String())
	assert.Equal(t, "LARGE BUY", TierLarge.String())
	assert.Equal(t, "MEDIUM BUY", TierMedium.String())
	assert.Equal(t, "SMALL BUY", TierSmall.String())
	assert.Equal(t, "🔴", TierMega.Emoji())
	assert.Equal(t, "🟢", TierSmall.Emoji())
}

func transfer(value string, ts time.Time) explorer.Transfer {
	d := explorer.Decimals(18)
	return explorer.Transfer{
		Timestamp: ts,
		Total:     explorer.TotalAmount{Value: value, Decimals: &d},
		TxHash:    "0x9f8e7d6c5b4a39281706f5e4d3c2b1a09f8e7d6c5b4a39281706f5e4d3c2b1a0",
		From:      explorer.AddressRef{Hash: "0x1111111111222222222233333333334444444444"},
		To:        explorer.AddressRef{Hash: "0x5555555555666666666677777777778888888888"},
	}
}

func TestNewBuyAlert(t *testing.T) {
	threshold := decimal.NewFromInt(1000)

	a := NewBuyAlert(transfer("120000000000000000000000", time.Unix(200, 0)), threshold)
	assert.Equal(t, TierMega, a.Tier)
	assert.True(t, a.Significant)
	assert.Equal(t, "120000", a.Amount.String())

	a = NewBuyAlert(transfer("999000000000000000000", time.Unix(200, 0)), threshold)
	assert.Equal(t, TierSmall, a.Tier)
	assert.False(t, a.Significant)

	a = NewBuyAlert(transfer("1000000000000000000000", time.Unix(200, 0)), threshold)
	assert.True(t, a.Significant, "threshold is inclusive")
}

func testConfig() *config.Config {
	return &config.Config{
		ExplorerURL:    "https://explorer.somnia.network",
		TargetContract: "0x5a4d2c6b0e3e1c2b7f3a9c1d8e6f4a2b0c9d7e5f",
		TokenSymbol:    "SCHWEPE",
	}
}

func TestPrinter_BuyAlert(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, testConfig())

	p.BuyAlert(NewBuyAlert(transfer("120000000000000000000000", time.Unix(200, 0)), decimal.NewFromInt(1000)))
	out := buf.String()

	assert.Contains(t, out, "🔴 NEW MEGA BUY DETECTED! 🔴")
	assert.Contains(t, out, "💎 Amount: 120000.0000 SCHWEPE tokens")
	assert.Contains(t, out, "📤 From: 0x1111111111...444444")
	assert.Contains(t, out, "📥 To: 0x5555555555...888888")
	assert.Contains(t, out, "🔗 TX: 0x9f8e7d6c5b4a39281706f5e...")
	assert.Contains(t, out, "🌐 Explorer: https://explorer.somnia.network/token/0x5a4d2c6b0e3e1c2b7f3a9c1d8e6f4a2b0c9d7e5f")
	assert.Contains(t, out, "SIGNIFICANT BUY: 120000.0000 tokens!")
}

func TestPrinter_BuyAlert_belowThreshold(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, testConfig())

	tr := transfer("500000000000000000000", time.Time{})
	tr.TxHash, tr.From.Hash = "", ""
	p.BuyAlert(NewBuyAlert(tr, decimal.NewFromInt(1000)))
	out := buf.String()

	assert.Contains(t, out, "NEW SMALL BUY DETECTED!")
	assert.Contains(t, out, "⏰ Time: Unknown")
	assert.Contains(t, out, "📤 From: N/A")
	assert.Contains(t, out, "🔗 TX: N/A")
	assert.NotContains(t, out, "SIGNIFICANT")
}

func TestPrinter_BaselineAndHeartbeat(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, testConfig())

	p.Baseline(transfer("5000000000000000000000", time.Unix(100, 0)))
	p.Heartbeat()
	p.Heartbeat()

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "✅ Baseline set - Latest transfer: 5000.0000 tokens at "))
	assert.True(t, strings.HasSuffix(out, ".."))
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "N/A", shorten("", 12, 6))
	assert.Equal(t, "0xshort", shorten("0xshort", 12, 6))
	assert.Equal(t, "abcdef", shortenHead("abcdef", 25))
}
