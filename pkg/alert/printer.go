package alert

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/somnia-buy-listener/pkg/config"
	"github.com/somnia-buy-listener/pkg/explorer"
)

const siren = "🚨"

// Printer renders alerts as human-readable blocks. Safe for concurrent use.
type Printer struct {
	cfg *config.Config

	mu  sync.Mutex
	out io.Writer
}

func NewPrinter(out io.Writer, cfg *config.Config) *Printer {
	return &Printer{cfg: cfg, out: out}
}

var tierColors = map[Tier]*color.Color{
	TierMega:   color.New(color.FgRed, color.Bold),
	TierLarge:  color.New(color.FgHiYellow, color.Bold),
	TierMedium: color.New(color.FgYellow),
	TierSmall:  color.New(color.FgGreen),
}

var (
	labelColor  = color.New(color.FgCyan)
	noticeColor = color.New(color.FgHiRed, color.Bold)
)

// BuyAlert prints the tier banner and, when significant, the extra notice.
func (p *Printer) BuyAlert(a BuyAlert) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := a.Transfer
	amount := a.Amount.StringFixed(4)
	bar := strings.Repeat(siren, 20)
	head := tierColors[a.Tier]

	fmt.Fprintln(p.out, "\n"+bar)
	head.Fprintf(p.out, "%s NEW %s DETECTED! %s\n", a.Tier.Emoji(), a.Tier, a.Tier.Emoji())
	fmt.Fprintln(p.out, bar)
	p.field("💎 Amount", fmt.Sprintf("%s %s tokens", amount, p.cfg.TokenSymbol))
	p.field("⏰ Time", FormatTimestamp(t.Timestamp))
	p.field("📤 From", shorten(t.From.Hash, 12, 6))
	p.field("📥 To", shorten(t.To.Hash, 12, 6))
	if t.TxHash != "" {
		p.field("🔗 TX", shortenHead(t.TxHash, 25))
		p.field("🧾 Tx link", p.cfg.TxURL(t.TxHash))
	} else {
		p.field("🔗 TX", "N/A")
	}
	p.field("🌐 Explorer", p.cfg.TokenPageURL())
	fmt.Fprintln(p.out, bar+"\n")

	if a.Significant {
		noticeColor.Fprintf(p.out, "%s SIGNIFICANT BUY: %s tokens! %s\n",
			strings.Repeat(siren, 3), amount, strings.Repeat(siren, 3))
	}
}

// Baseline announces the first transfer adopted as the comparison point.
func (p *Printer) Baseline(t explorer.Transfer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "✅ Baseline set - Latest transfer: %s tokens at %s\n",
		t.FormattedAmount(), FormatTimestamp(t.Timestamp))
}

// Heartbeat is the quiet "still watching" tick.
func (p *Printer) Heartbeat() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.out, ".")
}

func (p *Printer) field(label, value string) {
	labelColor.Fprintf(p.out, "%s:", label)
	fmt.Fprintf(p.out, " %s\n", value)
}

func FormatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "Unknown"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

func shorten(addr string, head, tail int) string {
	if addr == "" {
		return "N/A"
	}
	if len(addr) <= head+tail {
		return addr
	}
	return addr[:head] + "..." + addr[len(addr)-tail:]
}

func shortenHead(s string, head int) string {
	if len(s) <= head {
		return s
	}
	return s[:head] + "..."
}
