package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/somnia-buy-listener/pkg/alert"
	"github.com/somnia-buy-listener/pkg/config"
	"github.com/somnia-buy-listener/pkg/dashboard"
	"github.com/somnia-buy-listener/pkg/db"
	"github.com/somnia-buy-listener/pkg/explorer"
	"github.com/somnia-buy-listener/pkg/listener"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Info().Msg("🎮 Somnia buy listener initialized")

	store, err := db.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("journal init failed")
	}
	defer store.Close()

	client := explorer.New(cfg)
	printer := alert.NewPrinter(os.Stdout, cfg)
	lst := listener.New(cfg, client, printer, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		// a second signal falls through to the default handler
		signal.Stop(sigCh)
		fmt.Println()
		log.Info().Msg("👋 received shutdown signal...")
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.DashboardPort > 0 {
		dash := dashboard.New(store, lst, cfg.DashboardPort)
		g.Go(func() error { return dash.Run(gctx) })
	}

	printSummary(cfg)
	lst.Start(gctx)
	g.Go(func() error {
		<-gctx.Done()
		lst.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("error")
	}
	printSessionReport(store)
	log.Info().Msg("goodbye 👋")
}

func printSummary(cfg *config.Config) {
	lines := []string{
		"🎮 SOMNIA BUY LISTENER",
		"",
		fmt.Sprintf("🎯 Monitoring:      %s", cfg.ChecksumContract()),
		fmt.Sprintf("⏱️  Poll interval:   %s", cfg.PollInterval),
		fmt.Sprintf("🚨 Alert threshold: %s %s", cfg.AlertThreshold, cfg.TokenSymbol),
		fmt.Sprintf("🌐 Explorer:        %s", cfg.TokenPageURL()),
	}
	if cfg.DashboardPort > 0 {
		lines = append(lines, fmt.Sprintf("📊 Dashboard:       http://localhost:%d", cfg.DashboardPort))
	}
	lines = append(lines, "", "Press Ctrl+C to stop")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 2)
	fmt.Println("\n" + box.Render(strings.Join(lines, "\n")) + "\n")
}

func printSessionReport(store *db.Store) {
	tiers, err := store.GetTierCounts()
	if err != nil {
		log.Warn().Err(err).Msg("session report unavailable")
		return
	}
	stats, err := store.GetStats()
	if err != nil {
		log.Warn().Err(err).Msg("session stats unavailable")
	}

	fmt.Println("\n📋 Session report")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Tier", "Alerts"})
	for _, t := range []alert.Tier{alert.TierMega, alert.TierLarge, alert.TierMedium, alert.TierSmall} {
		table.Append([]string{t.Emoji() + " " + t.String(), fmt.Sprint(tiers[t.String()])})
	}
	table.Append([]string{"Significant buys", fmt.Sprint(tiers["significant"])})
	table.SetFooter([]string{"Transfers observed", fmt.Sprint(stats["observed_transfers"])})
	table.Render()
}
