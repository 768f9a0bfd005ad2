package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/somnia-buy-listener/pkg/db"
	"github.com/somnia-buy-listener/pkg/listener"
)

type StatusProvider interface {
	Status() listener.Status
}

// Dashboard exposes read-only listener state over HTTP.
type Dashboard struct {
	store    *db.Store
	listener StatusProvider
	port     int
}

func New(store *db.Store, l StatusProvider, port int) *Dashboard {
	return &Dashboard{store: store, listener: l, port: port}
}

func (d *Dashboard) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", cors(d.handleStatus))
	mux.HandleFunc("/api/stats", cors(d.handleStats))
	mux.HandleFunc("/api/alerts", cors(d.handleAlerts))
	mux.HandleFunc("/api/observations", cors(d.handleObservations))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Run serves until ctx is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", d.port),
		Handler:           d.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	log.Info().Str("addr", srv.Addr).Msg("🌐 dashboard started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func cors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "GET only", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func limitParam(r *http.Request, fallback int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			return n
		}
	}
	return fallback
}

func (d *Dashboard) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, d.listener.Status())
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := d.store.GetStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	tiers, err := d.store.GetTierCounts()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"totals": stats,
		"tiers":  tiers,
	})
}

func (d *Dashboard) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := d.store.GetRecentAlerts(limitParam(r, 50))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = []db.BuyAlert{}
	}
	writeJSON(w, alerts)
}

func (d *Dashboard) handleObservations(w http.ResponseWriter, r *http.Request) {
	obs, err := d.store.GetRecentObservations(limitParam(r, 50))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if obs == nil {
		obs = []db.Observation{}
	}
	writeJSON(w, obs)
}
