package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somnia-buy-listener/pkg/db"
	"github.com/somnia-buy-listener/pkg/explorer"
	"github.com/somnia-buy-listener/pkg/listener"
)

type fixedStatus listener.Status

func (f fixedStatus) Status() listener.Status { return listener.Status(f) }

func newDashboard(t *testing.T) (*Dashboard, *db.Store) {
	t.Helper()
	store, err := db.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	st := fixedStatus{
		Running:      true,
		Contract:     "0x5a4d2c6b0e3e1c2b7f3a9c1d8e6f4a2b0c9d7e5f",
		PollInterval: "10s",
		Baseline: &explorer.Transfer{
			Timestamp: time.Unix(100, 0).UTC(),
			Total:     explorer.TotalAmount{Value: "5000"},
			TxHash:    "0xbase",
		},
	}
	return New(store, st, 0), store
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestStatus(t *testing.T) {
	d, _ := newDashboard(t)
	rec := get(t, d.Handler(), "/api/status")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["running"])
	assert.Equal(t, "10s", body["poll_interval"])
	baseline := body["baseline"].(map[string]interface{})
	assert.Equal(t, "0xbase", baseline["tx_hash"])
}

func TestAlertsAndStats(t *testing.T) {
	d, store := newDashboard(t)
	h := d.Handler()

	rec := get(t, h, "/api/alerts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	require.NoError(t, store.InsertAlert(db.BuyAlert{Contract: "0xc", TxHash: "0x1", Amount: "120000", Tier: "MEGA BUY", Significant: true}))
	require.NoError(t, store.InsertAlert(db.BuyAlert{Contract: "0xc", TxHash: "0x2", Amount: "20", Tier: "SMALL BUY"}))

	rec = get(t, h, "/api/alerts?limit=1")
	var alerts []db.BuyAlert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "0x2", alerts[0].TxHash)

	rec = get(t, h, "/api/stats")
	var stats struct {
		Totals map[string]int64 `json:"totals"`
		Tiers  map[string]int64 `json:"tiers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Totals["buy_alerts"])
	assert.Equal(t, int64(1), stats.Tiers["MEGA BUY"])
	assert.Equal(t, int64(1), stats.Tiers["significant"])
}

func TestObservations_empty(t *testing.T) {
	d, _ := newDashboard(t)
	rec := get(t, d.Handler(), "/api/observations")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMethodsAndMetrics(t *testing.T) {
	d, _ := newDashboard(t)
	h := d.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/status", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}
