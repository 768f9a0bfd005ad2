package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS observed_transfers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    contract TEXT NOT NULL,
    tx_hash TEXT,
    from_address TEXT,
    to_address TEXT,
    raw_value TEXT,
    decimals INTEGER DEFAULT 18,
    transfer_time TIMESTAMP,
    outcome TEXT NOT NULL,
    observed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS buy_alerts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    contract TEXT NOT NULL,
    tx_hash TEXT,
    from_address TEXT,
    to_address TEXT,
    amount TEXT NOT NULL,
    tier TEXT NOT NULL,
    significant BOOLEAN DEFAULT FALSE,
    transfer_time TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_obs_outcome ON observed_transfers(outcome);
CREATE INDEX IF NOT EXISTS idx_alert_tier ON buy_alerts(tier);
`

// Store is the session journal. It only ever grows during a run and is never
// read back to seed the listener.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// an in-memory database lives and dies with its connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ---- Observations ----

func (s *Store) RecordObservation(o Observation) error {
	_, err := s.db.Exec(`
		INSERT INTO observed_transfers (contract, tx_hash, from_address, to_address, raw_value, decimals, transfer_time, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Contract, o.TxHash, o.FromAddress, o.ToAddress, o.RawValue, o.Decimals, o.TransferTime.UTC(), o.Outcome)
	return err
}

func (s *Store) GetRecentObservations(limit int) ([]Observation, error) {
	rows, err := s.db.Query(`
		SELECT id, contract, COALESCE(tx_hash,''), COALESCE(from_address,''), COALESCE(to_address,''),
			COALESCE(raw_value,''), decimals, transfer_time, outcome, observed_at
		FROM observed_transfers ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obs []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.ID, &o.Contract, &o.TxHash, &o.FromAddress, &o.ToAddress,
			&o.RawValue, &o.Decimals, &o.TransferTime, &o.Outcome, &o.ObservedAt); err != nil {
			continue
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

// ---- Alerts ----

func (s *Store) InsertAlert(a BuyAlert) error {
	_, err := s.db.Exec(`
		INSERT INTO buy_alerts (contract, tx_hash, from_address, to_address, amount, tier, significant, transfer_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Contract, a.TxHash, a.FromAddress, a.ToAddress, a.Amount, a.Tier, a.Significant, a.TransferTime.UTC())
	return err
}

func (s *Store) GetRecentAlerts(limit int) ([]BuyAlert, error) {
	rows, err := s.db.Query(`
		SELECT id, contract, COALESCE(tx_hash,''), COALESCE(from_address,''), COALESCE(to_address,''),
			amount, tier, significant, transfer_time, created_at
		FROM buy_alerts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []BuyAlert
	for rows.Next() {
		var a BuyAlert
		if err := rows.Scan(&a.ID, &a.Contract, &a.TxHash, &a.FromAddress, &a.ToAddress,
			&a.Amount, &a.Tier, &a.Significant, &a.TransferTime, &a.CreatedAt); err != nil {
			continue
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// GetTierCounts returns alert counts keyed by tier label, plus significant buys.
func (s *Store) GetTierCounts() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT tier, COUNT(*) FROM buy_alerts GROUP BY tier`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var tier string
		var n int64
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, err
		}
		counts[tier] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var sig int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM buy_alerts WHERE significant`).Scan(&sig); err != nil {
		return nil, err
	}
	counts["significant"] = sig
	return counts, nil
}

// ---- Stats ----

func (s *Store) GetStats() (map[string]int64, error) {
	stats := map[string]int64{}
	for _, t := range []string{"observed_transfers", "buy_alerts"} {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err != nil {
			return nil, err
		}
		stats[t] = count
	}

	var unchanged int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM observed_transfers WHERE outcome = ?", OutcomeUnchanged).Scan(&unchanged); err != nil {
		return nil, err
	}
	stats["heartbeats"] = unchanged

	return stats, nil
}
