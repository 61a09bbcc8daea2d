package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"StockPulse/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists snapshots to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read history while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id              TEXT PRIMARY KEY,
			ticker          TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			price           REAL,
			last_close      REAL,
			ema9            REAL,
			ema21           REAL,
			ema34           REAL,
			ema50           REAL,
			ema100          REAL,
			ema200          REAL,
			macd            REAL,
			macd_signal     REAL,
			obv             REAL,
			trend           TEXT,
			sentiment_score REAL,
			sentiment_label TEXT,
			news_count      INTEGER,
			forum_count     INTEGER,
			stream_count    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ticker_ts ON snapshots(ticker, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSnapshot(snap *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO snapshots
		(id, ticker, timestamp, price, last_close,
		 ema9, ema21, ema34, ema50, ema100, ema200,
		 macd, macd_signal, obv, trend,
		 sentiment_score, sentiment_label, news_count, forum_count, stream_count)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.ID, snap.Ticker, snap.Timestamp.UnixMilli(), snap.Price, nullFloat(snap.LastClose),
		nullFloat(snap.EMA[int(model.EMA9)]), nullFloat(snap.EMA[int(model.EMA21)]), nullFloat(snap.EMA[int(model.EMA34)]),
		nullFloat(snap.EMA[int(model.EMA50)]), nullFloat(snap.EMA[int(model.EMA100)]), nullFloat(snap.EMA[int(model.EMA200)]),
		nullFloat(snap.MACD), nullFloat(snap.MACDSignal), nullFloat(snap.OBV), snap.Trend,
		snap.SentimentScore, snap.SentimentLabel, snap.NewsCount, snap.ForumCount, snap.StreamCount,
	)
	return err
}

// RecentSnapshots returns up to limit snapshots for ticker, newest first.
func (r *SQLiteRecorder) RecentSnapshots(ticker string, limit int) ([]Snapshot, error) {
	rows, err := r.db.Query(`SELECT
		id, ticker, timestamp, price, last_close,
		ema9, ema21, ema34, ema50, ema100, ema200,
		macd, macd_signal, obv, trend,
		sentiment_score, sentiment_label, news_count, forum_count, stream_count
		FROM snapshots WHERE ticker = ? ORDER BY timestamp DESC LIMIT ?`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		var (
			s                       Snapshot
			ts                      int64
			ema                     [6]sql.NullFloat64
			last, macd, signal, obv sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.Ticker, &ts, &s.Price, &last,
			&ema[0], &ema[1], &ema[2], &ema[3], &ema[4], &ema[5],
			&macd, &signal, &obv, &s.Trend,
			&s.SentimentScore, &s.SentimentLabel, &s.NewsCount, &s.ForumCount, &s.StreamCount,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.Timestamp = time.UnixMilli(ts)
		s.LastClose = nullable(last)
		s.MACD = nullable(macd)
		s.MACDSignal = nullable(signal)
		s.OBV = nullable(obv)
		s.EMA = make(map[int]*float64, len(model.EMAPeriods))
		for i, p := range model.EMAPeriods {
			s.EMA[int(p)] = nullable(ema[i])
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
