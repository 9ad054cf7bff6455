package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS draft_history (
	lobby_id    TEXT PRIMARY KEY,
	finished_at INTEGER NOT NULL,
	pools_json  TEXT NOT NULL,
	config_json TEXT NOT NULL
);`

type sqliteService struct {
	db *sql.DB
}

// NewSQLiteServiceFromEnv opens (creating if absent) the SQLite file at
// ARCHIVE_SQLITE_PATH, defaulting to draft_history.db in the working
// directory.
func NewSQLiteServiceFromEnv() (Service, error) {
	path := os.Getenv("ARCHIVE_SQLITE_PATH")
	if path == "" {
		path = "draft_history.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers anyway

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &sqliteService{db: db}, nil
}

func (s *sqliteService) Close() error { return s.db.Close() }

func (s *sqliteService) RecordFinishedDraft(ctx context.Context, rec DraftHistoryRecord) error {
	poolsJSON, configJSON, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO draft_history (lobby_id, finished_at, pools_json, config_json)
VALUES (?, ?, ?, ?)
ON CONFLICT(lobby_id) DO UPDATE SET finished_at=excluded.finished_at, pools_json=excluded.pools_json, config_json=excluded.config_json`,
		rec.LobbyID.String(), rec.FinishedAt.Unix(), poolsJSON, configJSON)
	return err
}

func (s *sqliteService) ListRecent(ctx context.Context, limit int) ([]DraftHistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT lobby_id, finished_at, pools_json, config_json FROM draft_history
ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]DraftHistoryRecord, error) {
	var out []DraftHistoryRecord
	for rows.Next() {
		var lobbyID string
		var finishedAtUnix int64
		var poolsJSON, configJSON string
		if err := rows.Scan(&lobbyID, &finishedAtUnix, &poolsJSON, &configJSON); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(lobbyID, finishedAtUnix, poolsJSON, configJSON)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func encodeRecord(rec DraftHistoryRecord) (poolsJSON, configJSON string, err error) {
	pb, err := json.Marshal(rec.Pools)
	if err != nil {
		return "", "", fmt.Errorf("marshal pools: %w", err)
	}
	cb, err := json.Marshal(rec.Config)
	if err != nil {
		return "", "", fmt.Errorf("marshal config: %w", err)
	}
	return string(pb), string(cb), nil
}

func decodeRecord(lobbyID string, finishedAtUnix int64, poolsJSON, configJSON string) (DraftHistoryRecord, error) {
	id, err := uuid.Parse(lobbyID)
	if err != nil {
		return DraftHistoryRecord{}, fmt.Errorf("parse lobby id: %w", err)
	}
	var rec DraftHistoryRecord
	rec.LobbyID = id
	rec.FinishedAt = time.Unix(finishedAtUnix, 0).UTC()
	if err := json.Unmarshal([]byte(poolsJSON), &rec.Pools); err != nil {
		return DraftHistoryRecord{}, fmt.Errorf("unmarshal pools: %w", err)
	}
	if err := json.Unmarshal([]byte(configJSON), &rec.Config); err != nil {
		return DraftHistoryRecord{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return rec, nil
}
