package storage

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/vovakirdan/blockdrop/internal/replay"
)

// ReplayEntry is the metadata of a stored replay.
type ReplayEntry struct {
	ID         int64
	Player     string
	Seed       uint64
	Score      int
	Frames     int
	Duration   time.Duration
	Verified   bool
	RecordedAt time.Time
	CreatedAt  time.Time
}

// StoredReplay is a replay together with its row metadata.
type StoredReplay struct {
	ReplayEntry
	Data replay.Data
}

// SaveReplay stores a finalized replay and its score in one transaction.
// verified marks whether the caller has already checked the score by
// playing the replay back. Returns the replay ID.
func (s *Store) SaveReplay(d replay.Data, verified bool) (int64, error) {
	var buf bytes.Buffer
	if err := replay.Encode(&buf, d); err != nil {
		return 0, fmt.Errorf("storage: cannot encode replay: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec(
		`INSERT INTO replays
		 (player, seed, score, frames, duration_ms, version, verified, recorded_at, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.PlayerName,
		strconv.FormatUint(d.Seed, 10),
		d.FinalScore,
		d.Frames,
		d.DurationMS,
		d.Version,
		boolInt(verified),
		unixMilli(d.RecordedAt),
		buf.Bytes(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save replay: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO scores (player, score, verified, replay_id) VALUES (?, ?, ?, ?)",
		d.PlayerName, d.FinalScore, boolInt(verified), id,
	); err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit replay: %w", err)
	}
	return id, nil
}

// HasReplay reports whether a replay of the same run is already stored.
// Runs are matched on seed, player, recording time, score and length.
func (s *Store) HasReplay(d replay.Data) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM replays
		 WHERE seed = ? AND player = ? AND recorded_at = ? AND score = ? AND frames = ?`,
		strconv.FormatUint(d.Seed, 10), d.PlayerName, unixMilli(d.RecordedAt), d.FinalScore, d.Frames,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage: cannot look up replay: %w", err)
	}
	return n > 0, nil
}

// Replay loads a stored replay by ID. Returns ErrNotFound if it is missing.
func (s *Store) Replay(id int64) (StoredReplay, error) {
	row := s.db.QueryRow(
		`SELECT id, player, seed, score, frames, duration_ms, verified, recorded_at, created_at, data
		 FROM replays
		 WHERE id = ?`,
		id,
	)
	r, err := scanReplay(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredReplay{}, fmt.Errorf("storage: replay %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return StoredReplay{}, err
	}
	return r, nil
}

// ListReplays returns replay metadata, best scores first.
func (s *Store) ListReplays(limit int) ([]ReplayEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, player, seed, score, frames, duration_ms, verified, recorded_at, created_at
		 FROM replays
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var entries []ReplayEntry
	for rows.Next() {
		r, err := scanReplay(rows, false)
		if err != nil {
			return nil, err
		}
		entries = append(entries, r.ReplayEntry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// AllReplays returns every stored replay with its data, in insertion order.
func (s *Store) AllReplays() ([]StoredReplay, error) {
	rows, err := s.db.Query(
		`SELECT id, player, seed, score, frames, duration_ms, verified, recorded_at, created_at, data
		 FROM replays
		 ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var out []StoredReplay
	for rows.Next() {
		r, err := scanReplay(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// MarkVerified flags a replay and its score as verified.
func (s *Store) MarkVerified(id int64) error {
	res, err := s.db.Exec("UPDATE replays SET verified = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot update replay: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("storage: replay %d: %w", id, ErrNotFound)
	}
	if _, err := s.db.Exec("UPDATE scores SET verified = 1 WHERE replay_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot update score: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReplay(row rowScanner, withData bool) (StoredReplay, error) {
	var (
		r          StoredReplay
		seed       string
		durationMS int64
		verified   int
		recordedAt int64
		createdAt  any
		data       []byte
	)
	dest := []any{&r.ID, &r.Player, &seed, &r.Score, &r.Frames, &durationMS, &verified, &recordedAt, &createdAt}
	if withData {
		dest = append(dest, &data)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("storage: cannot scan replay: %w", err)
	}

	parsed, err := strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return r, fmt.Errorf("storage: replay %d has bad seed %q: %w", r.ID, seed, err)
	}
	r.Seed = parsed
	r.Duration = time.Duration(durationMS) * time.Millisecond
	r.Verified = verified != 0
	if recordedAt != 0 {
		r.RecordedAt = time.UnixMilli(recordedAt).UTC()
	}
	r.CreatedAt = parseTime(createdAt)

	if withData {
		d, err := replay.Decode(bytes.NewReader(data))
		if err != nil {
			return r, fmt.Errorf("storage: replay %d: %w", r.ID, err)
		}
		r.Data = d
	}
	return r, nil
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
