// Package archive exports replays to Parquet files for long-term storage and
// offline analysis, and imports them back.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/vovakirdan/blockdrop/internal/engine"
	"github.com/vovakirdan/blockdrop/internal/replay"
)

// Schema is the key-value metadata tag written into every archive file.
const Schema = "blockdrop_replay_v1"

// ErrSchemaMismatch is returned when a file was not written by this package.
var ErrSchemaMismatch = errors.New("archive: schema mismatch")

// ReplayRow is one replay, stored column-wise. The compacted input log is
// split into parallel repeated columns.
type ReplayRow struct {
	Seed         uint64 `parquet:"seed"`
	Player       string `parquet:"player,dict"`
	Version      int32  `parquet:"version"`
	Score        int64  `parquet:"score"`
	Frames       int64  `parquet:"frames"`
	DurationMS   int64  `parquet:"duration_ms"`
	RecordedAtMS int64  `parquet:"recorded_at_ms"`
	Verified     bool   `parquet:"verified"`

	RulesJSON []byte `parquet:"rules_json"`

	InputTypes    []string `parquet:"input_types"`
	InputFrames   []int32  `parquet:"input_frames"`
	InputPayloads [][]byte `parquet:"input_payloads"`
}

// Entry pairs a replay with its verification flag.
type Entry struct {
	Data     replay.Data
	Verified bool
}

// RowFromReplay flattens a replay into an archive row. The replay is
// validated first, which bounds every frame delta by replay.MaxFrames so the
// 32-bit columns hold it exactly.
func RowFromReplay(e Entry) (ReplayRow, error) {
	if err := e.Data.Validate(); err != nil {
		return ReplayRow{}, fmt.Errorf("archive: %w", err)
	}
	rules, err := json.Marshal(e.Data.Rules)
	if err != nil {
		return ReplayRow{}, fmt.Errorf("archive: encode rules: %w", err)
	}
	row := ReplayRow{
		Seed:          e.Data.Seed,
		Player:        e.Data.PlayerName,
		Version:       int32(e.Data.Version),
		Score:         int64(e.Data.FinalScore),
		Frames:        int64(e.Data.Frames),
		DurationMS:    e.Data.DurationMS,
		Verified:      e.Verified,
		RulesJSON:     rules,
		InputTypes:    make([]string, len(e.Data.Inputs)),
		InputFrames:   make([]int32, len(e.Data.Inputs)),
		InputPayloads: make([][]byte, len(e.Data.Inputs)),
	}
	if !e.Data.RecordedAt.IsZero() {
		row.RecordedAtMS = e.Data.RecordedAt.UnixMilli()
	}
	for i, in := range e.Data.Inputs {
		row.InputTypes[i] = string(in.Type)
		row.InputFrames[i] = int32(in.Frame)
		row.InputPayloads[i] = in.Payload
	}
	return row, nil
}

// Entry rebuilds the replay held by the row and validates it.
func (r ReplayRow) Entry() (Entry, error) {
	if len(r.InputTypes) != len(r.InputFrames) {
		return Entry{}, fmt.Errorf("archive: %d input types but %d frames: %w",
			len(r.InputTypes), len(r.InputFrames), replay.ErrMalformedReplay)
	}

	var rules engine.Rules
	if err := json.Unmarshal(r.RulesJSON, &rules); err != nil {
		return Entry{}, fmt.Errorf("archive: decode rules: %w", err)
	}

	inputs := make([]replay.Input, len(r.InputTypes))
	for i := range r.InputTypes {
		inputs[i] = replay.Input{Type: engine.ActionType(r.InputTypes[i]), Frame: int(r.InputFrames[i])}
		if i < len(r.InputPayloads) && len(r.InputPayloads[i]) > 0 {
			inputs[i].Payload = json.RawMessage(r.InputPayloads[i])
		}
	}

	d := replay.Data{
		Version:    int(r.Version),
		Seed:       r.Seed,
		Rules:      rules,
		Inputs:     inputs,
		Frames:     int(r.Frames),
		FinalScore: int(r.Score),
		DurationMS: r.DurationMS,
		PlayerName: r.Player,
	}
	if r.RecordedAtMS != 0 {
		d.RecordedAt = time.UnixMilli(r.RecordedAtMS).UTC()
	}
	if err := d.Validate(); err != nil {
		return Entry{}, fmt.Errorf("archive: %w", err)
	}
	return Entry{Data: d, Verified: r.Verified}, nil
}

// WriteFile writes the entries to outPath. The file is written to a temp
// path and renamed into place.
func WriteFile(outPath string, entries []Entry) error {
	rows := make([]ReplayRow, 0, len(entries))
	for _, e := range entries {
		row, err := RowFromReplay(e)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("archive: create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", Schema),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("archive: write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("archive: rename parquet: %w", err)
	}
	return nil
}

// ReadFile reads every replay from an archive file.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("archive: open parquet: %w", err)
	}
	if schema, ok := pf.Lookup("schema"); !ok || schema != Schema {
		return nil, fmt.Errorf("archive: %s has schema %q: %w", path, schema, ErrSchemaMismatch)
	}

	reader := parquet.NewGenericReader[ReplayRow](pf)
	defer reader.Close()

	entries := make([]Entry, 0, reader.NumRows())
	buf := make([]ReplayRow, 64)
	for {
		n, err := reader.Read(buf)
		for i := 0; i < n; i++ {
			e, convErr := buf[i].Entry()
			if convErr != nil {
				return nil, fmt.Errorf("archive: row %d: %w", len(entries), convErr)
			}
			entries = append(entries, e)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("archive: read parquet: %w", err)
		}
	}
	return entries, nil
}
