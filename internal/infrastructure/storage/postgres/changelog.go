package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"stockledger/internal/core/id"
)

// CompressionAlgo specifies the compression algorithm used for a
// changelog payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// ChangeEntry records one derived-view write: which view, which document
// key, and the field-level old/new diff. Change-detection persistence
// guarantees an entry appears only when something actually changed, so
// this table is the "what changed when" trail for derived history.
type ChangeEntry struct {
	ID                id.ID           `db:"id"`
	View              string          `db:"view"`
	DocKey            string          `db:"doc_key"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// ChangeLog appends derived-view change entries, compressing large
// payloads (product breakdowns can grow with the catalog).
type ChangeLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewChangeLog creates a new changelog writer.
func NewChangeLog(txManager *TxManager) (*ChangeLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &ChangeLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 4 * 1024,
	}, nil
}

// Record appends a change entry for a derived-view write.
func (l *ChangeLog) Record(ctx context.Context, view, docKey string, changes map[string]any) error {
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	entry := ChangeEntry{
		ID:              id.New(),
		View:            view,
		DocKey:          docKey,
		Changes:         changesJSON,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if len(entry.Changes) > l.compressThreshold {
		entry.ChangesCompressed = l.encoder.EncodeAll(entry.Changes, nil)
		entry.Changes = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_recompute_log (
			id, view, doc_key, changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	querier := l.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		entry.ID, entry.View, entry.DocKey,
		entry.Changes, entry.ChangesCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)
	return err
}

// History returns the change trail for a derived document, newest first.
func (l *ChangeLog) History(ctx context.Context, view, docKey string, limit int) ([]ChangeEntry, error) {
	sql := `
		SELECT id, view, doc_key, changes, changes_compressed, compression_algo, created_at
		FROM sys_recompute_log
		WHERE view = $1 AND doc_key = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := l.txManager.GetQuerier(ctx).Query(ctx, sql, view, docKey, limit)
	if err != nil {
		return nil, fmt.Errorf("query changelog: %w", err)
	}
	defer rows.Close()

	var entries []ChangeEntry
	for rows.Next() {
		var e ChangeEntry
		err := rows.Scan(
			&e.ID, &e.View, &e.DocKey,
			&e.Changes, &e.ChangesCompressed, &e.CompressionAlgo,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.ChangesCompressed) > 0 {
			decompressed, err := l.decoder.DecodeAll(e.ChangesCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress changes: %w", err)
			}
			e.Changes = decompressed
			e.ChangesCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Diff builds the old/new field map recorded with each write.
func Diff(oldState, newState map[string]any) map[string]any {
	changes := make(map[string]any)

	for key, newVal := range newState {
		oldVal, exists := oldState[key]
		if !exists {
			changes[key] = map[string]any{"old": nil, "new": newVal}
		} else if fmt.Sprintf("%v", oldVal) != fmt.Sprintf("%v", newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}

	for key, oldVal := range oldState {
		if _, exists := newState[key]; !exists {
			changes[key] = map[string]any{"old": oldVal, "new": nil}
		}
	}

	return changes
}
