package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
)

// LoadRecords reads the JSON array stored under key and returns its elements
// as generic objects (numbers decoded as json.Number).
//
// It never fails. A missing key, the literals "", "undefined" and "null",
// malformed JSON and non-array documents all yield an empty slice; in the
// last four cases the record is deleted so the next load starts clean.
// Array elements that are not objects are skipped.
func LoadRecords(ctx context.Context, st Store, key string, log *slog.Logger) []map[string]any {
	log = logger.OrNop(log)

	raw, err := st.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []map[string]any{}
	}
	if err != nil {
		log.WarnContext(ctx, "storage read failed, starting empty", "key", key, "error", err)
		return []map[string]any{}
	}

	var items []any
	if perr := decodeArray(raw, &items); perr != nil {
		log.WarnContext(ctx, "discarding corrupted record", "key", key, "error", perr)
		if derr := st.Delete(ctx, key); derr != nil {
			log.WarnContext(ctx, "failed to clear corrupted record", "key", key, "error", derr)
		}
		return []map[string]any{}
	}

	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

var errNotArray = errors.New("record is not a JSON array")

func decodeArray(raw string, into *[]any) error {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "undefined", "null":
		return fmt.Errorf("empty record %q", s)
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	arr, ok := v.([]any)
	if !ok {
		return errNotArray
	}
	*into = arr
	return nil
}

// SaveJSON serializes v and writes it under key.
func SaveJSON(ctx context.Context, st Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}
	if err := st.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s failed: %w", key, err)
	}
	return nil
}
