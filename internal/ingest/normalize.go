// Package ingest parses uploaded creator data (CSV, JSON, or XLSX) into
// canonical CreatorRecords, deduplicated by unique id in first-seen order.
package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/brandlens/brandlens/internal/model"
)

// placeholder ids that some export tools emit for missing handles.
func isPlaceholderID(id string) bool {
	return id == "" || id == "None" || id == "null"
}

// Dedup keeps the first occurrence of each unique id, preserving input
// order, and drops records with empty or placeholder ids.
func Dedup(records []model.CreatorRecord) []model.CreatorRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]model.CreatorRecord, 0, len(records))
	for _, r := range records {
		if isPlaceholderID(r.UniqueID) {
			continue
		}
		if _, ok := seen[r.UniqueID]; ok {
			continue
		}
		seen[r.UniqueID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// parseCount coerces a numeric field to int. Non-numeric and missing values
// become zero rather than failing the row.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// excel exports sometimes render counts as floats
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// timestampToDate converts a unix timestamp string to YYYY-MM-DD. Values
// that are not pure digits pass through unchanged when they already look
// like a date, otherwise the result is empty.
func timestampToDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(n, 0).UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return s
	}
	return ""
}
