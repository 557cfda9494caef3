package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/brandlens/brandlens/internal/errs"
	"github.com/brandlens/brandlens/internal/model"
)

// idColumns are the header names accepted for the identifying column, in
// order of preference. Exports from different tool versions disagree.
var idColumns = []string{"user_unique_id", "author_unique_id", "unique_id"}

// FromCSV parses a header-mapped CSV export into creator records.
// Individual malformed rows are tolerated; a ValidationError is returned
// only when the identifying column is absent from the header.
func FromCSV(r io.Reader) ([]model.CreatorRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errs.Validationf("csv: empty file")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	idCol := -1
	for _, name := range idColumns {
		if i, ok := cols[name]; ok {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, errs.Validationf("csv: missing identifying column (expected one of %s)", strings.Join(idColumns, ", "))
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []model.CreatorRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// skip the unparseable row, keep the rest
			continue
		}
		if idCol >= len(row) {
			continue
		}

		records = append(records, model.CreatorRecord{
			UniqueID:           strings.TrimSpace(row[idCol]),
			VideoID:            field(row, "video_id"),
			Nickname:           field(row, "user_nickname"),
			Signature:          field(row, "signature"),
			FollowerCount:      parseCount(field(row, "author_followers_count")),
			FollowingCount:     parseCount(field(row, "author_followings_count")),
			VideoCount:         parseCount(field(row, "videoCount")),
			AvatarURL:          field(row, "author_avatar"),
			ContentTitle:       field(row, "title"),
			ContentDescription: field(row, "description"),
			CreatedAt:          timestampToDate(field(row, "create_times")),
		})
	}

	return Dedup(records), nil
}
