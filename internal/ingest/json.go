package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/brandlens/brandlens/internal/errs"
	"github.com/brandlens/brandlens/internal/model"
)

// shape identifies which of the two known JSON layouts the input uses.
type shape int

const (
	shapeUnknown shape = iota
	shapeFlat          // author_unique_id at the top level
	shapeNested        // identifying fields under a basic_info object
)

// detectShape probes the first element's keys.
func detectShape(first map[string]any) shape {
	if bi, ok := first["basic_info"].(map[string]any); ok && bi != nil {
		return shapeNested
	}
	if _, ok := first["author_unique_id"]; ok {
		return shapeFlat
	}
	if _, ok := first["user_unique_id"]; ok {
		return shapeFlat
	}
	return shapeUnknown
}

// FromJSON parses an array of creator objects, in either the flat or the
// nested basic_info layout. A ValidationError is returned when the array is
// empty or the first element matches neither known shape.
func FromJSON(r io.Reader) ([]model.CreatorRecord, error) {
	var items []map[string]any
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, eris.Wrap(errs.ErrValidation, "json: decode array")
	}
	if len(items) == 0 {
		return nil, errs.Validationf("json: empty creator list")
	}

	sh := detectShape(items[0])
	if sh == shapeUnknown {
		return nil, errs.Validationf("json: unrecognized record shape (no basic_info or author_unique_id)")
	}

	var records []model.CreatorRecord
	for _, item := range items {
		rec, ok := extract(item, sh)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	return Dedup(records), nil
}

func extract(item map[string]any, sh shape) (model.CreatorRecord, bool) {
	fields := item
	if sh == shapeNested {
		bi, ok := item["basic_info"].(map[string]any)
		if !ok {
			return model.CreatorRecord{}, false
		}
		fields = bi
	}

	id := strings.TrimSpace(str(fields["author_unique_id"]))
	if id == "" {
		id = strings.TrimSpace(str(fields["user_unique_id"]))
	}
	if isPlaceholderID(id) {
		return model.CreatorRecord{}, false
	}

	// signature may live on the outer object in the nested layout
	signature := str(fields["signature"])
	if signature == "" {
		signature = str(item["description"])
	}

	avatar := str(fields["author_avatar"])
	if avatar == "" {
		avatar = str(fields["thumbnail_url"])
	}

	return model.CreatorRecord{
		UniqueID:           id,
		VideoID:            str(item["video_id"]),
		Nickname:           str(fields["author_nickname"]),
		Signature:          signature,
		FollowerCount:      num(fields["author_followers_count"]),
		FollowingCount:     num(fields["author_followings_count"]),
		VideoCount:         num(fields["videoCount"]),
		AvatarURL:          avatar,
		ContentTitle:       str(item["title"]),
		ContentDescription: str(item["description"]),
		CreatedAt:          timestampToDate(str(fields["create_time"])),
	}, true
}

// str renders a JSON value as a trimmed string; numbers lose any trailing
// ".0" so unix timestamps survive the float64 round trip.
func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// num coerces a JSON value to int, defaulting to zero.
func num(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		return parseCount(t)
	default:
		return 0
	}
}
