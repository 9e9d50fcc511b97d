package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Instant is a point in time read from a loosely typed document field.
// Stored values may be BSON datetimes, timestamps, strings or null; strings
// that do not parse keep their raw text and report Valid == false.
type Instant struct {
	Time  time.Time
	Valid bool
	Raw   string
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func At(t time.Time) Instant {
	return Instant{Time: t, Valid: true}
}

func ParseInstant(s string) Instant {
	s = strings.TrimSpace(s)
	if s == "" {
		return Instant{}
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Instant{Time: t, Valid: true}
		}
	}
	return Instant{Raw: s}
}

// IsSet reports whether the field held anything at all, parseable or not.
func (i Instant) IsSet() bool {
	return i.Valid || i.Raw != ""
}

// IsZero lets omitempty drop instants that were never set.
func (i Instant) IsZero() bool {
	return !i.IsSet()
}

func (i Instant) UnixMilli() int64 {
	if !i.Valid {
		return 0
	}
	return i.Time.UnixMilli()
}

// Format renders the instant with layout, or fallback when it is not a valid time.
func (i Instant) Format(layout, fallback string) string {
	if !i.Valid {
		return fallback
	}
	return i.Time.Format(layout)
}

func (i Instant) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch {
	case i.Valid:
		return bsontype.DateTime, bsoncore.AppendDateTime(nil, i.Time.UnixMilli()), nil
	case i.Raw != "":
		return bsontype.String, bsoncore.AppendString(nil, i.Raw), nil
	default:
		return bsontype.Null, nil, nil
	}
}

func (i *Instant) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*i = Instant{}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		return nil
	case bsontype.DateTime:
		ms, _, ok := bsoncore.ReadDateTime(data)
		if !ok {
			return fmt.Errorf("instant: malformed datetime")
		}
		*i = At(time.UnixMilli(ms).UTC())
	case bsontype.Timestamp:
		sec, _, _, ok := bsoncore.ReadTimestamp(data)
		if !ok {
			return fmt.Errorf("instant: malformed timestamp")
		}
		*i = At(time.Unix(int64(sec), 0).UTC())
	case bsontype.String:
		s, _, ok := bsoncore.ReadString(data)
		if !ok {
			return fmt.Errorf("instant: malformed string")
		}
		*i = ParseInstant(s)
	case bsontype.EmbeddedDocument:
		// {seconds, nanoseconds} maps exported from the hosted store.
		doc := bsoncore.Document(data)
		secs, err := doc.LookupErr("seconds")
		if err != nil {
			return nil
		}
		if n, ok := secs.AsInt64OK(); ok {
			*i = At(time.Unix(n, 0).UTC())
		}
	default:
		// Anything else is kept as an unparseable value.
		*i = Instant{Raw: t.String()}
	}
	return nil
}

func (i Instant) MarshalJSON() ([]byte, error) {
	switch {
	case i.Valid:
		return json.Marshal(i.Time.Format(time.RFC3339))
	case i.Raw != "":
		return json.Marshal(i.Raw)
	default:
		return []byte("null"), nil
	}
}

func (i *Instant) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = Instant{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("instant: %w", err)
	}
	*i = ParseInstant(s)
	return nil
}
