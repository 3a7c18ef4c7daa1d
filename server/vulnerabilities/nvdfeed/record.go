package nvdfeed

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Timestamp is a point in time encoded as epoch milliseconds. A timestamp
// that could not be parsed is not Valid and encodes as null.
type Timestamp struct {
	Millis int64
	Valid  bool
}

// timestampLayouts are tried in order. NVD feeds use minute precision
// ("2021-07-21T11:39Z"); the others are accepted for hand-made feeds.
var timestampLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an NVD date. Dates without a zone are UTC.
func ParseTimestamp(s string) Timestamp {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Millis: t.UnixMilli(), Valid: true}
		}
	}
	return Timestamp{}
}

// Time returns the timestamp as a UTC time.
func (t Timestamp) Time() (time.Time, bool) {
	if !t.Valid {
		return time.Time{}, false
	}
	return time.UnixMilli(t.Millis).UTC(), true
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, t.Millis, 10), nil
}

// Record is the normalized form of a CVE item.
type Record struct {
	CVE         string
	Published   Timestamp
	Updated     Timestamp
	Description string
	// Impact is nil for items without CVSS v2 or v3 metrics.
	Impact   *Impact
	Products []string
}

type jsonField struct {
	key   string
	value interface{}
}

// fields lists the record's keys in output order.
func (r *Record) fields() []jsonField {
	fields := []jsonField{
		{"cve", r.CVE},
		{"published", r.Published},
		{"updated", r.Updated},
		{"description", r.Description},
	}
	if r.Impact != nil {
		if r.Impact.Score != nil {
			fields = append(fields, jsonField{"score", *r.Impact.Score})
		}
		fields = append(fields, jsonField{"cvss", r.Impact.Vector})
		for _, dim := range r.Impact.Dimensions {
			fields = append(fields, jsonField{dim.Key, dim.Value})
		}
		if r.Impact.Severity != "" {
			fields = append(fields, jsonField{"severity", r.Impact.Severity})
		}
	}
	products := r.Products
	if products == nil {
		products = []string{}
	}
	return append(fields, jsonField{"products", products})
}

// MarshalJSON encodes the record as a flat object. Decoded CVSS dimensions
// become top level keys such as "attack.vector", placed between "cvss" and
// "severity".
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	encode := func(v interface{}) error {
		if err := enc.Encode(v); err != nil {
			return err
		}
		// drop the newline written by Encode
		buf.Truncate(buf.Len() - 1)
		return nil
	}

	buf.WriteByte('{')
	for i, f := range r.fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encode(f.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encode(f.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
