package nvdfeed

import (
	"cmp"
	"context"
	"encoding/json"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/fleetdm/nvdmap/server/contexts/ctxerr"
	"github.com/fleetdm/nvdmap/server/vulnerabilities/cvss"
	"github.com/fleetdm/nvdmap/server/vulnerabilities/nvdfeed/schema"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const (
	feedDataType    = "CVE"
	feedDataVersion = "4.0"

	// rejectedPrefix marks descriptions of CVEs withdrawn by MITRE.
	rejectedPrefix = "** REJECT **"

	// scoreTolerance absorbs rounding differences between NVD and go-cvss.
	scoreTolerance = 0.05
)

// Decode reads a whole feed document from r.
func Decode(r io.Reader) (*schema.NVDCVEFeedJSON10, error) {
	var feed schema.NVDCVEFeedJSON10
	if err := json.NewDecoder(r).Decode(&feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// ValidateFeed checks the fixed format tags of the feed document.
func ValidateFeed(feed *schema.NVDCVEFeedJSON10) error {
	if feed == nil {
		return expect("CVE_data_type", "", feedDataType)
	}
	if err := expect("CVE_data_type", feed.CVEDataType, feedDataType); err != nil {
		return err
	}
	return expect("CVE_data_version", feed.CVEDataVersion, feedDataVersion)
}

// IsRejected reports whether r is a CVE entry that was withdrawn.
func IsRejected(r *Record) bool {
	return strings.HasPrefix(r.Description, rejectedPrefix)
}

// SortByUpdated sorts records by last modification, most recent first.
// Records with equal timestamps keep their relative order and records
// without a valid timestamp go last.
func SortByUpdated(records []*Record) {
	slices.SortStableFunc(records, func(a, b *Record) int {
		switch {
		case a.Updated.Valid && b.Updated.Valid:
			return cmp.Compare(b.Updated.Millis, a.Updated.Millis)
		case a.Updated.Valid:
			return -1
		case b.Updated.Valid:
			return 1
		default:
			return 0
		}
	})
}

// Stats summarizes a mapping run.
type Stats struct {
	Items    int
	Rejected int
	Mapped   int
}

// Mapper runs the whole feed through MapItem.
type Mapper struct {
	logger       kitlog.Logger
	verifyScores bool
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithScoreVerification makes the mapper recompute every base score from
// its vector and log the ones that differ from the feed.
func WithScoreVerification(verify bool) Option {
	return func(m *Mapper) {
		m.verifyScores = verify
	}
}

func NewMapper(logger kitlog.Logger, opts ...Option) *Mapper {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	m := &Mapper{logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Process decodes the feed document read from r and maps it with MapFeed.
func (m *Mapper) Process(ctx context.Context, r io.Reader) ([]*Record, Stats, error) {
	feed, err := Decode(r)
	if err != nil {
		return nil, Stats{}, ctxerr.Wrap(ctx, err, "decode feed")
	}
	return m.MapFeed(ctx, feed)
}

// MapFeed validates feed, maps all of its items, drops the rejected ones and
// sorts the rest with SortByUpdated. It stops at the first structural error.
func (m *Mapper) MapFeed(ctx context.Context, feed *schema.NVDCVEFeedJSON10) ([]*Record, Stats, error) {
	var stats Stats
	if err := ValidateFeed(feed); err != nil {
		return nil, stats, ctxerr.Wrap(ctx, err, "validate feed")
	}
	stats.Items = len(feed.CVEItems)

	records := make([]*Record, 0, len(feed.CVEItems))
	for i, item := range feed.CVEItems {
		rec, err := MapItem(item)
		if err != nil {
			return nil, stats, ctxerr.Wrapf(ctx, err, "map cve item %d %s", i, itemID(item))
		}
		records = append(records, rec)
	}

	kept := records[:0]
	for _, rec := range records {
		if IsRejected(rec) {
			level.Debug(m.logger).Log("msg", "dropping rejected cve", "cve", rec.CVE)
			stats.Rejected++
			continue
		}
		if m.verifyScores {
			m.verifyScore(rec)
		}
		kept = append(kept, rec)
	}
	SortByUpdated(kept)
	stats.Mapped = len(kept)

	level.Info(m.logger).Log(
		"msg", "mapped nvd feed",
		"items", stats.Items,
		"rejected", stats.Rejected,
		"mapped", stats.Mapped,
	)
	return kept, stats, nil
}

func (m *Mapper) verifyScore(rec *Record) {
	if rec.Impact == nil || rec.Impact.Score == nil {
		return
	}
	computed, err := cvss.BaseScore(rec.Impact.Vector)
	if err != nil {
		level.Debug(m.logger).Log("msg", "cannot score cvss vector", "cve", rec.CVE, "err", err)
		return
	}
	if math.Abs(computed-*rec.Impact.Score) > scoreTolerance {
		level.Warn(m.logger).Log(
			"msg", "cvss base score does not match vector",
			"cve", rec.CVE,
			"cvss", rec.Impact.Vector,
			"score", *rec.Impact.Score,
			"computed", computed,
		)
	}
}

func itemID(item *schema.NVDCVEFeedJSON10DefCVEItem) string {
	if item == nil || item.CVE == nil || item.CVE.CVEDataMeta == nil {
		return ""
	}
	return item.CVE.CVEDataMeta.ID
}

type bulkAction struct {
	Index bulkIndex `json:"index"`
}

type bulkIndex struct {
	ID string `json:"_id"`
}

// WriteBulk writes records in the bulk API format: an index action line
// carrying the CVE id, followed by the record, for every record. The output
// always ends with a newline, so an empty batch is a single newline.
func WriteBulk(w io.Writer, records []*Record) error {
	if len(records) == 0 {
		_, err := io.WriteString(w, "\n")
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(bulkAction{Index: bulkIndex{ID: rec.CVE}}); err != nil {
			return err
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
