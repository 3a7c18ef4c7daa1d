package nvdfeed

import (
	"github.com/fleetdm/nvdmap/server/vulnerabilities/cvss"
	"github.com/fleetdm/nvdmap/server/vulnerabilities/nvdfeed/schema"
)

// Impact is the normalized CVSS summary of an item.
type Impact struct {
	// Score is nil when the metric block has no base score.
	Score      *float64
	Vector     string
	Dimensions cvss.Dimensions
	// Severity is empty when the feed carries no severity label.
	Severity string
}

// MapImpact normalizes the CVSS metrics of an item, preferring v3 over v2.
// It returns nil when neither is present.
func MapImpact(impact *schema.NVDCVEFeedJSON10DefImpact) (*Impact, error) {
	switch {
	case impact == nil:
		return nil, nil
	case impact.BaseMetricV3 != nil:
		return mapImpactV3(impact.BaseMetricV3)
	case impact.BaseMetricV2 != nil:
		return mapImpactV2(impact.BaseMetricV2)
	default:
		return nil, nil
	}
}

func mapImpactV3(metric *schema.NVDCVEFeedJSON10DefImpactBaseMetricV3) (*Impact, error) {
	if metric.CVSSV3 == nil {
		return nil, expect("impact.baseMetricV3.cvssV3.version", "", "3.0", "3.1")
	}
	v3 := metric.CVSSV3
	if err := expect("impact.baseMetricV3.cvssV3.version", v3.Version, "3.0", "3.1"); err != nil {
		return nil, err
	}
	return newImpact(v3.BaseScore, v3.VectorString, v3.BaseSeverity)
}

func mapImpactV2(metric *schema.NVDCVEFeedJSON10DefImpactBaseMetricV2) (*Impact, error) {
	if metric.CVSSV2 == nil {
		return nil, expect("impact.baseMetricV2.cvssV2.version", "", "2.0")
	}
	v2 := metric.CVSSV2
	if err := expect("impact.baseMetricV2.cvssV2.version", v2.Version, "2.0"); err != nil {
		return nil, err
	}
	// v2 keeps the severity label on the metric block, not on cvssV2
	return newImpact(v2.BaseScore, v2.VectorString, metric.Severity)
}

func newImpact(score *float64, vector, severity string) (*Impact, error) {
	if vector == "" {
		return nil, ErrMissingVector
	}
	return &Impact{
		Score:      score,
		Vector:     vector,
		Dimensions: cvss.Decode(vector),
		Severity:   severity,
	}, nil
}
