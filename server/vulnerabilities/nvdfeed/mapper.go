// Package nvdfeed maps NVD CVE JSON 1.1 feeds to flat records ready for
// bulk indexing.
package nvdfeed

import (
	"fmt"

	"github.com/fleetdm/nvdmap/server/vulnerabilities/nvdfeed/schema"
)

const (
	cveDataType    = "CVE"
	cveDataFormat  = "MITRE"
	cveDataVersion = "4.0"
)

// ValidateItem checks the fixed format tags of an item's cve block.
func ValidateItem(item *schema.NVDCVEFeedJSON10DefCVEItem) error {
	if item == nil || item.CVE == nil {
		return fmt.Errorf("%w: missing cve block", ErrMalformedItem)
	}
	if err := expect("cve.data_type", item.CVE.DataType, cveDataType); err != nil {
		return err
	}
	if err := expect("cve.data_format", item.CVE.DataFormat, cveDataFormat); err != nil {
		return err
	}
	return expect("cve.data_version", item.CVE.DataVersion, cveDataVersion)
}

// MapItem normalizes a single CVE item. Any returned error is structural and
// means the feed is not in the format this mapper understands.
func MapItem(item *schema.NVDCVEFeedJSON10DefCVEItem) (*Record, error) {
	if err := ValidateItem(item); err != nil {
		return nil, err
	}
	if item.CVE.CVEDataMeta == nil {
		return nil, fmt.Errorf("%w: missing CVE_data_meta", ErrMalformedItem)
	}

	var descriptions []*schema.CVEJSON40LangString
	if item.CVE.Description != nil {
		descriptions = item.CVE.Description.DescriptionData
	}
	description, err := SelectDescription(descriptions)
	if err != nil {
		return nil, err
	}

	impact, err := MapImpact(item.Impact)
	if err != nil {
		return nil, err
	}

	products, err := AffectedProducts(item.Configurations)
	if err != nil {
		return nil, err
	}

	return &Record{
		CVE:         item.CVE.CVEDataMeta.ID,
		Published:   ParseTimestamp(item.PublishedDate),
		Updated:     ParseTimestamp(item.LastModifiedDate),
		Description: description,
		Impact:      impact,
		Products:    products,
	}, nil
}
