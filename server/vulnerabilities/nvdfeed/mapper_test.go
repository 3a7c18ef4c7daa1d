package nvdfeed

import (
	"errors"
	"testing"

	"github.com/fleetdm/nvdmap/server/ptr"
	"github.com/fleetdm/nvdmap/server/vulnerabilities/nvdfeed/schema"
	"github.com/stretchr/testify/require"
)

func newTestItem() *schema.NVDCVEFeedJSON10DefCVEItem {
	return &schema.NVDCVEFeedJSON10DefCVEItem{
		CVE: &schema.CVEJSON40{
			DataType:    "CVE",
			DataFormat:  "MITRE",
			DataVersion: "4.0",
			CVEDataMeta: &schema.CVEJSON40CVEDataMeta{ID: "CVE-2022-1234"},
			Description: &schema.CVEJSON40Description{
				DescriptionData: []*schema.CVEJSON40LangString{{Lang: "en", Value: "Use-after-free in module."}},
			},
		},
		Configurations: &schema.NVDCVEFeedJSON10DefConfigurations{
			CVEDataVersion: "4.0",
			Nodes: []*schema.NVDCVEFeedJSON10DefNode{{
				CPEMatch: []*schema.NVDCVEFeedJSON10DefCPEMatch{
					{Vulnerable: true, Cpe23Uri: "cpe:2.3:a:eset:rtp:1.0:*:*:*:*:linux:*:*"},
				},
			}},
		},
		Impact: &schema.NVDCVEFeedJSON10DefImpact{
			BaseMetricV2: &schema.NVDCVEFeedJSON10DefImpactBaseMetricV2{
				CVSSV2:   &schema.CVSSV20{Version: "2.0", VectorString: "AV:L/AC:L/Au:N/C:N/I:N/A:C", BaseScore: ptr.Float64(4.9)},
				Severity: "MEDIUM",
			},
		},
		PublishedDate:    "2022-03-01T17:15Z",
		LastModifiedDate: "2022-03-10T14:47Z",
	}
}

func TestMapItem(t *testing.T) {
	rec, err := MapItem(newTestItem())
	require.NoError(t, err)

	require.Equal(t, "CVE-2022-1234", rec.CVE)
	require.Equal(t, "Use-after-free in module.", rec.Description)
	require.True(t, rec.Published.Valid)
	require.True(t, rec.Updated.Valid)
	require.Greater(t, rec.Updated.Millis, rec.Published.Millis)
	require.Equal(t, []string{"eset:rtp"}, rec.Products)
	require.NotNil(t, rec.Impact)
	require.Equal(t, 4.9, *rec.Impact.Score)
	require.Equal(t, "MEDIUM", rec.Impact.Severity)
}

func TestMapItemInvalidTimestampsAreNotFatal(t *testing.T) {
	item := newTestItem()
	item.PublishedDate = "soon"
	item.LastModifiedDate = ""

	rec, err := MapItem(item)
	require.NoError(t, err)
	require.False(t, rec.Published.Valid)
	require.False(t, rec.Updated.Valid)
}

func TestMapItemStructuralErrors(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*schema.NVDCVEFeedJSON10DefCVEItem)
		field  string
		target error
	}{
		{name: "data type", modify: func(i *schema.NVDCVEFeedJSON10DefCVEItem) { i.CVE.DataType = "CPE" }, field: "cve.data_type"},
		{name: "data format", modify: func(i *schema.NVDCVEFeedJSON10DefCVEItem) { i.CVE.DataFormat = "NVD" }, field: "cve.data_format"},
		{name: "data version", modify: func(i *schema.NVDCVEFeedJSON10DefCVEItem) { i.CVE.DataVersion = "5.0" }, field: "cve.data_version"},
		{name: "configurations version", modify: func(i *schema.NVDCVEFeedJSON10DefCVEItem) { i.Configurations.CVEDataVersion = "" }, field: "configurations.CVE_data_version"},
		{name: "missing configurations", modify: func(i *schema.NVDCVEFeedJSON10DefCVEItem) { i.Configurations = nil }, field: "configurations.CVE_data_version"},
		{name: "cvss version", modify: func(i *schema.NVDCVEFeedJSON10DefCVEItem) { i.Impact.BaseMetricV2.CVSSV2.Version = "3.1" }, field: "impact.baseMetricV2.cvssV2.version"},
		{name: "no description", modify: func(i *schema.NVDCVEFeedJSON10DefCVEItem) { i.CVE.Description = nil }, target: ErrNoDescription},
		{name: "no cve block", modify: func(i *schema.NVDCVEFeedJSON10DefCVEItem) { i.CVE = nil }, target: ErrMalformedItem},
		{name: "no data meta", modify: func(i *schema.NVDCVEFeedJSON10DefCVEItem) { i.CVE.CVEDataMeta = nil }, target: ErrMalformedItem},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			item := newTestItem()
			tc.modify(item)

			rec, err := MapItem(item)
			require.Error(t, err)
			require.Nil(t, rec)

			if tc.target != nil {
				require.True(t, errors.Is(err, tc.target), err)
				return
			}
			var mismatch *MismatchError
			require.ErrorAs(t, err, &mismatch)
			require.Equal(t, tc.field, mismatch.Field)
		})
	}

	_, err := MapItem(nil)
	require.ErrorIs(t, err, ErrMalformedItem)
}
