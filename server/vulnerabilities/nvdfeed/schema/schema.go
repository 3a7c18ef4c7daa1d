// Package schema holds the types of the NVD CVE JSON 1.1 feed
// (https://nvd.nist.gov/vuln/data-feeds#JSON_FEED). Only the parts of the
// schema that are read by the mapper are decoded.
package schema

// NVDCVEFeedJSON10 is the top level document of an NVD feed file.
type NVDCVEFeedJSON10 struct {
	CVEDataFormat       string                        `json:"CVE_data_format"`
	CVEDataNumberOfCVEs string                        `json:"CVE_data_numberOfCVEs,omitempty"`
	CVEDataTimestamp    string                        `json:"CVE_data_timestamp,omitempty"`
	CVEDataType         string                        `json:"CVE_data_type"`
	CVEDataVersion      string                        `json:"CVE_data_version"`
	CVEItems            []*NVDCVEFeedJSON10DefCVEItem `json:"CVE_Items"`
}

// NVDCVEFeedJSON10DefCVEItem is a single vulnerability of the feed.
type NVDCVEFeedJSON10DefCVEItem struct {
	CVE              *CVEJSON40                         `json:"cve"`
	Configurations   *NVDCVEFeedJSON10DefConfigurations `json:"configurations,omitempty"`
	Impact           *NVDCVEFeedJSON10DefImpact         `json:"impact,omitempty"`
	LastModifiedDate string                             `json:"lastModifiedDate,omitempty"`
	PublishedDate    string                             `json:"publishedDate,omitempty"`
}

// CVEJSON40 is the MITRE CVE record embedded in an item.
type CVEJSON40 struct {
	CVEDataMeta *CVEJSON40CVEDataMeta `json:"CVE_data_meta"`
	DataFormat  string                `json:"data_format"`
	DataType    string                `json:"data_type"`
	DataVersion string                `json:"data_version"`
	Description *CVEJSON40Description `json:"description"`
}

type CVEJSON40CVEDataMeta struct {
	ASSIGNER string `json:"ASSIGNER,omitempty"`
	ID       string `json:"ID"`
}

type CVEJSON40Description struct {
	DescriptionData []*CVEJSON40LangString `json:"description_data"`
}

type CVEJSON40LangString struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

// NVDCVEFeedJSON10DefConfigurations lists the platforms an item applies to.
type NVDCVEFeedJSON10DefConfigurations struct {
	CVEDataVersion string                     `json:"CVE_data_version"`
	Nodes          []*NVDCVEFeedJSON10DefNode `json:"nodes,omitempty"`
}

// NVDCVEFeedJSON10DefNode is a node of the configurations tree.
type NVDCVEFeedJSON10DefNode struct {
	CPEMatch []*NVDCVEFeedJSON10DefCPEMatch `json:"cpe_match,omitempty"`
	Children []*NVDCVEFeedJSON10DefNode     `json:"children,omitempty"`
	Negate   bool                           `json:"negate,omitempty"`
	Operator string                         `json:"operator,omitempty"`
}

// NVDCVEFeedJSON10DefCPEMatch is a CPE match entry of a node.
type NVDCVEFeedJSON10DefCPEMatch struct {
	Cpe22Uri              string `json:"cpe22Uri,omitempty"`
	Cpe23Uri              string `json:"cpe23Uri"`
	Vulnerable            bool   `json:"vulnerable"`
	VersionEndExcluding   string `json:"versionEndExcluding,omitempty"`
	VersionEndIncluding   string `json:"versionEndIncluding,omitempty"`
	VersionStartExcluding string `json:"versionStartExcluding,omitempty"`
	VersionStartIncluding string `json:"versionStartIncluding,omitempty"`
}

// NVDCVEFeedJSON10DefImpact holds the CVSS metrics of an item.
type NVDCVEFeedJSON10DefImpact struct {
	BaseMetricV2 *NVDCVEFeedJSON10DefImpactBaseMetricV2 `json:"baseMetricV2,omitempty"`
	BaseMetricV3 *NVDCVEFeedJSON10DefImpactBaseMetricV3 `json:"baseMetricV3,omitempty"`
}

// NVDCVEFeedJSON10DefImpactBaseMetricV2 carries the v2 severity one level
// above the CVSS block, unlike v3.
type NVDCVEFeedJSON10DefImpactBaseMetricV2 struct {
	CVSSV2              *CVSSV20 `json:"cvssV2"`
	Severity            string   `json:"severity,omitempty"`
	ExploitabilityScore float64  `json:"exploitabilityScore,omitempty"`
	ImpactScore         float64  `json:"impactScore,omitempty"`
}

type NVDCVEFeedJSON10DefImpactBaseMetricV3 struct {
	CVSSV3              *CVSSV30 `json:"cvssV3"`
	ExploitabilityScore float64  `json:"exploitabilityScore,omitempty"`
	ImpactScore         float64  `json:"impactScore,omitempty"`
}

type CVSSV20 struct {
	Version      string   `json:"version"`
	VectorString string   `json:"vectorString"`
	BaseScore    *float64 `json:"baseScore,omitempty"`
}

type CVSSV30 struct {
	Version      string   `json:"version"`
	VectorString string   `json:"vectorString"`
	BaseScore    *float64 `json:"baseScore,omitempty"`
	BaseSeverity string   `json:"baseSeverity,omitempty"`
}
