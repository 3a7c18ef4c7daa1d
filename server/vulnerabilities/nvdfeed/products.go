package nvdfeed

import (
	"strings"

	"github.com/fleetdm/nvdmap/server/vulnerabilities/nvdfeed/schema"
)

const cpeWildcard = "*"

// AffectedProducts returns the unique vendor:product pairs of the vulnerable
// CPE matches of the first configuration node. When that node has no direct
// matches, the matches of its first child are used. Other nodes are ignored.
func AffectedProducts(conf *schema.NVDCVEFeedJSON10DefConfigurations) ([]string, error) {
	var version string
	if conf != nil {
		version = conf.CVEDataVersion
	}
	if err := expect("configurations.CVE_data_version", version, "4.0"); err != nil {
		return nil, err
	}

	if len(conf.Nodes) == 0 || conf.Nodes[0] == nil {
		return []string{}, nil
	}
	node := conf.Nodes[0]
	if node.CPEMatch != nil {
		return cpeMatchProducts(node.CPEMatch), nil
	}
	if len(node.Children) > 0 && node.Children[0] != nil && node.Children[0].CPEMatch != nil {
		return cpeMatchProducts(node.Children[0].CPEMatch), nil
	}
	return []string{}, nil
}

func cpeMatchProducts(matches []*schema.NVDCVEFeedJSON10DefCPEMatch) []string {
	products := []string{}
	seen := make(map[string]struct{})
	for _, m := range matches {
		if m == nil || !m.Vulnerable {
			continue
		}
		product := vendorProduct(m.Cpe23Uri)
		if _, ok := seen[product]; ok {
			continue
		}
		seen[product] = struct{}{}
		products = append(products, product)
	}
	return products
}

// vendorProduct joins the vendor and product fields of a CPE 2.3 formatted
// string, e.g. "cpe:2.3:a:vendor:product:1.0:*:..." becomes "vendor:product".
// Wildcard and missing fields are left out.
func vendorProduct(cpe23 string) string {
	fields := strings.Split(cpe23, ":")
	parts := make([]string, 0, 2)
	for i := 3; i < 5 && i < len(fields); i++ {
		if fields[i] == cpeWildcard {
			continue
		}
		parts = append(parts, fields[i])
	}
	return strings.Join(parts, ":")
}
