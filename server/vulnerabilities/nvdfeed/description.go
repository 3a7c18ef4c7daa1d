package nvdfeed

import "github.com/fleetdm/nvdmap/server/vulnerabilities/nvdfeed/schema"

// SelectDescription returns the first English description, or the first
// description of any language when there is no English one.
func SelectDescription(data []*schema.CVEJSON40LangString) (string, error) {
	for _, d := range data {
		if d != nil && d.Lang == "en" {
			return d.Value, nil
		}
	}
	if len(data) == 0 || data[0] == nil {
		return "", ErrNoDescription
	}
	return data[0].Value, nil
}
