package cvss

import (
	"fmt"
	"strings"

	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
)

// BaseScore computes the base score of a CVSS v2.0, v3.0 or v3.1 vector. The
// version is taken from the "CVSS:3.x/" prefix; vectors without a prefix are
// treated as v2.0.
func BaseScore(vector string) (float64, error) {
	switch {
	case strings.HasPrefix(vector, "CVSS:3.1/"):
		v, err := gocvss31.ParseVector(vector)
		if err != nil {
			return 0, fmt.Errorf("parse cvss 3.1 vector %q: %w", vector, err)
		}
		return v.BaseScore(), nil
	case strings.HasPrefix(vector, "CVSS:3.0/"):
		v, err := gocvss30.ParseVector(vector)
		if err != nil {
			return 0, fmt.Errorf("parse cvss 3.0 vector %q: %w", vector, err)
		}
		return v.BaseScore(), nil
	case strings.HasPrefix(vector, "CVSS:"):
		return 0, fmt.Errorf("unsupported cvss vector %q", vector)
	default:
		v, err := gocvss20.ParseVector(vector)
		if err != nil {
			return 0, fmt.Errorf("parse cvss 2.0 vector %q: %w", vector, err)
		}
		return v.BaseScore(), nil
	}
}
