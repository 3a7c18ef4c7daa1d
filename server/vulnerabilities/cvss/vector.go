// Package cvss decodes compact CVSS v2/v3 vector strings into named
// attack and impact dimensions.
package cvss

import "strings"

type metric struct {
	path   string
	values map[string]string
}

var impactValues = map[string]string{
	"N": "none",
	"L": "low",
	"H": "high",
	"P": "partial",
	"C": "complete",
}

// metrics is keyed by the abbreviation used in the vector. v2 and v3 vectors
// share most keys, so a single table serves both.
var metrics = map[string]metric{
	"AV": {
		path:   "attack.vector",
		values: map[string]string{"P": "physical", "L": "local", "A": "adjacent_network", "N": "network"},
	},
	"AC": {
		path:   "attack.complexity",
		values: map[string]string{"H": "high", "M": "medium", "L": "low"},
	},
	"Au": {
		path:   "attack.authentication",
		values: map[string]string{"M": "multiple", "S": "single", "N": "none"},
	},
	"PR": {
		path:   "attack.privileges_required",
		values: map[string]string{"H": "high", "L": "low", "N": "none"},
	},
	"UI": {
		path:   "attack.user_interaction",
		values: map[string]string{"N": "none", "R": "required"},
	},
	"S": {
		path:   "attack.scope",
		values: map[string]string{"U": "unchanged", "C": "changed"},
	},
	"C": {path: "impact.confidentiality", values: impactValues},
	"I": {path: "impact.integrity", values: impactValues},
	"A": {path: "impact.availability", values: impactValues},
}

// Dimension is one decoded vector component, e.g. attack.vector=network.
type Dimension struct {
	Key   string
	Value string
}

// Dimensions holds decoded components in the order they appeared in the
// vector. Keys are unique.
type Dimensions []Dimension

// Get returns the value decoded for key.
func (d Dimensions) Get(key string) (string, bool) {
	for _, dim := range d {
		if dim.Key == key {
			return dim.Value, true
		}
	}
	return "", false
}

func (d Dimensions) set(key, value string) Dimensions {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = value
			return d
		}
	}
	return append(d, Dimension{Key: key, Value: value})
}

// Decode maps a vector such as "AV:N/AC:L/Au:N/C:P/I:P/A:P" to its named
// dimensions. Unknown keys and value codes (including the "CVSS:3.x" prefix
// of v3 vectors) are skipped.
func Decode(vector string) Dimensions {
	var dims Dimensions
	for _, component := range strings.Split(vector, "/") {
		parts := strings.Split(component, ":")
		if len(parts) < 2 {
			continue
		}
		m, ok := metrics[parts[0]]
		if !ok {
			continue
		}
		value, ok := m.values[parts[1]]
		if !ok {
			continue
		}
		dims = dims.set(m.path, value)
	}
	return dims
}
