package nvdfeed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fleetdm/nvdmap/server/vulnerabilities/cvss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		in    string
		want  time.Time
		valid bool
	}{
		{"2021-07-21T11:39Z", time.Date(2021, 7, 21, 11, 39, 0, 0, time.UTC), true},
		{"2021-07-21T11:39:42Z", time.Date(2021, 7, 21, 11, 39, 42, 0, time.UTC), true},
		{"2021-07-21T11:39:42.123Z", time.Date(2021, 7, 21, 11, 39, 42, 123e6, time.UTC), true},
		{"2021-07-21T13:39+02:00", time.Date(2021, 7, 21, 11, 39, 0, 0, time.UTC), true},
		{"2021-07-21T11:39:42.5", time.Date(2021, 7, 21, 11, 39, 42, 5e8, time.UTC), true},
		{"2021-07-21T11:39", time.Date(2021, 7, 21, 11, 39, 0, 0, time.UTC), true},
		{"2021-07-21", time.Date(2021, 7, 21, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"2021-13-45T11:39Z", time.Time{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			ts := ParseTimestamp(tc.in)
			require.Equal(t, tc.valid, ts.Valid)
			got, ok := ts.Time()
			require.Equal(t, tc.valid, ok)
			if tc.valid {
				assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
				assert.Equal(t, tc.want.UnixMilli(), ts.Millis)
			}
		})
	}
}

func TestRecordMarshalJSON(t *testing.T) {
	score := 5.0
	rec := &Record{
		CVE:         "CVE-2022-0001",
		Published:   Timestamp{Millis: 1000, Valid: true},
		Updated:     Timestamp{},
		Description: "a <b> & c",
		Impact: &Impact{
			Score:  &score,
			Vector: "AV:N/AC:L",
			Dimensions: cvss.Dimensions{
				{Key: "attack.vector", Value: "network"},
				{Key: "attack.complexity", Value: "low"},
			},
			Severity: "MEDIUM",
		},
	}

	b, err := rec.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t,
		`{"cve":"CVE-2022-0001","published":1000,"updated":null,"description":"a <b> & c","score":5,"cvss":"AV:N/AC:L","attack.vector":"network","attack.complexity":"low","severity":"MEDIUM","products":[]}`,
		string(b),
	)

	// the output is valid JSON with the dotted keys at the top level
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "network", decoded["attack.vector"])
	assert.Nil(t, decoded["updated"])
	assert.Equal(t, []interface{}{}, decoded["products"])

	noImpact := &Record{CVE: "CVE-2022-0002", Products: []string{"a:b"}}
	b, err = noImpact.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"cve":"CVE-2022-0002","published":null,"updated":null,"description":"","products":["a:b"]}`, string(b))
}
