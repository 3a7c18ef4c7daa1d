package cvss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		name   string
		vector string
		want   Dimensions
	}{
		{
			name:   "v3.1",
			vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:R/S:U/C:H/I:H/A:H",
			want: Dimensions{
				{"attack.vector", "network"},
				{"attack.complexity", "low"},
				{"attack.privileges_required", "none"},
				{"attack.user_interaction", "required"},
				{"attack.scope", "unchanged"},
				{"impact.confidentiality", "high"},
				{"impact.integrity", "high"},
				{"impact.availability", "high"},
			},
		},
		{
			name:   "v2",
			vector: "AV:A/AC:M/Au:S/C:P/I:N/A:C",
			want: Dimensions{
				{"attack.vector", "adjacent_network"},
				{"attack.complexity", "medium"},
				{"attack.authentication", "single"},
				{"impact.confidentiality", "partial"},
				{"impact.integrity", "none"},
				{"impact.availability", "complete"},
			},
		},
		{
			name:   "unknown key and code are skipped",
			vector: "AV:X/ZZ:N/AC:H/E:U",
			want:   Dimensions{{"attack.complexity", "high"}},
		},
		{
			name:   "malformed components",
			vector: "AV/:N//S:C:extra",
			want:   Dimensions{{"attack.scope", "changed"}},
		},
		{
			name:   "repeated key keeps first position",
			vector: "AV:N/AC:L/AV:P",
			want:   Dimensions{{"attack.vector", "physical"}, {"attack.complexity", "low"}},
		},
		{
			name:   "empty",
			vector: "",
			want:   nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Decode(tc.vector))
		})
	}
}

func TestDecodeEveryKnownPair(t *testing.T) {
	for key, m := range metrics {
		for code, name := range m.values {
			dims := Decode(key + ":" + code)
			require.Len(t, dims, 1, "%s:%s", key, code)
			got, ok := dims.Get(m.path)
			require.True(t, ok)
			assert.Equal(t, name, got)
		}
	}
}

func TestBaseScore(t *testing.T) {
	score, err := BaseScore("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H")
	require.NoError(t, err)
	assert.InDelta(t, 9.8, score, 0.01)

	score, err = BaseScore("CVSS:3.0/AV:N/AC:L/PR:N/UI:R/S:U/C:H/I:H/A:H")
	require.NoError(t, err)
	assert.InDelta(t, 8.8, score, 0.01)

	score, err = BaseScore("AV:N/AC:L/Au:N/C:P/I:P/A:P")
	require.NoError(t, err)
	assert.InDelta(t, 7.5, score, 0.01)

	_, err = BaseScore("CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N")
	require.Error(t, err)

	_, err = BaseScore("not a vector")
	require.Error(t, err)
}
