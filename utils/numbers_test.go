package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericUnmarshal(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    *float64
	}{
		{"number", `{"v": 42.5}`, fptr(42.5)},
		{"integer", `{"v": 7}`, fptr(7)},
		{"numeric string", `{"v": "42.5"}`, fptr(42.5)},
		{"empty string", `{"v": ""}`, nil},
		{"null", `{"v": null}`, nil},
		{"missing", `{}`, nil},
		{"garbage string", `{"v": "abc"}`, nil},
		{"negative", `{"v": -3.25}`, fptr(-3.25)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body struct {
				V Numeric `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &body))

			if tc.want == nil {
				assert.Nil(t, body.V.Value)
				assert.Equal(t, 0.0, body.V.Float())
				assert.Nil(t, body.V.Ptr())
				return
			}
			require.NotNil(t, body.V.Value)
			assert.Equal(t, *tc.want, *body.V.Value)
			assert.Equal(t, *tc.want, body.V.Float())
		})
	}
}

func TestNumericPtrCopies(t *testing.T) {
	var n Numeric
	require.NoError(t, json.Unmarshal([]byte(`10`), &n))

	p := n.Ptr()
	require.NotNil(t, p)
	*p = 99

	assert.Equal(t, 10.0, n.Float(), "mutating the returned pointer must not affect the field")
}

func TestClampPercent(t *testing.T) {
	assert.Nil(t, ClampPercent(nil))

	assert.Equal(t, 0.0, *ClampPercent(fptr(-5)))
	assert.Equal(t, 0.0, *ClampPercent(fptr(0)))
	assert.Equal(t, 42.5, *ClampPercent(fptr(42.5)))
	assert.Equal(t, 100.0, *ClampPercent(fptr(100)))
	assert.Equal(t, 100.0, *ClampPercent(fptr(250)))
	assert.Equal(t, 0.0, *ClampPercent(fptr(math.NaN())))
}

func fptr(v float64) *float64 { return &v }
