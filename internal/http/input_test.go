package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexBool(t *testing.T) {
	cases := map[string]bool{
		`true`: true, `false`: false, `"on"`: true, `"YES"`: true, `"1"`: true, `"off"`: false, `""`: false,
	}
	for in, want := range cases {
		var b flexBool
		require.NoError(t, json.Unmarshal([]byte(in), &b), in)
		assert.Equal(t, want, bool(b), in)
	}
	var b flexBool
	assert.Error(t, json.Unmarshal([]byte(`{}`), &b))
}

func TestFlexTags(t *testing.T) {
	cases := map[string][]string{
		`["a","b"]`:       {"a", "b"},
		`"[\"a\",\"b\"]"`: {"a", "b"},
		`"a, b,,"`:        {"a", "b"},
		`""`:              {},
	}
	for in, want := range cases {
		var tags flexTags
		require.NoError(t, json.Unmarshal([]byte(in), &tags), in)
		assert.Equal(t, want, []string(tags), in)
	}
	assert.Equal(t, []string{"x", "y"}, parseTags([]string{" x", "y "}))
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseDate("2001-02-03")
	require.NoError(t, err)
	assert.Equal(t, 2001, d.Year())

	d, err = parseDate("2001-02-03T04:05:06Z")
	require.NoError(t, err)
	assert.Equal(t, 4, d.Hour())

	_, err = parseDate("soon")
	assert.Error(t, err)
}
