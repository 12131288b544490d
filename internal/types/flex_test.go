package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexUint64Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{`7`, 7},
		{`"7"`, 7},
		{`null`, 0},
		{`""`, 0},
	}

	for _, tt := range tests {
		var f FlexUint64
		require.NoError(t, json.Unmarshal([]byte(tt.in), &f), "input %s", tt.in)
		assert.Equal(t, tt.want, f.Uint64(), "input %s", tt.in)
	}

	var f FlexUint64
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &f))
	assert.Error(t, json.Unmarshal([]byte(`true`), &f))
}

func TestFlexListUnmarshal(t *testing.T) {
	var list FlexList[string]
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &list))
	assert.Equal(t, []string{"a", "b"}, list.Slice())

	list = nil
	require.NoError(t, json.Unmarshal([]byte(`"solo"`), &list))
	assert.Equal(t, []string{"solo"}, list.Slice())

	list = nil
	require.NoError(t, json.Unmarshal([]byte(`null`), &list))
	assert.Nil(t, list.Slice())
}

func TestFlexListStructElements(t *testing.T) {
	type resource struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}

	var list FlexList[resource]
	require.NoError(t, json.Unmarshal([]byte(`{"type":"file","value":"/x"}`), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "file", list[0].Type)
}
