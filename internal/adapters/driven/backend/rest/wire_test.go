package rest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicchat/internal/core/domain"
)

func TestPageNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`12`, 12},
		{`0`, 0},
		{`"7"`, 7},
		{`3.0`, 3},
		{`"Unknown"`, domain.UnknownPage},
		{`null`, domain.UnknownPage},
		{`{}`, domain.UnknownPage},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var p pageNumber
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &p))
			assert.Equal(t, tt.want, int(p))
		})
	}
}

func TestAskResponse_ToDomain_WordCountFallback(t *testing.T) {
	var resp askResponse
	require.NoError(t, json.Unmarshal([]byte(`{"answer":"one two three"}`), &resp))

	answer := resp.toDomain()

	assert.Equal(t, 3, answer.WordCount)
	assert.Empty(t, answer.Sources)
}

func TestErrorBody_PromotedOnEveryResponse(t *testing.T) {
	for _, out := range []failureReporter{&topicsResponse{}, &initializeResponse{}, &askResponse{}} {
		require.NoError(t, json.Unmarshal([]byte(`{"error":"nope"}`), out))
		assert.Equal(t, "nope", out.failure())
	}
}
