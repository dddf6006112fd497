package semantics_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorybase/memorybase-go/pkg/semantics"
)

func TestTriplesRoundtrip(t *testing.T) {
	triples := []semantics.Triple{
		{Subject: "用户", Predicate: "使用", Object: "BOS"},
		{Subject: "用户", Predicate: "部署", Object: "AI服务"},
	}

	raw, err := semantics.SerializeTriples(triples)
	require.NoError(t, err)

	back, skipped := semantics.ParseTriples(raw)
	assert.Zero(t, skipped)
	assert.Equal(t, triples, back)
}

func TestTriplesOneJSONArrayPerLine(t *testing.T) {
	raw, err := semantics.SerializeTriples([]semantics.Triple{
		{Subject: "s", Predicate: "p", Object: "o"},
	})
	require.NoError(t, err)

	var fields []string
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, []string{"s", "p", "o"}, fields)
	assert.False(t, strings.Contains(string(raw), "\n"))
}

func TestParseTriplesSkipsBlankLines(t *testing.T) {
	raw := []byte("[\"a\",\"b\",\"c\"]\n\n[\"d\",\"e\",\"f\"]")

	back, skipped := semantics.ParseTriples(raw)
	assert.Zero(t, skipped)
	assert.Equal(t, []semantics.Triple{
		{Subject: "a", Predicate: "b", Object: "c"},
		{Subject: "d", Predicate: "e", Object: "f"},
	}, back)
}

func TestParseTriplesSkipsMalformedLines(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []semantics.Triple
		skipped int
	}{
		{
			name:    "two fields",
			raw:     "[\"a\",\"b\",\"c\"]\n[\"only\",\"two\"]",
			want:    []semantics.Triple{{Subject: "a", Predicate: "b", Object: "c"}},
			skipped: 1,
		},
		{
			name:    "invalid json",
			raw:     "not json at all\n[\"a\",\"b\",\"c\"]",
			want:    []semantics.Triple{{Subject: "a", Predicate: "b", Object: "c"}},
			skipped: 1,
		},
		{
			name:    "empty field",
			raw:     "[\"a\",\"\",\"c\"]\n[\"x\",\"y\",\"z\"]",
			want:    []semantics.Triple{{Subject: "x", Predicate: "y", Object: "z"}},
			skipped: 1,
		},
		{
			name:    "non-string fields",
			raw:     "[1,2,3]\n[\"x\",\"y\",\"z\"]",
			want:    []semantics.Triple{{Subject: "x", Predicate: "y", Object: "z"}},
			skipped: 1,
		},
		{
			name:    "all malformed",
			raw:     "{\"not\":\"array\"}\n[\"one\"]",
			want:    []semantics.Triple{},
			skipped: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back, skipped := semantics.ParseTriples([]byte(tt.raw))
			assert.Equal(t, tt.want, back)
			assert.Equal(t, tt.skipped, skipped)
		})
	}
}

func TestParseTriplesEmptyInput(t *testing.T) {
	back, skipped := semantics.ParseTriples(nil)
	assert.Empty(t, back)
	assert.Zero(t, skipped)

	back, skipped = semantics.ParseTriples([]byte("\n\n"))
	assert.Empty(t, back)
	assert.Zero(t, skipped)
}

func TestSerializeTriplesEmptySequence(t *testing.T) {
	raw, err := semantics.SerializeTriples(nil)
	require.NoError(t, err)
	assert.Empty(t, raw)
}
