package semantics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/memorybase/memorybase-go/pkg/semantics"
)

func catTriples() []semantics.Triple {
	return []semantics.Triple{
		{Subject: "cat", Predicate: "likes", Object: "fish"},
		{Subject: "dog", Predicate: "likes", Object: "bones"},
		{Subject: "cat", Predicate: "hates", Object: "water"},
	}
}

func TestRetrieveExcludesZeroScoreAndKeepsOrder(t *testing.T) {
	result := semantics.RetrieveRelevantKnowledge(catTriples(), "cat", 10)

	// Both cat triples score 1; the tie keeps the original sequence order
	// and the dog triple is excluded entirely.
	assert.Equal(t, []semantics.Triple{
		{Subject: "cat", Predicate: "likes", Object: "fish"},
		{Subject: "cat", Predicate: "hates", Object: "water"},
	}, result)
}

func TestRetrieveTopKBoundaries(t *testing.T) {
	triples := catTriples()

	one := semantics.RetrieveRelevantKnowledge(triples, "cat", 1)
	assert.Equal(t, []semantics.Triple{
		{Subject: "cat", Predicate: "likes", Object: "fish"},
	}, one)

	zero := semantics.RetrieveRelevantKnowledge(triples, "cat", 0)
	assert.Empty(t, zero)

	negative := semantics.RetrieveRelevantKnowledge(triples, "cat", -3)
	assert.Empty(t, negative)

	all := semantics.RetrieveRelevantKnowledge(triples, "cat", 100)
	assert.Len(t, all, 2)
}

func TestRetrieveRanksByTokenCount(t *testing.T) {
	triples := []semantics.Triple{
		{Subject: "user", Predicate: "uses", Object: "minio"},
		{Subject: "user", Predicate: "deploys", Object: "minio cluster"},
		{Subject: "project", Predicate: "uses", Object: "postgres"},
	}

	// "minio cluster" matches both tokens, "uses minio" only one.
	result := semantics.RetrieveRelevantKnowledge(triples, "minio cluster", 10)
	assert.Equal(t, []semantics.Triple{
		{Subject: "user", Predicate: "deploys", Object: "minio cluster"},
		{Subject: "user", Predicate: "uses", Object: "minio"},
	}, result)
}

func TestRetrieveIsCaseInsensitive(t *testing.T) {
	result := semantics.RetrieveRelevantKnowledge(catTriples(), "CAT", 10)
	assert.Len(t, result, 2)
}

func TestRetrieveMatchesSubstrings(t *testing.T) {
	triples := []semantics.Triple{
		{Subject: "用户", Predicate: "使用", Object: "PostgreSQL"},
	}
	result := semantics.RetrieveRelevantKnowledge(triples, "postgres", 5)
	assert.Len(t, result, 1)
}

func TestRetrieveEmptyInputs(t *testing.T) {
	assert.Empty(t, semantics.RetrieveRelevantKnowledge(nil, "cat", 5))
	assert.Empty(t, semantics.RetrieveRelevantKnowledge(catTriples(), "", 5))
	assert.Empty(t, semantics.RetrieveRelevantKnowledge(catTriples(), "   ", 5))
	assert.Empty(t, semantics.RetrieveRelevantKnowledge(catTriples(), "unrelated", 5))
}
