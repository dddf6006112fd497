package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorybase/memorybase-go/pkg/core"
	"github.com/memorybase/memorybase-go/pkg/semantics"
)

func newTestClient(t *testing.T) *core.Client {
	t.Helper()
	client, err := core.NewClient(&core.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClientValidatesConfig(t *testing.T) {
	_, err := core.NewClient(&core.Config{
		Database: core.DatabaseConfig{Provider: "mongodb"},
	})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestClientProfileRoundtrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	profile := semantics.Profile{
		semantics.TraitCommunicationStyle: "direct",
		semantics.TraitPreferredTopics:    []interface{}{"databases", "go"},
	}
	require.NoError(t, client.SaveUserProfile(ctx, "alice", profile))

	loaded, err := client.LoadUserProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "direct", loaded[semantics.TraitCommunicationStyle])
	assert.Equal(t, []interface{}{"databases", "go"}, loaded[semantics.TraitPreferredTopics])
}

func TestClientLoadProfileAbsentUser(t *testing.T) {
	client := newTestClient(t)

	profile, err := client.LoadUserProfile(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, profile)
}

func TestClientKnowledgeRoundtrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	triples := []semantics.Triple{
		{Subject: "alice", Predicate: "works_at", Object: "Acme"},
		{Subject: "alice", Predicate: "prefers", Object: "PostgreSQL"},
	}
	require.NoError(t, client.SaveKnowledgeTriples(ctx, "alice", triples))

	loaded, err := client.LoadKnowledgeTriples(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, triples, loaded)
}

func TestClientLoadKnowledgeAbsentUser(t *testing.T) {
	client := newTestClient(t)

	triples, err := client.LoadKnowledgeTriples(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, triples)
}

func TestClientRetrieveRelevantKnowledge(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveKnowledgeTriples(ctx, "alice", []semantics.Triple{
		{Subject: "alice", Predicate: "prefers", Object: "PostgreSQL"},
		{Subject: "alice", Predicate: "dislikes", Object: "spreadsheets"},
		{Subject: "alice", Predicate: "manages", Object: "postgres cluster"},
	}))

	relevant, err := client.RetrieveRelevantKnowledge(ctx, "alice", "postgres", 10)
	require.NoError(t, err)
	require.Len(t, relevant, 2)
	assert.Equal(t, "PostgreSQL", relevant[0].Object)
	assert.Equal(t, "postgres cluster", relevant[1].Object)
}

func TestClientRejectsUnsafeUserID(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := client.SaveUserProfile(ctx, "../etc/passwd", semantics.Profile{"k": "v"})
	require.Error(t, err)

	var memErr *core.MemoryError
	assert.ErrorAs(t, err, &memErr)
	assert.Equal(t, "SaveUserProfile", memErr.Op)
}

func TestClientSessionsNilWhenUnconfigured(t *testing.T) {
	client := newTestClient(t)
	assert.Nil(t, client.Sessions())
}
