package semantics

import (
	"context"
	"fmt"

	"github.com/memorybase/memorybase-go/pkg/longterm"
)

// SaveUserProfile serializes the profile and writes it under the user's
// profile key, overwriting any existing profile (last-write-wins).
func SaveUserProfile(ctx context.Context, store longterm.ObjectStore, userID string, profile Profile) error {
	key, err := longterm.ProfileKey(userID)
	if err != nil {
		return err
	}
	data, err := SerializeProfile(profile)
	if err != nil {
		return err
	}
	if err := store.PutObject(ctx, key, data, longterm.ContentTypeJSON); err != nil {
		return fmt.Errorf("save profile for %s: %w", userID, err)
	}
	return nil
}

// LoadUserProfile reads and decodes the user's profile.
//
// A user with no stored profile yields an empty profile, not an error;
// storage failures propagate unchanged.
func LoadUserProfile(ctx context.Context, store longterm.ObjectStore, userID string) (Profile, error) {
	key, err := longterm.ProfileKey(userID)
	if err != nil {
		return nil, err
	}
	data, found, err := store.GetObject(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load profile for %s: %w", userID, err)
	}
	if !found {
		return Profile{}, nil
	}
	return ParseProfile(data)
}

// SaveKnowledgeTriples serializes the full triple sequence and writes it
// under the user's knowledge key, replacing any existing sequence.
func SaveKnowledgeTriples(ctx context.Context, store longterm.ObjectStore, userID string, triples []Triple) error {
	key, err := longterm.KnowledgeKey(userID)
	if err != nil {
		return err
	}
	data, err := SerializeTriples(triples)
	if err != nil {
		return err
	}
	if err := store.PutObject(ctx, key, data, longterm.ContentTypeJSONLines); err != nil {
		return fmt.Errorf("save knowledge for %s: %w", userID, err)
	}
	return nil
}

// LoadKnowledgeTriples reads and decodes the user's knowledge triples.
//
// A user with no stored triples yields an empty sequence, not an error.
// The second return value is the count of malformed lines skipped during
// decoding (zero for a healthy payload).
func LoadKnowledgeTriples(ctx context.Context, store longterm.ObjectStore, userID string) ([]Triple, int, error) {
	key, err := longterm.KnowledgeKey(userID)
	if err != nil {
		return nil, 0, err
	}
	data, found, err := store.GetObject(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("load knowledge for %s: %w", userID, err)
	}
	if !found {
		return []Triple{}, 0, nil
	}
	triples, skipped := ParseTriples(data)
	return triples, skipped, nil
}
