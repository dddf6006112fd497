package longterm

import (
	"fmt"
	"strings"
)

// Key prefixes for the stored artifact kinds. These paths are a wire
// contract: external tools reading the bucket directly depend on the exact
// layout, so they must never change once data has been written.
const (
	profileKeyPrefix   = "profiles/"
	knowledgeKeyPrefix = "knowledge/"
)

// ProfileKey returns the object storage key for a user's profile,
// e.g. "profiles/u123.json".
//
// Returns ErrInvalidKey if the user identifier is empty or contains path
// separators, which would break the collision-freedom of the key layout.
func ProfileKey(userID string) (string, error) {
	if err := validateUserID(userID); err != nil {
		return "", err
	}
	return profileKeyPrefix + userID + ".json", nil
}

// KnowledgeKey returns the object storage key for a user's knowledge
// triples, e.g. "knowledge/u123.jsonl".
//
// Returns ErrInvalidKey under the same conditions as ProfileKey.
func KnowledgeKey(userID string) (string, error) {
	if err := validateUserID(userID); err != nil {
		return "", err
	}
	return knowledgeKeyPrefix + userID + ".jsonl", nil
}

// validateUserID rejects user identifiers that would change the prefix
// class of the generated key. Separators and dot-dot segments could make
// distinct users collide or escape the profiles/ and knowledge/ namespaces.
func validateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("empty user id: %w", ErrInvalidKey)
	}
	if strings.ContainsAny(userID, "/\\") || strings.Contains(userID, "..") {
		return fmt.Errorf("user id %q contains path separators: %w", userID, ErrInvalidKey)
	}
	return nil
}
