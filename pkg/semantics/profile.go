// Package semantics defines the canonical encodings for the long-term
// memory artifacts — user profiles and knowledge triples — together with
// the save/load helpers that bind them to an object store and the keyword
// retrieval engine that filters triples at inference time.
package semantics

import (
	"encoding/json"
	"fmt"
)

// Conventional trait keys for the "traits" mapping inside a profile.
//
// The set is extensible: profiles may carry additional keys, and unknown
// keys present in stored data are preserved on round-trip rather than
// dropped.
const (
	TraitCommunicationStyle = "communication_style"
	TraitEmotionalTone      = "emotional_tone"
	TraitPreferredTopics    = "preferred_topics"
	TraitDecisionMaking     = "decision_making"
)

// ProfileTraitKeys lists the conventional trait keys in a fixed order,
// for callers building or validating a profile's traits mapping.
var ProfileTraitKeys = []string{
	TraitCommunicationStyle,
	TraitEmotionalTone,
	TraitPreferredTopics,
	TraitDecisionMaking,
}

// Profile is a per-user mapping of trait keys to free-form values
// summarizing long-term characteristics.
//
// Values may be strings, nested mappings, or sequences of strings. The
// whole profile is saved and overwritten wholesale; there is no merge and
// no internal versioning.
type Profile map[string]interface{}

// Traits returns the nested "traits" mapping, or nil if the profile has
// none or it is not a mapping.
func (p Profile) Traits() map[string]interface{} {
	traits, _ := p["traits"].(map[string]interface{})
	return traits
}

// SerializeProfile encodes a profile as JSON bytes.
//
// Non-ASCII text is kept as UTF-8, matching the stored wire format.
func SerializeProfile(profile Profile) ([]byte, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("serialize profile: %w", err)
	}
	return data, nil
}

// ParseProfile decodes JSON bytes into a profile.
//
// Empty or nil input yields an empty profile, not an error: absence of
// prior data is a normal state for a new user.
func ParseProfile(raw []byte) (Profile, error) {
	if len(raw) == 0 {
		return Profile{}, nil
	}
	var profile Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if profile == nil {
		profile = Profile{}
	}
	return profile, nil
}
