// Package trackdef holds the rules about track definitions: normalization,
// validation, and the two identity keys.
//
// CanonicalKey is a full-fidelity serialization used for exact template
// de-duplication. ComparableKey is a coarser projection (name, type, unit)
// used to match different users' tracks on the leaderboard. Both are
// canonical JSON: object keys sorted, numbers in Go's shortest float form.
package trackdef

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ethos-app/ethos-backend/internal/models"
)

// NormalizeText lowercases, trims and collapses internal whitespace.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// CanonicalKey serializes name, type, unit, cadence, target and config.
// Unset config fields are omitted, so an empty config serializes as {}.
func CanonicalKey(t models.Track) string {
	var target any
	if t.Target != nil {
		target = t.Target
	}
	key, err := canonicalJSON(map[string]any{
		"name":    NormalizeText(t.Name),
		"type":    string(t.Type),
		"unit":    NormalizeText(t.Unit),
		"cadence": string(t.Cadence),
		"target":  target,
		"config":  t.Config,
	})
	if err != nil {
		// Only non-finite numbers fail to marshal; Validate rejects those.
		return ""
	}
	return key
}

// ComparableKey returns the leaderboard grouping key for a track. The stored
// meta.normalizedKey is preferred; tracks without one are keyed from their
// current definition. ok is false when the stored key cannot be parsed.
func ComparableKey(t models.Track) (string, bool) {
	nk := strings.TrimSpace(t.Meta.NormalizedKey)
	if nk == "" {
		nk = CanonicalKey(t)
	}
	return ComparableFromCanonical(nk)
}

// ComparableFromCanonical projects a canonical key onto name, type and unit.
// Name and unit are re-normalized so hand-written keys (such as configured
// priority entries) compare loosely too.
func ComparableFromCanonical(canonical string) (string, bool) {
	if strings.TrimSpace(canonical) == "" {
		return "", false
	}
	var parsed struct {
		Name any `json:"name"`
		Type any `json:"type"`
		Unit any `json:"unit"`
	}
	if err := json.Unmarshal([]byte(canonical), &parsed); err != nil {
		return "", false
	}
	key, err := canonicalJSON(map[string]string{
		"name": NormalizeText(looseString(parsed.Name)),
		"type": looseString(parsed.Type),
		"unit": NormalizeText(looseString(parsed.Unit)),
	})
	if err != nil {
		return "", false
	}
	return key, true
}

func looseString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		b, _ := json.Marshal(s)
		return string(b)
	}
}

// canonicalJSON marshals v, then re-marshals the generic decoding so every
// object (struct or map) comes out with sorted keys.
func canonicalJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
