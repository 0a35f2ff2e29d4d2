package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainPlan   = "finder/plan/v1"
	DomainSchema = "finder/schema/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PlanHash computes the content-addressed identity of a compiled plan given
// its canonical map form. Two structurally equal plans hash identically.
func PlanHash(plan map[string]any) (string, error) {
	canonical, err := MarshalCanonical(plan)
	if err != nil {
		return "", fmt.Errorf("PlanHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPlan, canonical), nil
}

// SchemaHash computes a stable identity for a schema, so archived runs can
// tell whether two compilations saw the same metadata.
func SchemaHash(s *Schema) (string, error) {
	entities := make([]any, 0, len(s.order))
	for _, e := range s.Entities() {
		props := make([]any, 0, len(e.Properties))
		for _, p := range e.Properties {
			prop := map[string]any{
				"name":       p.Name,
				"type":       p.Type,
				"collection": p.Collection,
			}
			if p.Association != nil {
				prop["association"] = p.Association.Target
			}
			props = append(props, prop)
		}
		entities = append(entities, map[string]any{
			"name":       e.Name,
			"properties": props,
		})
	}

	canonical, err := MarshalCanonical(map[string]any{"entities": entities})
	if err != nil {
		return "", fmt.Errorf("SchemaHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSchema, canonical), nil
}

// MustPlanHash is like PlanHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustPlanHash(plan map[string]any) string {
	h, err := PlanHash(plan)
	if err != nil {
		panic(err)
	}
	return h
}
