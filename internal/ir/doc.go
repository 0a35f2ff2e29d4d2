// Package ir provides the metadata model the finder compiler reads from.
//
// This package contains the entity, property and repository types plus the
// canonical encoding used for plan identity. All other internal packages
// import ir; ir imports nothing internal. This keeps IR the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - Metadata is read-only once a Schema is built; the compiler never mutates it
//   - Associations are linked by entity name and resolved when the Schema is built
//   - All JSON tags use snake_case
//   - Canonical JSON (RFC 8785) is the only encoding used for hashing
package ir
