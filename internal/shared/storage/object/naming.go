package object

import "github.com/google/uuid"

// Naming maps a sanitized upload name to the storage key it is written under.
type Naming func(sanitized string) string

// OverwriteNaming stores uploads under their sanitized name, so two uploads
// with the same name share a key and the later one replaces the earlier.
func OverwriteNaming(sanitized string) string {
	return sanitized
}

// UniqueNaming prefixes every upload with a random UUID.
func UniqueNaming(sanitized string) string {
	return uuid.NewString() + "_" + sanitized
}

// NamingFor resolves a naming policy by name, defaulting to overwrite.
func NamingFor(policy string) Naming {
	if policy == "unique" {
		return UniqueNaming
	}
	return OverwriteNaming
}
