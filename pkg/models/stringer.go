package models

// String methods for all custom string types.
// These are required for toon serialization, which uses fmt.Stringer.

// DefinitionKind
func (k DefinitionKind) String() string { return string(k) }
