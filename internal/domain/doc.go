// Package domain defines the BB84 data model and the contracts between
// components. It contains plain types (wire/state) and interfaces only; the
// concrete definitions live in the types and interfaces subpackages and are
// re-exported here for compact imports.
package domain
