// Package contact owns the structured contact model consumed and produced by
// the vCard codec.
//
// Ownership boundary:
// - field value variants
// - per-field metadata (detail uri, access constraints)
// - preferred-field bookkeeping and the preferred action table
package contact
