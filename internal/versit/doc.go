// Package versit owns the vCard text model and the generic mapping between
// vCard properties and contact fields.
//
// Ownership boundary:
// - record/property document model
// - stream reading and writing (go-vcard)
// - record splitting of concatenated streams
// - generic field <-> property mapping with per-field hooks
package versit
