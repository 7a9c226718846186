// Package parser owns the contact <-> vCard codec.
//
// Ownership boundary:
// - export/import handlers carrying extension metadata (detail uri, access
//   constraints, preferred phone, provenance)
// - asynchronous decode/encode pipelines, single flight per direction
// - blocking and single-record convenience entry points
//
// Extension vocabulary on the wire:
//
//	CLIENTPIDMAP:<sync target>
//	TAG:<tag>
//	<PROP>;PID=<detail uri>;READ-ONLY=YES;IRREMOVABLE=YES;PREF=1:<value>
//	PHOTO;VALUE=URL:<image url without user info>
package parser
