// Package approvalservice owns content objects after upload and gates their path
// to publication through a role-based approval state machine.
//
// Every accepted status change is a conditional write on the status that was
// read, followed by a best-effort content.status_changed event scoped to the
// owning team or, for personal content, the owner.
package approvalservice
