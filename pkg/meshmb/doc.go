// Package meshmb publishes and follows one-to-many broadcast feeds.
//
// A feed is a rhizome journal signed by its author; anyone who knows the
// feed ID can read it. Identities are addressed by their signing ID here,
// not their SID, because broadcast feeds are keyed on the signature.
package meshmb
