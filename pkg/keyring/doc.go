// Package keyring provides a client for the serval-dna Keyring REST API,
// which manages the identities (SID, signing identity, DID, name) held by
// the daemon. The HTTP surface mirrors doc/REST-API-Keyring.md in the
// serval-dna repository. Identities may be protected by a passphrase ("pin");
// a locked identity is invisible to every endpoint, so a 404 can mean either
// "does not exist" or "not unlocked".
package keyring
