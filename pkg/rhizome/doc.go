// Package rhizome provides a client for the serval-dna Rhizome REST API,
// the daemon's replicated bundle store. A bundle is a signed manifest plus
// an optional payload; journals are append-only bundles identified by a
// "tail" field. The HTTP surface mirrors doc/REST-API-Rhizome.md in the
// serval-dna repository, including the text+binarysig manifest format and
// the Serval-Rhizome-Result-* response headers.
package rhizome
