// Package meshms exchanges one-to-one text messages between identities.
//
// Conversations are identified by the pair of SIDs involved. Message
// histories are ordered ply offsets inside a pair of rhizome journals, one
// per direction, which is why messages carry offsets rather than sequence
// numbers. The newsince variant keeps the connection open and delivers
// messages as they arrive.
package meshms
