package rhizome

import (
	"errors"
	"fmt"
)

// BundleInfo is one row of the bundle list. It carries the manifest fields
// the daemon indexes plus per-row service columns (dot-prefixed).
type BundleInfo struct {
	RowID      int64  `json:"_id"`
	Token      string `json:".token"`
	Service    string `json:"service"`
	ID         string `json:"id"`
	Version    int64  `json:"version"`
	Date       int64  `json:"date"`
	InsertTime int64  `json:".inserttime"`
	Author     string `json:".author"`
	FromHere   int    `json:".fromhere"`
	Filesize   int64  `json:"filesize"`
	Filehash   string `json:"filehash"`
	Sender     string `json:"sender"`
	Recipient  string `json:"recipient"`
	Name       string `json:"name"`
}

// BundleStatus is the daemon's bundle status code, reported in the
// Serval-Rhizome-Result-Bundle-Status-Code header.
type BundleStatus int

const (
	BundleStatusNew            BundleStatus = 0
	BundleStatusSame           BundleStatus = 1
	BundleStatusDuplicate      BundleStatus = 2
	BundleStatusOld            BundleStatus = 3
	BundleStatusInvalid        BundleStatus = 4
	BundleStatusFake           BundleStatus = 5
	BundleStatusInconsistent   BundleStatus = 6
	BundleStatusNoRoom         BundleStatus = 7
	BundleStatusReadOnly       BundleStatus = 8
	BundleStatusBusy           BundleStatus = 9
	BundleStatusManifestTooBig BundleStatus = 10
)

func (s BundleStatus) String() string {
	switch s {
	case BundleStatusNew:
		return "new"
	case BundleStatusSame:
		return "same"
	case BundleStatusDuplicate:
		return "duplicate"
	case BundleStatusOld:
		return "old"
	case BundleStatusInvalid:
		return "invalid"
	case BundleStatusFake:
		return "fake"
	case BundleStatusInconsistent:
		return "inconsistent"
	case BundleStatusNoRoom:
		return "no room"
	case BundleStatusReadOnly:
		return "read only"
	case BundleStatusBusy:
		return "busy"
	case BundleStatusManifestTooBig:
		return "manifest too big"
	default:
		return fmt.Sprintf("bundle status %d", int(s))
	}
}

// PayloadStatus is the daemon's payload status code, reported in the
// Serval-Rhizome-Result-Payload-Status-Code header.
type PayloadStatus int

const (
	PayloadStatusEmpty      PayloadStatus = 0
	PayloadStatusNew        PayloadStatus = 1
	PayloadStatusStored     PayloadStatus = 2
	PayloadStatusWrongSize  PayloadStatus = 3
	PayloadStatusWrongHash  PayloadStatus = 4
	PayloadStatusCryptoFail PayloadStatus = 5
	PayloadStatusTooBig     PayloadStatus = 6
	PayloadStatusEvicted    PayloadStatus = 7
)

func (s PayloadStatus) String() string {
	switch s {
	case PayloadStatusEmpty:
		return "empty"
	case PayloadStatusNew:
		return "new"
	case PayloadStatusStored:
		return "stored"
	case PayloadStatusWrongSize:
		return "wrong size"
	case PayloadStatusWrongHash:
		return "wrong hash"
	case PayloadStatusCryptoFail:
		return "crypto fail"
	case PayloadStatusTooBig:
		return "too big"
	case PayloadStatusEvicted:
		return "evicted"
	default:
		return fmt.Sprintf("payload status %d", int(s))
	}
}

// InsertRequest describes a bundle insert or journal append.
type InsertRequest struct {
	// Manifest may be partial; the daemon completes and signs it.
	Manifest Manifest
	// BundleID selects an existing bundle to update; 64 hex digits.
	BundleID string
	// BundleAuthor is the SID of a local identity. Supplying it stores
	// the bundle secret encrypted in the manifest's BK field, so the
	// bundle can be updated later without remembering the secret.
	BundleAuthor string
	// BundleSecret signs the bundle. May be omitted when it can be
	// inferred from BK and an unlocked identity. Anonymous bundles
	// (no author) must retain the secret to ever update the bundle.
	BundleSecret string
	// Payload is the new payload; may be empty for non-journal bundles.
	Payload []byte
}

// InsertResult is the daemon's answer to an insert or append.
type InsertResult struct {
	// Manifest is the completed, signed manifest returned by the daemon.
	Manifest Manifest
	// BundleStatus and PayloadStatus report what the store did.
	BundleStatus         BundleStatus
	BundleStatusMessage  string
	PayloadStatus        PayloadStatus
	PayloadStatusMessage string
}

// InsertError reports a failed insert or append with the daemon's status
// detail.
type InsertError struct {
	HTTPStatus           int
	BundleStatus         BundleStatus
	BundleStatusMessage  string
	PayloadStatus        PayloadStatus
	PayloadStatusMessage string
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("rhizome: insertion failed: http=%d bundle=%s (%s) payload=%s (%s)",
		e.HTTPStatus, e.BundleStatus, e.BundleStatusMessage, e.PayloadStatus, e.PayloadStatusMessage)
}

var (
	// ErrBundleNotFound is returned when no bundle with the given BID is
	// in the store.
	ErrBundleNotFound = errors.New("rhizome: bundle not found")
	// ErrPayloadNotFound is returned when a bundle has no payload blob in
	// the store (the manifest may still be known).
	ErrPayloadNotFound = errors.New("rhizome: payload not found")
	// ErrDecryptionFailed is returned when the payload is encrypted and
	// the daemon does not hold the key.
	ErrDecryptionFailed = errors.New("rhizome: cannot decrypt payload")
	// ErrDuplicateBundle is returned when the store already holds a
	// bundle with the same payload, service, name, sender and recipient.
	ErrDuplicateBundle = errors.New("rhizome: duplicate bundle")
	// ErrIsJournal is returned when a journal manifest is passed to
	// Insert; journals are updated via Append.
	ErrIsJournal = errors.New("rhizome: bundle is a journal, use Append")
	// ErrNotJournal is returned when a non-journal manifest is passed to
	// Append.
	ErrNotJournal = errors.New("rhizome: bundle is not a journal, use Insert")
	// ErrEmptyPayload is returned when appending nothing to a journal.
	ErrEmptyPayload = errors.New("rhizome: journals require a payload")
	// ErrInvalidToken is returned when a newsince token is not accepted.
	ErrInvalidToken = errors.New("rhizome: invalid newsince token")
)
