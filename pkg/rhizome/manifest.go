package rhizome

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Manifest is a rhizome bundle manifest. Unset optional fields are nil and
// omitted on the wire. Fields the daemon does not define are preserved in
// Extra.
type Manifest struct {
	// ID is the Bundle ID, 64 hex digits derived from the bundle secret.
	ID string
	// Version orders updates of the same bundle; defaults to the UNIX
	// timestamp of the update when unset.
	Version *int64
	// Filesize is the payload size in bytes.
	Filesize *int64
	// Service names the service the bundle is published under (e.g.
	// "file", "MeshMS2").
	Service string
	// Date is the UNIX timestamp of bundle creation; updates keep it.
	Date *int64
	// Filehash is the SHA-512 of the payload when Filesize > 0.
	Filehash string
	// Tail marks a journal: the offset up to which content was dropped.
	Tail *int64
	// Sender and Recipient are SIDs; required for MeshMS plies.
	Sender    string
	Recipient string
	// Name is a human-readable bundle name.
	Name string
	// Crypt is 1 when the payload is encrypted.
	Crypt *int
	// BK is the bundle secret encrypted with the author's public key.
	BK string
	// Extra holds custom fields round-tripped verbatim.
	Extra map[string]string
}

// IsJournal reports whether the manifest describes a journal bundle.
func (m *Manifest) IsJournal() bool {
	return m.Tail != nil
}

// IsPartial reports whether any field required of a complete manifest (id,
// version, filesize, service, date) is missing.
func (m *Manifest) IsPartial() bool {
	return m.ID == "" || m.Version == nil || m.Filesize == nil || m.Service == "" || m.Date == nil
}

// MarshalText renders the manifest in the daemon's key=value text format.
// Only set fields are emitted; custom fields follow the known ones in
// lexical order.
func (m *Manifest) MarshalText() ([]byte, error) {
	buf := &bytes.Buffer{}
	writeField := func(key, value string) {
		fmt.Fprintf(buf, "%s=%s\n", key, value)
	}

	if m.ID != "" {
		writeField("id", m.ID)
	}
	if m.Version != nil {
		writeField("version", strconv.FormatInt(*m.Version, 10))
	}
	if m.Filesize != nil {
		writeField("filesize", strconv.FormatInt(*m.Filesize, 10))
	}
	if m.Service != "" {
		writeField("service", m.Service)
	}
	if m.Date != nil {
		writeField("date", strconv.FormatInt(*m.Date, 10))
	}
	if m.Filehash != "" {
		writeField("filehash", m.Filehash)
	}
	if m.Tail != nil {
		writeField("tail", strconv.FormatInt(*m.Tail, 10))
	}
	if m.Sender != "" {
		writeField("sender", m.Sender)
	}
	if m.Recipient != "" {
		writeField("recipient", m.Recipient)
	}
	if m.Name != "" {
		writeField("name", m.Name)
	}
	if m.Crypt != nil {
		writeField("crypt", strconv.Itoa(*m.Crypt))
	}
	if m.BK != "" {
		writeField("BK", m.BK)
	}

	extraKeys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		writeField(k, m.Extra[k])
	}

	return buf.Bytes(), nil
}

// UnmarshalText parses a manifest in text+binarysig format. Everything after
// the first NUL byte is the binary signature and is discarded.
func (m *Manifest) UnmarshalText(data []byte) error {
	text := data
	if idx := bytes.IndexByte(data, 0); idx >= 0 {
		text = data[:idx]
	}

	for _, line := range strings.Split(string(text), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("rhizome: malformed manifest line %q", line)
		}
		if err := m.setField(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manifest) setField(key, value string) error {
	switch key {
	case "id":
		m.ID = value
	case "service":
		m.Service = value
	case "filehash":
		m.Filehash = value
	case "sender":
		m.Sender = value
	case "recipient":
		m.Recipient = value
	case "name":
		m.Name = value
	case "BK":
		m.BK = value
	case "version", "filesize", "date", "tail":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("rhizome: manifest field %s=%q is not an integer", key, value)
		}
		switch key {
		case "version":
			m.Version = &n
		case "filesize":
			m.Filesize = &n
		case "date":
			m.Date = &n
		case "tail":
			m.Tail = &n
		}
	case "crypt":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("rhizome: manifest field crypt=%q is not an integer", value)
		}
		m.Crypt = &n
	default:
		if m.Extra == nil {
			m.Extra = make(map[string]string)
		}
		m.Extra[key] = value
	}
	return nil
}
