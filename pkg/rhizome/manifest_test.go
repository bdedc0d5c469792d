package rhizome

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func i64(n int64) *int64 { return &n }

func TestManifestMarshalText(t *testing.T) {
	m := Manifest{
		ID:       "B1C0",
		Version:  i64(7),
		Filesize: i64(1024),
		Service:  "file",
		Name:     "report.txt",
		Extra:    map[string]string{"zcustom": "1", "acustom": "2"},
	}
	text, err := m.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "id=B1C0\nversion=7\nfilesize=1024\nservice=file\nname=report.txt\nacustom=2\nzcustom=1\n", string(text))
}

func TestManifestMarshalOmitsUnsetFields(t *testing.T) {
	m := Manifest{Service: "file", Name: "hello"}
	text, err := m.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "service=file\nname=hello\n", string(text))
}

func TestManifestUnmarshalDropsSignature(t *testing.T) {
	data := []byte("id=B1C0\nversion=3\nfilesize=5\nservice=file\ndate=1700000000\nfilehash=AB12\n\x00\x17binary-signature-bytes")
	var m Manifest
	require.NoError(t, m.UnmarshalText(data))
	require.Equal(t, "B1C0", m.ID)
	require.Equal(t, int64(3), *m.Version)
	require.Equal(t, int64(5), *m.Filesize)
	require.Equal(t, "file", m.Service)
	require.Equal(t, int64(1700000000), *m.Date)
	require.Equal(t, "AB12", m.Filehash)
	require.False(t, m.IsPartial())
	require.False(t, m.IsJournal())
}

func TestManifestUnmarshalJournal(t *testing.T) {
	var m Manifest
	require.NoError(t, m.UnmarshalText([]byte("id=B1C0\ntail=512\nservice=MeshMS2\n")))
	require.True(t, m.IsJournal())
	require.Equal(t, int64(512), *m.Tail)
	require.True(t, m.IsPartial())
}

func TestManifestUnmarshalKeepsUnknownFields(t *testing.T) {
	var m Manifest
	require.NoError(t, m.UnmarshalText([]byte("id=B1C0\nx-origin=station7\n")))
	require.Equal(t, "station7", m.Extra["x-origin"])
}

func TestManifestUnmarshalRejectsGarbage(t *testing.T) {
	var m Manifest
	require.Error(t, m.UnmarshalText([]byte("not a manifest line\n")))
	require.Error(t, m.UnmarshalText([]byte("filesize=big\n")))
}

func TestManifestValueSeparatorInValue(t *testing.T) {
	var m Manifest
	require.NoError(t, m.UnmarshalText([]byte("name=a=b=c\n")))
	require.Equal(t, "a=b=c", m.Name)
}
