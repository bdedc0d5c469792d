package httpx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

// FormField is a single part of a multipart/form-data request body. Parts are
// written in slice order; the daemon requires some fields (bundle-author,
// bundle-secret) to precede the manifest part.
type FormField struct {
	Name        string
	Value       string
	Filename    string
	ContentType string
	Data        []byte
}

// FormBody builds a multipart/form-data body from the given fields and
// returns the body reader together with the Content-Type header value.
func FormBody(fields []FormField) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range fields {
		if f.Filename == "" && f.ContentType == "" {
			if err := w.WriteField(f.Name, f.Value); err != nil {
				return nil, "", fmt.Errorf("httpx: write form field %q: %w", f.Name, err)
			}
			continue
		}

		h := make(textproto.MIMEHeader)
		disposition := fmt.Sprintf(`form-data; name=%q`, f.Name)
		if f.Filename != "" {
			disposition = fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Name, f.Filename)
		}
		h.Set("Content-Disposition", disposition)
		if f.ContentType != "" {
			h.Set("Content-Type", f.ContentType)
		}

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("httpx: create form part %q: %w", f.Name, err)
		}
		data := f.Data
		if data == nil {
			data = []byte(f.Value)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("httpx: write form part %q: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("httpx: close multipart body: %w", err)
	}
	return bytes.NewReader(buf.Bytes()), w.FormDataContentType(), nil
}
