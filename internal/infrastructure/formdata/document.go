// Package formdata encodes an uploaded document as a multipart/form-data body.
package formdata

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/kirillkom/docai-relay/internal/core/domain"
)

const DocumentField = "document"

type Field struct {
	Name  string
	Value string
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// EncodeDocument writes the document part first, keeping its MIME type, then
// fields in order. It returns the body and its Content-Type header.
func EncodeDocument(doc *domain.UploadedDocument, fields ...Field) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="%s"; filename="%s"`,
		DocumentField,
		quoteEscaper.Replace(doc.FilenameOrDefault()),
	))
	header.Set("Content-Type", doc.MimeTypeOrDefault())
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create document part: %w", err)
	}
	if _, err := part.Write(doc.Content); err != nil {
		return nil, "", fmt.Errorf("write document part: %w", err)
	}
	for _, field := range fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
