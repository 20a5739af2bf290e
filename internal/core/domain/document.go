package domain

// MaxUploadBytes bounds a single uploaded document.
const MaxUploadBytes int64 = 50 * 1024 * 1024

// UploadedDocument is held in memory for the duration of one request.
type UploadedDocument struct {
	Filename string
	MimeType string
	Size     int64
	Content  []byte
}

func (d *UploadedDocument) FilenameOrDefault() string {
	if d == nil || d.Filename == "" {
		return "document"
	}
	return d.Filename
}

func (d *UploadedDocument) MimeTypeOrDefault() string {
	if d == nil || d.MimeType == "" {
		return "application/octet-stream"
	}
	return d.MimeType
}
