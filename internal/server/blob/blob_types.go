package blob

import (
	"errors"
	"io"
)

var (
	ErrFormatNotAllowed = errors.New("file format not allowed")
	ErrFileTooLarge     = errors.New("file too large")
	ErrEmptyFile        = errors.New("file is empty")
)

// UploadParams describes one incoming file. The object key is derived from
// Folder, Field and the extension of FileName.
type UploadParams struct {
	Folder   string
	Field    string
	FileName string
	Size     int64
	Body     io.Reader
}

type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	ETag        string `json:"etag"`
	Size        int64  `json:"size"`
}
