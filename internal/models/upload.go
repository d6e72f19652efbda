package models

import (
	"path/filepath"
	"strings"
)

// UploadedFile holds a receipt for the lifetime of one request.
type UploadedFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (f *UploadedFile) Size() int64 {
	return int64(len(f.Data))
}

// Ext returns the lower-cased extension of the declared file name, e.g. ".jpg".
func (f *UploadedFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.FileName))
}

// StoredBlob is the durable copy of an upload in the object store.
type StoredBlob struct {
	ID     string
	Bucket string
	Size   int64
}
