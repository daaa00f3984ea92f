package view

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// OpenFile reads path into a File for the terminal front ends. An empty
// path yields a nil File, which Submit reports as a missing upload.
func OpenFile(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("view: open file: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	return &File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Content:     content,
	}, nil
}
