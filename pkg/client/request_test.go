package client_test

import (
	"mime"
	"mime/multipart"
	"testing"

	"github.com/goliatone/go-bfhl/pkg/client"
)

func TestEncode_DefaultsFileNameAndContentType(t *testing.T) {
	body, contentType, err := client.Encode(client.Request{
		Data: []string{"x"},
		File: client.File{Content: []byte("raw")},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("unexpected content type %q (%v)", contentType, err)
	}

	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	if got := form.Value["data[]"]; len(got) != 1 || got[0] != "x" {
		t.Fatalf("unexpected data entries %#v", got)
	}
	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected one file part, got %d", len(files))
	}
	if files[0].Filename != "blob" {
		t.Fatalf("unexpected filename %q", files[0].Filename)
	}
	if ct := files[0].Header.Get("Content-Type"); ct != "application/octet-stream" {
		t.Fatalf("unexpected file content type %q", ct)
	}
}
