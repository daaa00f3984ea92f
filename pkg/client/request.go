package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"
)

// File is the uploaded part of a submission.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Request is one submission. Data holds the already stringified "data[]"
// entries in payload order.
type Request struct {
	Data []string
	File File
}

// Response is the backend JSON object, left opaque.
type Response map[string]any

// DataValue renders one payload item as the text sent in a "data[]" field.
// Strings are sent verbatim, numbers in their parsed form (2.50 goes out as
// 2.5) and everything else in its compact JSON spelling.
func DataValue(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case nil:
		return "null"
	case json.Number:
		return numberText(v)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(item); err != nil {
		return fmt.Sprint(item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// numberText spells n as its float64 value: shortest round-trip digits, with
// exponent form outside [1e-6, 1e21). Values that overflow a float64 keep
// their source spelling.
func numberText(n json.Number) string {
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	abs := math.Abs(f)
	if abs == 0 {
		return "0"
	}
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

// DataValues maps DataValue over items.
func DataValues(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, DataValue(item))
	}
	return out
}

// Encode writes req as multipart/form-data and returns the body together
// with its content type.
func Encode(req Request) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, value := range req.Data {
		if err := writer.WriteField(DataField, value); err != nil {
			return nil, "", fmt.Errorf("client: write %s: %w", DataField, err)
		}
	}

	part, err := writer.CreatePart(filePartHeader(req.File))
	if err != nil {
		return nil, "", fmt.Errorf("client: create file part: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(req.File.Content)); err != nil {
		return nil, "", fmt.Errorf("client: write file part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("client: close multipart: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(file File) textproto.MIMEHeader {
	name := file.Name
	if strings.TrimSpace(name) == "" {
		name = "blob"
	}
	contentType := strings.TrimSpace(file.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FileField, quoteEscaper.Replace(name)))
	header.Set("Content-Type", contentType)
	return header
}
