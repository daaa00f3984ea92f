package view

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/goliatone/go-bfhl/pkg/client"
)

// File is the uploaded file as held by the form.
type File = client.File

// Prepare validates the pasted JSON and the file and builds the request the
// Submitter receives. Checks run in order: JSON syntax, the "data" array,
// then the file.
func Prepare(jsonText string, file *File) (client.Request, error) {
	items, err := checkDocument(jsonText)
	if err != nil {
		return client.Request{}, err
	}

	if file == nil {
		return client.Request{}, &ValidationError{Message: MsgMissingFile}
	}

	return client.Request{
		Data: client.DataValues(items),
		File: *file,
	}, nil
}

// checkDocument runs the checks on the pasted text that come before the file
// check and returns the "data" items.
func checkDocument(jsonText string) ([]any, error) {
	payload, err := parseJSON(jsonText)
	if err != nil {
		return nil, &ValidationError{Message: MsgInvalidJSON, Err: err}
	}
	items, err := dataItems(payload)
	if err != nil {
		return nil, &ValidationError{Message: MsgMissingData, Err: err}
	}
	return items, nil
}

func parseJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty input")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return out, nil
}

func dataItems(payload any) ([]any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, errors.New("top-level value is not an object")
	}
	raw, ok := obj["data"]
	if !ok {
		return nil, errors.New(`missing "data"`)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, errors.New(`"data" is not an array`)
	}
	return items, nil
}
