package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-bfhl/pkg/client"
	"github.com/goliatone/go-bfhl/pkg/filters"
)

// Block is one rendered filter: the label and the pretty printed value stored
// under its normalised key.
type Block struct {
	Label string `json:"label"`
	Key   string `json:"key"`
	JSON  string `json:"json"`
}

// Blocks projects resp through selected, in selection order. A nil response
// yields no blocks; a missing key renders as null.
func Blocks(resp client.Response, selected []string) []Block {
	if resp == nil {
		return nil
	}
	out := make([]Block, 0, len(selected))
	for _, label := range selected {
		key := filters.Key(label)
		out = append(out, Block{
			Label: label,
			Key:   key,
			JSON:  Pretty(resp[key]),
		})
	}
	return out
}

// Pretty renders v as JSON indented by two spaces without HTML escaping.
func Pretty(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%q", fmt.Sprint(v))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// WriteBlocks prints blocks the way the page lays them out: the label, a
// colon, then the value on the following lines.
func WriteBlocks(w io.Writer, blocks []Block) error {
	for _, b := range blocks {
		if _, err := fmt.Fprintf(w, "%s:\n%s\n", b.Label, b.JSON); err != nil {
			return err
		}
	}
	return nil
}
