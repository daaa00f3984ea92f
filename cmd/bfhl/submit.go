package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-bfhl/internal/prompt"
	"github.com/goliatone/go-bfhl/pkg/view"
)

type submitFlags struct {
	json        string
	jsonFile    string
	file        string
	filters     []string
	raw         bool
	interactive bool
}

func newSubmitCmd(a *app) *cobra.Command {
	var f submitFlags
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit once and print the filtered response",
		Example: `  bfhl submit --json '{"data":["A","1","z"]}' --file roll.pdf --filter Numbers
  bfhl submit --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonText, err := f.jsonText(cmd.InOrStdin())
			if err != nil {
				return err
			}
			form := view.New(a.client())

			if f.interactive {
				driver := prompt.NewSurveyDriver(cmd.OutOrStdout())
				return prompt.NewSession(driver, form).Run(cmd.Context(), prompt.Answers{
					JSON:     jsonText,
					FilePath: f.file,
					Filters:  f.filters,
				})
			}

			form.SetJSON(jsonText)
			form.Select(f.filters)

			if err := form.SubmitPath(cmd.Context(), f.file); err != nil {
				a.logger.Debug("submit failed", zap.Error(err))
				msg := form.State().Error
				if msg == view.MsgUnreadableFile {
					return fmt.Errorf("%s: %s", msg, f.file)
				}
				return errors.New(msg)
			}
			return printResult(cmd.OutOrStdout(), form, f.raw)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.json, "json", "", "JSON document with a \"data\" array")
	flags.StringVar(&f.jsonFile, "json-file", "", "read the JSON document from a file (- for stdin)")
	flags.StringVar(&f.file, "file", "", "file to upload")
	flags.StringArrayVar(&f.filters, "filter", nil, "filter to show; repeat for several (Alphabets, Numbers, Highest lowercase alphabet)")
	flags.BoolVar(&f.raw, "raw", false, "print the whole response instead of the filtered view")
	flags.BoolVarP(&f.interactive, "interactive", "i", false, "prompt for every field")
	cmd.MarkFlagsMutuallyExclusive("json", "json-file")
	return cmd
}

func (f submitFlags) jsonText(stdin io.Reader) (string, error) {
	switch strings.TrimSpace(f.jsonFile) {
	case "":
		return f.json, nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("submit: read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(f.jsonFile)
		if err != nil {
			return "", fmt.Errorf("submit: read %s: %w", f.jsonFile, err)
		}
		return string(data), nil
	}
}

func printResult(w io.Writer, form *view.Form, raw bool) error {
	if raw {
		_, err := fmt.Fprintln(w, view.Pretty(form.State().Response))
		return err
	}
	if _, err := fmt.Fprintln(w, "Filtered Response:"); err != nil {
		return err
	}
	return view.WriteBlocks(w, form.Blocks())
}
