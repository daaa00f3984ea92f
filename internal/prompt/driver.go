package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// InputConfig configures a single line prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a multi-select prompt.
type SelectConfig struct {
	Message  string
	Options  []string
	Defaults []int // indices into Options
	Help     string
}

// TextAreaConfig configures a multi-line prompt.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// PromptDriver abstracts the terminal so the interactive flow can be tested
// with a scripted driver.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

// NewSurveyDriver returns a PromptDriver backed by survey. Info messages go
// to out, or stdout when out is nil.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	var opts []survey.AskOpt
	if cfg.Validator != nil {
		validator := cfg.Validator
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return validator(s)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

// MultiSelect returns the chosen indices in option order.
func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []string
	prompt := &survey.MultiSelect{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if len(cfg.Defaults) > 0 {
		prompt.Default = defaultsFromIndices(cfg.Options, cfg.Defaults)
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return nil, translateSurveyErr(err)
	}
	return indicesOf(cfg.Options, out), nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Multiline{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func indicesOf(options, values []string) []int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	var out []int
	for i, option := range options {
		if _, ok := seen[option]; ok {
			out = append(out, i)
		}
	}
	return out
}

func defaultsFromIndices(options []string, indices []int) []string {
	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}
