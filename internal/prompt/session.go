// Package prompt drives an interactive submission through a PromptDriver.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-bfhl/pkg/filters"
	"github.com/goliatone/go-bfhl/pkg/view"
)

// Answers holds what the user typed. Defaults seed the prompts.
type Answers struct {
	JSON     string
	FilePath string
	Filters  []string
}

// Session asks for the form fields, submits once and then lets the user
// re-filter the stored response as often as they like.
type Session struct {
	driver PromptDriver
	form   *view.Form
}

func NewSession(driver PromptDriver, form *view.Form) *Session {
	return &Session{driver: driver, form: form}
}

// Collect prompts for the JSON text, the file path and the filters.
func (s *Session) Collect(ctx context.Context, defaults Answers) (Answers, error) {
	jsonText, err := s.driver.TextArea(ctx, TextAreaConfig{
		Message: "JSON",
		Default: defaults.JSON,
		Help:    `Enter JSON (e.g., {"data": ["A", "C", "z"]})`,
	})
	if err != nil {
		return Answers{}, err
	}

	path, err := s.driver.Input(ctx, InputConfig{
		Message:   "File to upload",
		Default:   defaults.FilePath,
		Help:      "Path to the file sent with the data",
		Validator: validatePath,
	})
	if err != nil {
		return Answers{}, err
	}

	selected, err := s.askFilters(ctx, defaults.Filters)
	if err != nil {
		return Answers{}, err
	}

	return Answers{
		JSON:     jsonText,
		FilePath: strings.TrimSpace(path),
		Filters:  selected,
	}, nil
}

// Run collects answers, submits them and prints the filtered response.
// Changing filters afterwards re-renders without another submission.
func (s *Session) Run(ctx context.Context, defaults Answers) error {
	if s == nil || s.driver == nil || s.form == nil {
		return errors.New("prompt: session requires a driver and a form")
	}

	answers, err := s.Collect(ctx, defaults)
	if err != nil {
		return err
	}
	s.form.SetJSON(answers.JSON)
	s.form.Select(answers.Filters)

	if err := s.driver.Info(ctx, view.LabelSubmitting); err != nil {
		return err
	}
	if err := s.form.SubmitPath(ctx, answers.FilePath); err != nil {
		if infoErr := s.driver.Info(ctx, s.form.State().Error); infoErr != nil {
			return infoErr
		}
		return err
	}

	for {
		if err := s.printBlocks(ctx); err != nil {
			return err
		}
		again, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Change filters?"})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		selected, err := s.askFilters(ctx, s.form.State().Selected)
		if err != nil {
			return err
		}
		s.form.Select(selected)
	}
}

func (s *Session) askFilters(ctx context.Context, current []string) ([]string, error) {
	labels := filters.Labels()
	var defaults []int
	for _, label := range filters.Clean(current) {
		for i, candidate := range labels {
			if candidate == label {
				defaults = append(defaults, i)
			}
		}
	}
	indices, err := s.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Filters",
		Options:  labels,
		Defaults: defaults,
	})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(labels) {
			out = append(out, labels[idx])
		}
	}
	return out, nil
}

func (s *Session) printBlocks(ctx context.Context) error {
	var sb strings.Builder
	sb.WriteString("Filtered Response:\n")
	if err := view.WriteBlocks(&sb, s.form.Blocks()); err != nil {
		return err
	}
	return s.driver.Info(ctx, strings.TrimRight(sb.String(), "\n"))
}

func validatePath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
