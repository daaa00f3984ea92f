package view_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-bfhl/pkg/client"
	"github.com/goliatone/go-bfhl/pkg/view"
)

func TestSubmitPath_DocumentCheckedBeforeFileIsRead(t *testing.T) {
	absent := filepath.Join(t.TempDir(), "absent.txt")
	cases := []struct {
		name string
		json string
		path string
		want string
	}{
		{name: "invalid json, unreadable path", json: "not json", path: absent, want: view.MsgInvalidJSON},
		{name: "missing data, unreadable path", json: `{"items":[]}`, path: absent, want: view.MsgMissingData},
		{name: "valid json, unreadable path", json: `{"data":["A"]}`, path: absent, want: view.MsgUnreadableFile},
		{name: "valid json, no path", json: `{"data":["A"]}`, path: " ", want: view.MsgMissingFile},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := &fakeSubmitter{}
			form := view.New(sub)
			form.SetJSON(tc.json)

			err := form.SubmitPath(context.Background(), tc.path)

			var validation *view.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			state := form.State()
			if state.Error != tc.want {
				t.Fatalf("unexpected error message %q, want %q", state.Error, tc.want)
			}
			if sub.calls != 0 {
				t.Fatalf("expected no network call, got %d", sub.calls)
			}
			if state.InFlight {
				t.Fatalf("in-flight flag left set")
			}
		})
	}
}

func TestSubmitPath_UnreadableFileClearsPreviousResponse(t *testing.T) {
	form := view.New(&fakeSubmitter{})
	form.Restore(client.Response{"numbers": []any{"1"}})
	form.SetJSON(`{"data":["1"]}`)

	_ = form.SubmitPath(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))

	state := form.State()
	if state.Response != nil {
		t.Fatalf("expected previous response to be cleared, got %v", state.Response)
	}
	if state.Error != view.MsgUnreadableFile {
		t.Fatalf("unexpected error message %q", state.Error)
	}
}

func TestSubmitPath_ReadsFileAndSubmits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roll.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sub := &fakeSubmitter{resp: client.Response{"numbers": []any{"1"}}}
	form := view.New(sub)
	form.SetJSON(`{"data":["1"]}`)

	if err := form.SubmitPath(context.Background(), path); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.calls != 1 {
		t.Fatalf("expected one call, got %d", sub.calls)
	}
	if got := sub.reqs[0].File; got.Name != "roll.txt" || string(got.Content) != "hello" {
		t.Fatalf("unexpected file %+v", got)
	}
	if got := form.State().FileName; got != "roll.txt" {
		t.Fatalf("expected file name in state, got %q", got)
	}
}

func TestSubmit_NullResponseIsNoResponse(t *testing.T) {
	form := view.New(&fakeSubmitter{})
	form.SetJSON(`{"data":["A"]}`)
	form.SetFile(sampleFile())
	form.Select([]string{"Alphabets"})

	if err := form.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	state := form.State()
	if state.Error != "" || state.Response != nil {
		t.Fatalf("expected no error and no response, got %q %v", state.Error, state.Response)
	}
	if blocks := form.Blocks(); blocks != nil {
		t.Fatalf("expected no blocks, got %v", blocks)
	}
}
