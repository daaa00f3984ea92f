package view

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-bfhl/pkg/client"
	"github.com/goliatone/go-bfhl/pkg/filters"
)

// Submitter posts a prepared request. *client.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req client.Request) (client.Response, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req client.Request) (client.Response, error)

func (fn SubmitterFunc) Submit(ctx context.Context, req client.Request) (client.Response, error) {
	return fn(ctx, req)
}

// State is a point-in-time copy of the form.
type State struct {
	JSON     string          `json:"json"`
	File     *File           `json:"-"`
	FileName string          `json:"file_name,omitempty"`
	Selected []string        `json:"selected,omitempty"`
	Error    string          `json:"error,omitempty"`
	Response client.Response `json:"response,omitempty"`
	InFlight bool            `json:"in_flight"`
}

type Option func(*Form)

// WithObserver registers fn to receive a State after every transition.
// Observers run outside the form lock, in registration order.
func WithObserver(fn func(State)) Option {
	return func(f *Form) {
		if fn != nil {
			f.observers = append(f.observers, fn)
		}
	}
}

// Form is the submission form. The zero value is not usable; call New.
type Form struct {
	submitter Submitter
	observers []func(State)

	mu       sync.Mutex
	jsonText string
	file     *File
	selected []string
	errMsg   string
	response client.Response
	inFlight bool
}

func New(submitter Submitter, opts ...Option) *Form {
	f := &Form{submitter: submitter}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

func (f *Form) SetJSON(text string) {
	f.update(func() { f.jsonText = text })
}

// SetFile selects the upload. A nil file clears the selection.
func (f *Form) SetFile(file *File) {
	f.update(func() {
		if file == nil {
			f.file = nil
			return
		}
		cp := *file
		f.file = &cp
	})
}

// Select replaces the selected filter labels. Unknown labels and repeats are
// dropped; order is kept.
func (f *Form) Select(labels []string) {
	f.update(func() { f.selected = filters.Clean(labels) })
}

// Restore stores a response obtained earlier, so filters can be re-applied
// without a new submission.
func (f *Form) Restore(resp client.Response) {
	f.update(func() { f.response = resp })
}

func (f *Form) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// SubmitLabel is the caption of the submit control.
func (f *Form) SubmitLabel() string {
	if f.InFlight() {
		return LabelSubmitting
	}
	return LabelSubmit
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Blocks renders the stored response through the current selection.
func (f *Form) Blocks() []Block {
	f.mu.Lock()
	resp, selected := f.response, append([]string(nil), f.selected...)
	f.mu.Unlock()
	return Blocks(resp, selected)
}

// Submit validates the form and posts it. The returned error is the cause;
// the message shown to the user is stored in State().Error. ErrInFlight is
// returned, without touching state, while another submission is pending.
func (f *Form) Submit(ctx context.Context) error {
	return f.submit(ctx, "", false)
}

// SubmitPath is Submit for front ends that hold a path instead of file
// contents. The pasted JSON is checked before path is read, so a bad
// document is reported ahead of an unreadable file. An empty path is a
// missing upload.
func (f *Form) SubmitPath(ctx context.Context, path string) error {
	return f.submit(ctx, path, true)
}

func (f *Form) submit(ctx context.Context, path string, fromPath bool) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrInFlight
	}
	f.inFlight = true
	f.errMsg = ""
	f.response = nil
	jsonText, file := f.jsonText, f.file
	started := f.snapshotLocked()
	f.mu.Unlock()
	f.notify(started)

	defer f.update(func() { f.inFlight = false })

	if fromPath {
		if _, err := checkDocument(jsonText); err != nil {
			f.update(func() { f.errMsg = Message(err) })
			return err
		}
		loaded, err := OpenFile(path)
		if err != nil {
			err = &ValidationError{Message: MsgUnreadableFile, Err: err}
			f.update(func() {
				f.file = nil
				f.errMsg = MsgUnreadableFile
			})
			return err
		}
		file = loaded
		f.update(func() { f.file = loaded })
	}

	req, err := Prepare(jsonText, file)
	if err != nil {
		f.update(func() { f.errMsg = Message(err) })
		return err
	}

	if f.submitter == nil {
		err := errors.New("view: no submitter configured")
		f.update(func() { f.errMsg = MsgFetchError })
		return err
	}

	resp, err := f.submitter.Submit(ctx, req)
	if err != nil {
		f.update(func() { f.errMsg = Message(err) })
		return err
	}

	f.update(func() {
		f.errMsg = ""
		f.response = resp
	})
	return nil
}

func (f *Form) update(fn func()) {
	f.mu.Lock()
	fn()
	state := f.snapshotLocked()
	f.mu.Unlock()
	f.notify(state)
}

func (f *Form) notify(state State) {
	for _, fn := range f.observers {
		fn(state)
	}
}

func (f *Form) snapshotLocked() State {
	state := State{
		JSON:     f.jsonText,
		Selected: append([]string(nil), f.selected...),
		Error:    f.errMsg,
		Response: f.response,
		InFlight: f.inFlight,
	}
	if f.file != nil {
		cp := *f.file
		state.File = &cp
		state.FileName = cp.Name
	}
	return state
}
