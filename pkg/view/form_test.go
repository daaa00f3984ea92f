package view_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bfhl/pkg/client"
	"github.com/goliatone/go-bfhl/pkg/view"
)

type recorder struct {
	mu       sync.Mutex
	inFlight []bool
}

func (r *recorder) observe(s view.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight = append(r.inFlight, s.InFlight)
}

func (r *recorder) sawInFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.inFlight {
		if v {
			return true
		}
	}
	return false
}

type fakeSubmitter struct {
	calls int
	reqs  []client.Request
	resp  client.Response
	err   error
	// during runs inside Submit, while the form is in flight.
	during func()
}

func (f *fakeSubmitter) Submit(_ context.Context, req client.Request) (client.Response, error) {
	f.calls++
	f.reqs = append(f.reqs, req)
	if f.during != nil {
		f.during()
	}
	return f.resp, f.err
}

func sampleFile() *view.File {
	return &view.File{Name: "roll.txt", ContentType: "text/plain", Content: []byte("data")}
}

func TestSubmit_InvalidJSONSkipsNetwork(t *testing.T) {
	sub := &fakeSubmitter{}
	rec := &recorder{}
	form := view.New(sub, view.WithObserver(rec.observe))
	form.SetJSON("not json")
	form.SetFile(sampleFile())

	err := form.Submit(context.Background())

	var validation *view.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	state := form.State()
	if state.Error != view.MsgInvalidJSON {
		t.Fatalf("unexpected error message %q", state.Error)
	}
	if sub.calls != 0 {
		t.Fatalf("expected no network call, got %d", sub.calls)
	}
	if state.InFlight || !rec.sawInFlight() {
		t.Fatalf("in-flight flag not scoped to submission: final=%v seen=%v", state.InFlight, rec.inFlight)
	}
}

func TestSubmit_MissingFileSkipsNetwork(t *testing.T) {
	sub := &fakeSubmitter{}
	form := view.New(sub)
	form.SetJSON(`{"data":["A","1","z"]}`)

	_ = form.Submit(context.Background())

	if got := form.State().Error; got != view.MsgMissingFile {
		t.Fatalf("unexpected error message %q", got)
	}
	if sub.calls != 0 {
		t.Fatalf("expected no network call, got %d", sub.calls)
	}
	if form.InFlight() {
		t.Fatalf("in-flight flag left set")
	}
}

func TestSubmit_MissingDataArraySkipsNetwork(t *testing.T) {
	for _, input := range []string{`{"items":[1]}`, `{"data":"A"}`, `["A"]`, `42`} {
		sub := &fakeSubmitter{}
		form := view.New(sub)
		form.SetJSON(input)
		form.SetFile(sampleFile())

		_ = form.Submit(context.Background())

		if got := form.State().Error; got != view.MsgMissingData {
			t.Fatalf("%s: unexpected error message %q", input, got)
		}
		if sub.calls != 0 {
			t.Fatalf("%s: expected no network call", input)
		}
	}
}

func TestSubmit_TrailingGarbageIsInvalidJSON(t *testing.T) {
	form := view.New(&fakeSubmitter{})
	form.SetJSON(`{"data":[]} {}`)
	form.SetFile(sampleFile())

	_ = form.Submit(context.Background())

	if got := form.State().Error; got != view.MsgInvalidJSON {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestSubmit_SuccessStoresResponse(t *testing.T) {
	resp := client.Response{
		"alphabets":                  []any{"A", "z"},
		"numbers":                    []any{"1"},
		"highest_lowercase_alphabet": []any{"z"},
	}
	var form *view.Form
	sub := &fakeSubmitter{resp: resp}
	sub.during = func() {
		if !form.InFlight() {
			t.Errorf("expected in-flight during network call")
		}
		if form.SubmitLabel() != view.LabelSubmitting {
			t.Errorf("unexpected label during call: %q", form.SubmitLabel())
		}
	}
	form = view.New(sub)
	form.SetJSON(`{"data":["A","1","z"]}`)
	form.SetFile(sampleFile())

	if err := form.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if sub.calls != 1 {
		t.Fatalf("expected one call, got %d", sub.calls)
	}
	wantReq := client.Request{Data: []string{"A", "1", "z"}, File: *sampleFile()}
	if diff := cmp.Diff(wantReq, sub.reqs[0]); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
	state := form.State()
	if state.Error != "" || state.InFlight {
		t.Fatalf("unexpected state after success: %+v", state)
	}
	if diff := cmp.Diff(resp, state.Response); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
	if form.SubmitLabel() != view.LabelSubmit {
		t.Fatalf("label not restored: %q", form.SubmitLabel())
	}
}

func TestSubmit_FailuresClearPreviousResponse(t *testing.T) {
	sub := &fakeSubmitter{resp: client.Response{"numbers": []any{"1"}}}
	form := view.New(sub)
	form.SetJSON(`{"data":["1"]}`)
	form.SetFile(sampleFile())
	if err := form.Submit(context.Background()); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	sub.resp = nil
	sub.err = &client.StatusError{Code: http.StatusInternalServerError}
	_ = form.Submit(context.Background())

	state := form.State()
	if state.Error != view.MsgHTTPFailure {
		t.Fatalf("unexpected error message %q", state.Error)
	}
	if state.Response != nil {
		t.Fatalf("expected response cleared, got %#v", state.Response)
	}
	if blocks := form.Blocks(); blocks != nil {
		t.Fatalf("expected no blocks, got %#v", blocks)
	}
}

func TestSubmit_TransportFailureMessage(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("connection reset")}
	rec := &recorder{}
	form := view.New(sub, view.WithObserver(rec.observe))
	form.SetJSON(`{"data":[]}`)
	form.SetFile(sampleFile())

	_ = form.Submit(context.Background())

	if got := form.State().Error; got != view.MsgFetchError {
		t.Fatalf("unexpected error message %q", got)
	}
	if form.InFlight() || !rec.sawInFlight() {
		t.Fatalf("in-flight flag not scoped to submission: %v", rec.inFlight)
	}
}

func TestSubmit_RejectsOverlappingSubmission(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	sub := view.SubmitterFunc(func(ctx context.Context, _ client.Request) (client.Response, error) {
		close(entered)
		<-release
		return client.Response{}, nil
	})
	form := view.New(sub)
	form.SetJSON(`{"data":[]}`)
	form.SetFile(sampleFile())

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()
	<-entered

	if err := form.Submit(context.Background()); !errors.Is(err, view.ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if form.InFlight() {
		t.Fatalf("in-flight flag left set")
	}
}

func TestSubmit_ClearsInFlightOnPanic(t *testing.T) {
	sub := view.SubmitterFunc(func(context.Context, client.Request) (client.Response, error) {
		panic("boom")
	})
	form := view.New(sub)
	form.SetJSON(`{"data":[]}`)
	form.SetFile(sampleFile())

	func() {
		defer func() { _ = recover() }()
		_ = form.Submit(context.Background())
	}()

	if form.InFlight() {
		t.Fatalf("in-flight flag left set after panic")
	}
}

func TestSubmit_EndToEndAgainstBackend(t *testing.T) {
	var posts int
	var data []string
	var files int
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/bfhl" {
			http.NotFound(w, r)
			return
		}
		posts++
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data = r.MultipartForm.Value["data[]"]
		files = len(r.MultipartForm.File["file"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"alphabets":["A","z"],"numbers":["1"],"highest_lowercase_alphabet":["z"]}`)
	}))
	defer backend.Close()

	form := view.New(client.New(client.WithBaseURL(backend.URL), client.WithHTTPClient(backend.Client())))
	form.SetJSON(`{"data":["A","1","z"]}`)
	form.SetFile(sampleFile())

	if err := form.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if posts != 1 || files != 1 {
		t.Fatalf("expected one POST with one file, got posts=%d files=%d", posts, files)
	}
	if diff := cmp.Diff([]string{"A", "1", "z"}, data); diff != "" {
		t.Fatalf("data[] mismatch (-want +got):\n%s", diff)
	}

	form.Select([]string{"Alphabets", "Numbers"})
	want := []view.Block{
		{Label: "Alphabets", Key: "alphabets", JSON: "[\n  \"A\",\n  \"z\"\n]"},
		{Label: "Numbers", Key: "numbers", JSON: "[\n  \"1\"\n]"},
	}
	if diff := cmp.Diff(want, form.Blocks()); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_BackendErrorStatus(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer backend.Close()

	form := view.New(client.New(client.WithBaseURL(backend.URL), client.WithHTTPClient(backend.Client())))
	form.SetJSON(`{"data":["A"]}`)
	form.SetFile(sampleFile())
	form.Select([]string{"Alphabets"})

	_ = form.Submit(context.Background())

	if got := form.State().Error; got != view.MsgHTTPFailure {
		t.Fatalf("unexpected error message %q", got)
	}
	if blocks := form.Blocks(); len(blocks) != 0 {
		t.Fatalf("expected nothing rendered, got %#v", blocks)
	}
}
