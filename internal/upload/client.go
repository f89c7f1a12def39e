package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/backmassage/batchupload/internal/config"
)

// Wire protocol constants.
const (
	UploadPath       = "/plugin/MobileManager/upload.php"
	FileField        = "upl"
	TitleField       = "title"
	DescriptionField = "description"
	CategoryField    = "categories_id"

	// DefaultTimeout bounds one upload from dial to the last body byte.
	DefaultTimeout = 180 * time.Second

	// ErrCannotOpen is the ErrorMessage of a local-open failure.
	ErrCannotOpen = "cannot open file"
)

// Failure classifies why an upload did not succeed.
type Failure string

const (
	FailureNone        Failure = ""
	FailureOpen        Failure = "open"        // File unreadable; network never contacted.
	FailureTransport   Failure = "transport"   // Connection, timeout, DNS, or unexpected panic.
	FailureProtocol    Failure = "protocol"    // Non-JSON or unparsable JSON body.
	FailureApplication Failure = "application" // Valid JSON without the success shape.
)

// Job is one file handed to one target.
type Job struct {
	FilePath    string
	Target      config.Target
	Title       string
	Description string
}

// Result is the normalized outcome of one Job. It is produced exactly once
// per Upload call and never mutated afterwards by this package.
type Result struct {
	Success      bool    `json:"success"`
	ServerID     string  `json:"server_id,omitempty"`
	HTTPStatus   int     `json:"http_status"`
	Kind         *Kind   `json:"kind,omitempty"` // Nil when no response was classified.
	Failure      Failure `json:"failure,omitempty"`
	RawResponse  string  `json:"raw_response,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
	BytesSent    int64   `json:"bytes_sent,omitempty"`

	// Recorded is true when the client already appended a run log record
	// for this result. Callers must not record it a second time.
	Recorded bool `json:"-"`
}

// Recorder persists failure records. The run log writer implements it.
type Recorder interface {
	Record(job Job, res Result) error
}

// Client uploads files. The zero value is not usable; use [NewClient].
type Client struct {
	http *http.Client
	rec  Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (tests, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient returns a Client that records its own transport and protocol
// failures through rec. rec may be nil.
func NewClient(rec Recorder, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{Timeout: DefaultTimeout},
		rec:  rec,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Endpoint returns the upload URL for t with credentials in the query.
func Endpoint(t config.Target) string {
	q := url.Values{}
	q.Set("user", t.User)
	q.Set("pass", t.Pass)
	return t.BaseURL + UploadPath + "?" + q.Encode()
}

// Upload sends job and classifies the reply. It never returns an error:
// every failure mode is captured in the Result.
func (c *Client) Upload(ctx context.Context, job Job) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Failure: FailureTransport, ErrorMessage: fmt.Sprintf("Unexpected error: %v", r)}
			c.record(job, &res)
		}
	}()

	f, err := os.Open(job.FilePath)
	if err != nil {
		return Result{Failure: FailureOpen, ErrorMessage: ErrCannotOpen}
	}
	defer f.Close()

	var size int64
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}

	stream := newFormStream(f, job)
	defer stream.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, Endpoint(job.Target), stream.r)
	if err != nil {
		return c.transportFailure(job, 0, multierr.Append(err, stream.Close()))
	}
	req.Header.Set("Content-Type", stream.contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportFailure(job, 0, multierr.Append(err, stream.Close()))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportFailure(job, resp.StatusCode, err)
	}
	_ = stream.Close()

	v := Classify(string(body))
	kind := v.Kind
	res = Result{
		Success:     v.Success(),
		ServerID:    v.ServerID,
		HTTPStatus:  resp.StatusCode,
		Kind:        &kind,
		RawResponse: v.Context,
	}
	switch v.Kind {
	case KindStructuredSuccess:
		res.BytesSent = size
	case KindStructuredFailure:
		res.Failure = FailureApplication
		res.ErrorMessage = v.Message()
	default:
		res.Failure = FailureProtocol
		res.ErrorMessage = v.Message()
		c.record(job, &res)
	}
	return res
}

func (c *Client) transportFailure(job Job, status int, err error) Result {
	res := Result{
		HTTPStatus:   status,
		Failure:      FailureTransport,
		ErrorMessage: "Request failed: " + Flatten(redactCredentials(err)),
	}
	c.record(job, &res)
	return res
}

func (c *Client) record(job Job, res *Result) {
	if c.rec == nil {
		return
	}
	if err := c.rec.Record(job, *res); err == nil {
		res.Recorded = true
	}
}

// redactCredentials renders err with the query string (user and pass)
// stripped from any request URL it quotes.
func redactCredentials(err error) string {
	msg := err.Error()
	var ue *url.Error
	if errors.As(err, &ue) {
		if base, _, ok := strings.Cut(ue.URL, "?"); ok {
			msg = strings.ReplaceAll(msg, ue.URL, base)
		}
	}
	return msg
}

// formStream produces the multipart body through a pipe so large videos
// are never buffered in memory.
type formStream struct {
	r           *io.PipeReader
	contentType string
	done        chan struct{}
	err         error
}

func newFormStream(f *os.File, job Job) *formStream {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	s := &formStream{r: pr, contentType: mw.FormDataContentType(), done: make(chan struct{})}
	go func() {
		defer close(s.done)
		err := writeForm(mw, f, job)
		if errors.Is(err, io.ErrClosedPipe) {
			err = nil
		}
		s.err = err
		_ = pw.CloseWithError(err)
	}()
	return s
}

// Close unblocks and waits for the writer goroutine and returns its error.
// Safe to call more than once.
func (s *formStream) Close() error {
	_ = s.r.Close()
	<-s.done
	return s.err
}

// quoteEscaper escapes a file name for the Content-Disposition header. Line
// breaks are percent-encoded as browsers do so they cannot end the header.
var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"", "\r", "%0D", "\n", "%0A")

func writeForm(mw *multipart.Writer, f *os.File, job Job) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FileField, quoteEscaper.Replace(filepath.Base(job.FilePath))))
	h.Set("Content-Type", ContentType(job.FilePath))
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(job.FilePath), err)
	}
	if job.Title != "" {
		if err := mw.WriteField(TitleField, job.Title); err != nil {
			return err
		}
	}
	if job.Description != "" {
		if err := mw.WriteField(DescriptionField, job.Description); err != nil {
			return err
		}
	}
	if job.Target.CategoryID > 0 {
		if err := mw.WriteField(CategoryField, strconv.Itoa(job.Target.CategoryID)); err != nil {
			return err
		}
	}
	return mw.Close()
}
