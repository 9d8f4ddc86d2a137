package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxEnvelopeSize caps how much of a JSON response is read.
const maxEnvelopeSize = 8 << 20

// ErrTransport marks failures where no response came back from the backend.
var ErrTransport = errors.New("backend unreachable")

// APIError is a response the backend answered with a failure status, either
// as an HTTP status or as the envelope status.
type APIError struct {
	HTTPStatus int
	Status     int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err means the backend session is missing or expired.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && (ae.HTTPStatus == http.StatusUnauthorized || ae.Status == http.StatusUnauthorized)
}

// Message returns the text to show a user for err.
func Message(err error) string {
	var ae *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae) && ae.Message != "":
		return ae.Message
	case errors.Is(err, ErrTransport):
		return "The server could not be reached. Try again in a moment."
	default:
		return "Something went wrong. Try again."
	}
}

// Envelope is the uniform response wrapper of the backend.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// OK reports whether the envelope carries a success status.
func (e *Envelope) OK() bool {
	return e.Status >= 200 && e.Status < 300
}

// Client talks to the backend REST API. A single Client is shared by all
// browser sessions; per-browser cookies travel in the request context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do sends a JSON request and decodes the envelope of the answer.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in any) (*Envelope, error) {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.send(req)
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, nil, in)
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, in any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, nil, in)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// GetResult sends a GET request and decodes the envelope data into T.
func GetResult[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	env, err := c.Get(ctx, path, query)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](env)
}

// Decode unmarshals the envelope data into T. Missing or null data yields the zero T.
func Decode[T any](env *Envelope) (T, error) {
	var out T
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decoding envelope data: %w", err)
	}
	return out, nil
}

// FormFile is one file part of a multipart upload.
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// PostForm sends a multipart/form-data POST with plain fields and files.
func (c *Client) PostForm(ctx context.Context, path string, fields map[string]string, files ...FormFile) (*Envelope, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("writing form field %s: %w", k, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, fmt.Errorf("creating form file %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("copying form file %s: %w", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path, nil), buf)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.send(req)
}

// Download is a binary response. The caller must close Body.
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Download fetches a binary resource. Failure answers are decoded as envelopes.
func (c *Client) Download(ctx context.Context, path string, query url.Values) (*Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path, query), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeSize))
		_, err := parseEnvelope(resp.StatusCode, payload)
		return nil, err
	}

	return &Download{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}

// roundTrip sends req with the context's backend cookies and records any
// cookies the backend sets.
func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	jar := CookiesFrom(req.Context())
	if jar != nil {
		jar.apply(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, req.Method, req.URL.Path, err)
	}
	if jar != nil {
		jar.absorb(resp.Cookies())
	}
	return resp, nil
}

func (c *Client) send(req *http.Request) (*Envelope, error) {
	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}
	return parseEnvelope(resp.StatusCode, payload)
}

func parseEnvelope(httpStatus int, payload []byte) (*Envelope, error) {
	env := &Envelope{}
	payload = bytes.TrimSpace(payload)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, env); err != nil {
			if httpStatus >= 400 {
				return nil, &APIError{HTTPStatus: httpStatus, Status: httpStatus, Message: plainMessage(httpStatus, payload)}
			}
			return nil, fmt.Errorf("decoding envelope: %w", err)
		}
	}

	if env.Status == 0 {
		env.Status = httpStatus
	}
	if httpStatus >= 400 || !env.OK() {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(env.Status)
		}
		return nil, &APIError{HTTPStatus: httpStatus, Status: env.Status, Message: msg}
	}
	return env, nil
}

func plainMessage(status int, payload []byte) string {
	if len(payload) > 0 && len(payload) < 200 && !bytes.HasPrefix(payload, []byte("<")) {
		return string(payload)
	}
	return http.StatusText(status)
}
