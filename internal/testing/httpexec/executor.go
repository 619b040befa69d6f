// Package httpexec sends single HTTP requests and normalizes their responses.
package httpexec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	headerRequestID   = "X-Request-Id"
	contentTypeJSON   = "application/json"
)

var (
	errInvalidRequest = errors.New("invalid request")
	errBodyNotJSON    = errors.New("response body is not valid JSON")
)

// Request describes a single outbound call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is sent as-is when it is a string or []byte, otherwise it is JSON encoded.
	Body interface{}
}

// Response is the normalized outcome of a request. It is not modified after Execute returns.
type Response struct {
	Status  int
	Headers http.Header
	RawBody []byte
	// Body is the parsed JSON body, or ldvalue.Null() when the body is empty or not JSON.
	Body ldvalue.Value
	// ParseErr is set when a JSON body was declared but could not be parsed.
	ParseErr error
	Elapsed  time.Duration
}

// Header returns the first value of a header, matching the name case-insensitively.
func (r *Response) Header(name string) string {
	return r.Headers.Get(name)
}

// Executor sends requests. It holds no state between calls beyond its HTTP client.
type Executor interface {
	Execute(ctx context.Context, req Request) (*Response, error)
}

type executor struct {
	client *http.Client
	log    logrus.FieldLogger
}

// NewExecutor creates an executor that applies the connection and read timeouts.
// Requests are never retried.
func NewExecutor(log logrus.FieldLogger, timeouts config.Timeouts) Executor {
	dialer := &net.Dialer{Timeout: timeouts.Connection}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   timeouts.Connection,
		ResponseHeaderTimeout: timeouts.Read,
		MaxIdleConnsPerHost:   2,
	}

	return &executor{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeouts.Read,
		},
		log: log.WithField("component", "http_executor"),
	}
}

func (e *executor) Execute(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	e.log.WithField("curl", ToCurl(req)).Debug("sending request")

	start := time.Now()

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Method: req.Method, URL: req.URL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: req.Method, URL: req.URL, Err: fmt.Errorf("reading response body: %w", err)}
	}

	out := &Response{
		Status:  resp.StatusCode,
		Headers: resp.Header.Clone(),
		RawBody: raw,
		Body:    ldvalue.Null(),
		Elapsed: time.Since(start),
	}

	if declaresJSON(resp.Header.Get(headerContentType), raw) {
		body, parseErr := parseJSON(raw)
		if parseErr != nil {
			out.ParseErr = parseErr
		} else {
			out.Body = body
		}
	}

	e.log.WithFields(logrus.Fields{
		"method":  req.Method,
		"url":     req.URL,
		"status":  out.Status,
		"bytes":   len(raw),
		"elapsed": out.Elapsed,
	}).Debug("received response")

	return out, nil
}

func buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	payload, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding body: %v", errInvalidRequest, err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	httpReq.Header.Set(headerAccept, contentTypeJSON)
	httpReq.Header.Set(headerRequestID, uuid.NewString())

	if payload != nil {
		httpReq.Header.Set(headerContentType, contentTypeJSON)
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	return httpReq, nil
}

func encodeBody(body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return json.Marshal(b)
	}
}

// declaresJSON reports whether the body should be parsed as JSON. Without a
// content type the body is sniffed for a leading object or array delimiter.
func declaresJSON(contentType string, raw []byte) bool {
	if len(bytes.TrimSpace(raw)) == 0 {
		return false
	}

	if contentType == "" {
		trimmed := bytes.TrimSpace(raw)
		return trimmed[0] == '{' || trimmed[0] == '['
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == contentTypeJSON || strings.HasSuffix(mediaType, "+json")
}

func parseJSON(raw []byte) (ldvalue.Value, error) {
	var v ldvalue.Value
	if err := json.Unmarshal(raw, &v); err != nil {
		return ldvalue.Null(), fmt.Errorf("%w: %v", errBodyNotJSON, err)
	}
	return v, nil
}

// Compile-time interface compliance check
var _ Executor = (*executor)(nil)
