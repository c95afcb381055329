// Package callapi talks to the room-management backend that actually
// creates calls. One invocation is one outbound POST; every failure mode
// comes back as a typed *Error value so callers can branch on Kind
// without unwrapping transport details.
package callapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Second

// Kind classifies a failed call-creation attempt.
type Kind string

const (
	KindTimeout        Kind = "timeout"
	KindRemoteRejected Kind = "remote_rejected"
	KindTransport      Kind = "transport"
	KindUnexpected     Kind = "unexpected"
)

// Error is the only error type CreateCall returns. Status is set for
// KindRemoteRejected.
type Error struct {
	Kind   Kind
	Status int
	err    error
}

func (e *Error) Error() string {
	if e.Kind == KindRemoteRejected {
		return fmt.Sprintf("call api rejected request with status %d", e.Status)
	}
	if e.err != nil {
		return fmt.Sprintf("call api %s failure: %v", e.Kind, e.err)
	}
	return fmt.Sprintf("call api %s failure", e.Kind)
}

func (e *Error) Unwrap() error { return e.err }

// Call is a successfully created call. CallID is opaque and used only
// for logging.
type Call struct {
	JoinURL string
	CallID  string
}

type Client struct {
	baseURL    string
	createPath string
	anonymous  bool
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient builds a client for the call-creation API. When anonymous is
// true the create request carries an empty body (the /api/rooms variant of
// the backend); otherwise the initiator id is sent.
func NewClient(baseURL, createPath string, anonymous bool, logger *zap.SugaredLogger) *Client {
	return &Client{
		baseURL:    baseURL,
		createPath: createPath,
		anonymous:  anonymous,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// WithTimeout overrides the request timeout (for testing).
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}

type createRequest struct {
	InitiatorTelegramID string `json:"initiator_telegram_id"`
}

type createResponse struct {
	JoinURL string `json:"joinUrl"`
	URL     string `json:"url"`
	CallID  string `json:"callId"`
	RoomID  string `json:"roomId"`
}

// CreateCall requests one new call for the given initiator. It performs
// exactly one POST with no retries; retrying is the caller's decision.
// The returned error, when non-nil, is always a *Error.
func (c *Client) CreateCall(ctx context.Context, initiatorID string) (*Call, error) {
	var reqBody []byte
	if !c.anonymous {
		var err error
		reqBody, err = json.Marshal(createRequest{InitiatorTelegramID: initiatorID})
		if err != nil {
			return nil, &Error{Kind: KindUnexpected, err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.createPath, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, &Error{Kind: KindUnexpected, err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindRemoteRejected, Status: resp.StatusCode}
	}

	var body createResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &Error{Kind: KindUnexpected, err: fmt.Errorf("failed to decode response: %w", err)}
	}

	joinURL := body.JoinURL
	if joinURL == "" {
		joinURL = body.URL
	}
	if !isAbsoluteHTTPURL(joinURL) {
		return nil, &Error{Kind: KindUnexpected, err: fmt.Errorf("response join url %q is not an absolute http url", joinURL)}
	}

	callID := body.CallID
	if callID == "" {
		callID = body.RoomID
	}

	return &Call{JoinURL: joinURL, CallID: callID}, nil
}

func classifyTransport(err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, err: err}
	}
	return &Error{Kind: KindTransport, err: err}
}

func isAbsoluteHTTPURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
