package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"secretto/internal/domain"
)

// Client talks to a secrettod instance.
type Client struct {
	Base string
	HTTP *http.Client
}

// New returns a Client for the given base URL.
func New(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{Base: base, HTTP: httpClient}
}

// PublishKey uploads our public key to the directory.
func (c *Client) PublishKey(ctx context.Context, user domain.UserID, publicKey string) error {
	return c.do(ctx, http.MethodPut, "/v1/keys/"+url.PathEscape(user.String()),
		map[string]string{"public_key": publicKey}, nil, nil)
}

// FetchKey retrieves a user's published public key. ok is false when the
// directory has never seen the user.
func (c *Client) FetchKey(ctx context.Context, user domain.UserID) (string, bool, error) {
	var out struct {
		PublicKey string `json:"public_key"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/keys/"+url.PathEscape(user.String()), nil, &out, nil)
	if isNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out.PublicKey, true, nil
}

// CreateSessionRequest mirrors the server's session-start payload.
type CreateSessionRequest struct {
	Name         string        `json:"name"`
	Participants [2]string     `json:"participants"`
	Password     string        `json:"password,omitempty"`
	TTL          time.Duration `json:"ttl,omitempty"`
}

// CreateSession starts a new chat session.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (domain.Session, error) {
	var sess domain.Session
	if err := c.do(ctx, http.MethodPost, "/v1/sessions", req, &sess, nil); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// Sessions lists the caller's sessions, transcripts included.
func (c *Client) Sessions(ctx context.Context, user domain.UserID) ([]domain.Session, error) {
	var out []domain.Session
	err := c.do(ctx, http.MethodGet, "/v1/sessions?participant="+url.QueryEscape(user.String()), nil, &out, nil)
	return out, err
}

// Session fetches one session; password gates password-protected chats.
func (c *Client) Session(ctx context.Context, id, password string) (domain.Session, error) {
	var headers map[string]string
	if password != "" {
		headers = map[string]string{"X-Session-Password": password}
	}
	var sess domain.Session
	err := c.do(ctx, http.MethodGet, "/v1/sessions/"+url.PathEscape(id), nil, &sess, headers)
	if isNotFound(err) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return sess, err
}

// UploadFile stores an encrypted blob and returns its id.
func (c *Client) UploadFile(ctx context.Context, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/v1/files", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("gateway post /v1/files: %s", resp.Status)
	}
	var out struct {
		FileID string `json:"file_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.FileID, nil
}

// DownloadFile retrieves an encrypted blob by id.
func (c *Client) DownloadFile(ctx context.Context, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+"/v1/files/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("gateway get /v1/files/%s: %s", id, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

type statusError struct {
	method string
	path   string
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gateway %s %s: %s", e.method, e.path, e.status)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.code == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, headers map[string]string) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return &statusError{method: method, path: path, code: resp.StatusCode, status: resp.Status}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
