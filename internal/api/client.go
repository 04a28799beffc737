package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Error is a non-2xx reply from the server, carrying the decoded error
// envelope when one was present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (status %d)", e.Status)
}

// Client talks to the document-chat backend. Credentials are ambient: the
// bearer token is attached to every request and the cookie jar carries
// whatever the server sets. Callers never handle credentials directly.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	log zerolog.Logger
}

func NewClient(baseURL, token string, log zerolog.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second, Jar: jar},
		log:     log,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "%s %s: read body", method, path)
	}

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request")

	if resp.StatusCode >= 300 {
		var envelope struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &envelope)
		msg := envelope.Error
		if msg == "" {
			msg = envelope.Message
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "%s %s: decode response", method, path)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json", out)
}

// Upload sends the file as a multipart form and returns the server-assigned
// document id.
func (c *Client) Upload(ctx context.Context, name string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", errors.Wrap(err, "read upload file")
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/documents/upload", &buf, form.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.New("upload response missing document id")
	}
	return resp.ID, nil
}

func (c *Client) Progress(ctx context.Context, documentID string) (int, error) {
	var resp struct {
		Progress int `json:"progress"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/documents/"+documentID+"/progress", nil, "", &resp); err != nil {
		return 0, err
	}
	return resp.Progress, nil
}

func (c *Client) Status(ctx context.Context, documentID string) (bool, error) {
	var resp struct {
		Processed bool `json:"processed"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/documents/"+documentID+"/status", nil, "", &resp); err != nil {
		return false, err
	}
	return resp.Processed, nil
}

func (c *Client) StartChat(ctx context.Context, documentID string) (string, error) {
	var resp struct {
		SessionID string `json:"session_id"`
	}
	in := map[string]string{"document_id": documentID}
	if err := c.postJSON(ctx, "/api/chat/start", in, &resp); err != nil {
		return "", err
	}
	if resp.SessionID == "" {
		return "", errors.New("start chat response missing session id")
	}
	return resp.SessionID, nil
}

func (c *Client) Send(ctx context.Context, sessionID, message string) (string, error) {
	var resp struct {
		Response string `json:"response"`
	}
	in := map[string]string{"session_id": sessionID, "message": message}
	if err := c.postJSON(ctx, "/api/chat", in, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

func (c *Client) History(ctx context.Context, sessionID string) ([]TranscriptMessage, error) {
	var resp []TranscriptMessage
	if err := c.do(ctx, http.MethodGet, "/api/chat/history/"+sessionID, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Documents(ctx context.Context) ([]DocumentInfo, error) {
	var resp []DocumentInfo
	if err := c.do(ctx, http.MethodGet, "/api/documents", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Sessions(ctx context.Context, documentID string) ([]SessionInfo, error) {
	var resp []SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/documents/"+documentID+"/sessions", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Evidence(ctx context.Context, documentID, query string) ([]Passage, error) {
	var resp struct {
		Passages []Passage `json:"passages"`
	}
	in := map[string]string{"document_id": documentID, "query": query}
	if err := c.postJSON(ctx, "/api/retrieve", in, &resp); err != nil {
		return nil, err
	}
	return resp.Passages, nil
}

var _ Service = (*Client)(nil)
