package mattermost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/singnet/mattermost-notify/models"
	"github.com/singnet/mattermost-notify/receivers"
)

// Mattermost rejects posts longer than this many runes.
const maxMessageLenRunes = 16383

const (
	pathUsersMe        = "/api/v4/users/me"
	pathUserByEmail    = "/api/v4/users/email/%s"
	pathUserByUsername = "/api/v4/users/username/%s"
	pathDirectChannel  = "/api/v4/channels/direct"
	pathPosts          = "/api/v4/posts"
	pathFiles          = "/api/v4/files"
	formFieldChannelID = "channel_id"
	formFieldFiles     = "files"
)

// APIConfig holds the credentials of the authenticated API.
type APIConfig struct {
	ServerURL string
	Token     string
}

// Client talks to the Mattermost REST API with a bearer token.
type Client struct {
	*receivers.Base
	ns       receivers.WebhookSender
	settings APIConfig
}

// NewClient builds an API client. sender must allow GET requests for the user lookups.
func NewClient(cfg APIConfig, meta receivers.Metadata, sender receivers.WebhookSender, logger log.Logger) *Client {
	return &Client{
		Base:     receivers.NewBase(meta, logger),
		ns:       sender,
		settings: cfg,
	}
}

func (c *Client) authHeader() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.settings.Token}
}

type request struct {
	op          string
	method      string
	path        string
	body        []byte
	contentType string
	out         any
}

func (c *Client) do(ctx context.Context, r request) error {
	u, err := receivers.JoinURL(c.settings.ServerURL, r.path)
	if err != nil {
		return &APICallError{Op: r.op, Method: r.method, URL: c.settings.ServerURL + r.path, Err: err}
	}

	cmd := &receivers.SendWebhookSettings{
		URL:         u,
		Body:        string(r.body),
		HTTPMethod:  r.method,
		ContentType: r.contentType,
		HTTPHeader:  c.authHeader(),
		Validation:  decodeResponse(r.out),
	}
	level.Debug(c.GetLogger(ctx)).Log("msg", "Calling Mattermost API", "method", r.method, "url", u)
	if err := c.ns.SendWebhook(ctx, cmd); err != nil {
		return &APICallError{Op: r.op, Method: r.method, URL: u, Err: err}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	body, err := models.JSON.Marshal(payload)
	if err != nil {
		return &APICallError{Op: op, Method: http.MethodPost, URL: path, Err: err}
	}
	return c.do(ctx, request{op: op, method: http.MethodPost, path: path, body: body, out: out})
}

// GetMe returns the user owning the token.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, request{op: "getting current user", method: http.MethodGet, path: pathUsersMe, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail looks a user up by email address.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	path := fmt.Sprintf(pathUserByEmail, url.PathEscape(email))
	if err := c.do(ctx, request{op: "getting user by email", method: http.MethodGet, path: path, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername looks a user up by username.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	path := fmt.Sprintf(pathUserByUsername, url.PathEscape(username))
	if err := c.do(ctx, request{op: "getting user by username", method: http.MethodGet, path: path, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateDirectChannel creates the one-to-one channel between two users. Mattermost returns the
// existing channel if there already is one.
func (c *Client) CreateDirectChannel(ctx context.Context, fromUserID, toUserID string) (*Channel, error) {
	var ch Channel
	if err := c.postJSON(ctx, "creating direct channel", pathDirectChannel, []string{fromUserID, toUserID}, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// CreatePost posts message into the channel, attaching previously uploaded files.
func (c *Client) CreatePost(ctx context.Context, channelID, message string, fileIDs []string) (*Post, error) {
	text, truncated := receivers.TruncateInRunes(message, maxMessageLenRunes)
	if truncated {
		level.Warn(c.GetLogger(ctx)).Log("msg", "Truncated message", "max_runes", maxMessageLenRunes)
	}

	var p Post
	payload := createPostRequest{ChannelID: channelID, Message: text, FileIDs: fileIDs}
	if err := c.postJSON(ctx, "sending message", pathPosts, payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UploadFile uploads the file at path into the channel and returns its file identifier.
func (c *Client) UploadFile(ctx context.Context, channelID, path string) (string, error) {
	const op = "uploading file"
	l := c.GetLogger(ctx)

	body, contentType, err := c.newUploadBody(channelID, path)
	if err != nil {
		u, _ := receivers.JoinURL(c.settings.ServerURL, pathFiles)
		return "", &APICallError{Op: op, Method: http.MethodPost, URL: u, Err: err}
	}

	var resp uploadResponse
	if err := c.do(ctx, request{op: op, method: http.MethodPost, path: pathFiles, body: body, contentType: contentType, out: &resp}); err != nil {
		return "", err
	}
	if len(resp.FileInfos) == 0 || resp.FileInfos[0].ID == "" {
		u, _ := receivers.JoinURL(c.settings.ServerURL, pathFiles)
		return "", &APICallError{Op: op, Method: http.MethodPost, URL: u, Err: errors.New("response contains no file info")}
	}

	level.Debug(l).Log("msg", "Uploaded file", "path", path, "file_id", resp.FileInfos[0].ID)
	return resp.FileInfos[0].ID, nil
}

// UploadFiles uploads every path in order and returns the file identifiers in the same order.
// The first failure aborts the remaining uploads.
func (c *Client) UploadFiles(ctx context.Context, channelID string, paths []string) ([]string, error) {
	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		id, err := c.UploadFile(ctx, channelID, p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Client) newUploadBody(channelID, path string) ([]byte, string, error) {
	b := bytes.Buffer{}
	w := multipart.NewWriter(&b)

	boundary := receivers.GetBoundary()
	if boundary != "" {
		if err := w.SetBoundary(boundary); err != nil {
			return nil, "", err
		}
	}

	if err := w.WriteField(formFieldChannelID, channelID); err != nil {
		return nil, "", err
	}

	//nolint:gosec // the path is supplied by the operator running the pipeline
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open attachment: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			level.Warn(c.GetLogger(context.Background())).Log("msg", "Failed to close attachment", "path", path, "err", err)
		}
	}()

	fw, err := w.CreateFormFile(formFieldFiles, filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, "", fmt.Errorf("failed to write to form file: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart: %w", err)
	}
	return b.Bytes(), w.FormDataContentType(), nil
}
