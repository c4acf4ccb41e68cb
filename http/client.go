package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/singnet/mattermost-notify/receivers"
)

var ErrInvalidMethod = errors.New("unsupported HTTP method")

const (
	defaultDialTimeout         = 30 * time.Second
	defaultTLSHandshakeTimeout = 5 * time.Second
	DefaultUserAgent           = "mattermost-notify"
)

type clientConfiguration struct {
	userAgent      string
	dialer         net.Dialer
	proxy          *ProxyConfig
	allowedMethods map[string]struct{}
}

// Client sends the requests of every notifier. It owns no connection state: a transport is built per request.
type Client struct {
	log log.Logger
	cfg clientConfiguration
}

func NewClient(logger log.Logger, opts ...ClientOption) *Client {
	cfg := clientConfiguration{
		userAgent: DefaultUserAgent,
		allowedMethods: map[string]struct{}{
			http.MethodPost: {},
			http.MethodPut:  {},
		},
		dialer: net.Dialer{
			Timeout: defaultDialTimeout,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Client{
		log: logger,
		cfg: cfg,
	}
}

type ClientOption func(*clientConfiguration)

func AllowGetRequests() ClientOption {
	return func(c *clientConfiguration) {
		c.allowedMethods[http.MethodGet] = struct{}{}
	}
}

func WithUserAgent(userAgent string) ClientOption {
	return func(c *clientConfiguration) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

func WithDialer(dialer net.Dialer) ClientOption {
	return func(c *clientConfiguration) {
		if dialer.Timeout == 0 {
			dialer.Timeout = defaultDialTimeout
		}
		c.dialer = dialer
	}
}

func WithProxy(proxy *ProxyConfig) ClientOption {
	return func(c *clientConfiguration) {
		c.proxy = proxy
	}
}

func (ns *Client) SendWebhook(ctx context.Context, webhook *receivers.SendWebhookSettings) error {
	if webhook.HTTPMethod == "" {
		webhook.HTTPMethod = http.MethodPost
	}

	if _, ok := ns.cfg.allowedMethods[webhook.HTTPMethod]; !ok {
		return fmt.Errorf("%w %q", ErrInvalidMethod, webhook.HTTPMethod)
	}

	var reqBody io.Reader = bytes.NewReader([]byte(webhook.Body))
	if webhook.HTTPMethod == http.MethodGet {
		reqBody = nil
	}
	request, err := http.NewRequestWithContext(ctx, webhook.HTTPMethod, webhook.URL, reqBody)
	if err != nil {
		return redactURL(err)
	}
	host := request.URL.Host
	level.Debug(ns.log).Log("msg", "Sending request", "host", host, "method", webhook.HTTPMethod)

	// Sane content type default for POST/PUT requests.
	if webhook.ContentType == "" && (webhook.HTTPMethod == http.MethodPost || webhook.HTTPMethod == http.MethodPut) {
		webhook.ContentType = "application/json"
	}

	if webhook.ContentType != "" {
		request.Header.Set("Content-Type", webhook.ContentType)
	}
	request.Header.Set("User-Agent", ns.cfg.userAgent)

	for k, v := range webhook.HTTPHeader {
		request.Header.Set(k, v)
	}

	client, err := ns.NewHTTPClient()
	if err != nil {
		return err
	}

	resp, err := client.Do(request)
	if err != nil {
		return redactURL(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			level.Warn(ns.log).Log("msg", "Failed to close response body", "err", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if webhook.Validation != nil {
		err := webhook.Validation(body, resp.StatusCode)
		if err != nil {
			level.Debug(ns.log).Log("msg", "Request failed validation", "host", host, "statuscode", resp.Status, "error", err)
			return err
		}
	}

	if resp.StatusCode/100 == 2 {
		level.Debug(ns.log).Log("msg", "Request succeeded", "host", host, "statuscode", resp.Status)
		return nil
	}

	level.Debug(ns.log).Log("msg", "Request failed", "host", host, "statuscode", resp.Status, "body", string(body))
	return fmt.Errorf("webhook response status %v", resp.Status)
}

// redactURL hides the request URL from transport errors. Webhook URLs carry their secret in the path.
func redactURL(err error) error {
	var e *url.Error
	if !errors.As(err, &e) {
		return err
	}
	e.URL = "<redacted>"
	return e
}

func (ns *Client) NewHTTPClient() (*http.Client, error) {
	proxy, err := ns.cfg.proxy.Proxy()
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               proxy,
			DialContext:         ns.cfg.dialer.DialContext,
			TLSHandshakeTimeout: defaultTLSHandshakeTimeout,
		},
	}, nil
}
