package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// ErrInvalidProxyConfig is returned when the proxy configuration is invalid.
var ErrInvalidProxyConfig = errors.New("invalid proxy configuration")

type ProxyConfig struct {
	// ProxyURL is the HTTP proxy server to use to connect to Mattermost.
	ProxyURL string
	// NoProxy contains addresses that should not use ProxyURL.
	NoProxy string
	// ProxyFromEnvironment uses environment HTTP_PROXY, HTTPS_PROXY and NO_PROXY to determine proxies.
	ProxyFromEnvironment bool
}

// Proxy returns the function selecting the proxy for a request, or nil for direct connections.
func (cfg *ProxyConfig) Proxy() (fn func(*http.Request) (*url.URL, error), err error) {
	if cfg == nil {
		return nil, nil
	}
	if cfg.ProxyFromEnvironment {
		proxyFn := httpproxy.FromEnvironment().ProxyFunc()
		return func(req *http.Request) (*url.URL, error) {
			return proxyFn(req.URL)
		}, nil
	}
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid proxy URL %q: %w", ErrInvalidProxyConfig, cfg.ProxyURL, err)
		}
		if cfg.NoProxy == "" {
			return http.ProxyURL(proxyURL), nil
		}
		proxy := &httpproxy.Config{
			HTTPProxy:  proxyURL.String(),
			HTTPSProxy: proxyURL.String(),
			NoProxy:    cfg.NoProxy,
		}
		proxyFn := proxy.ProxyFunc()
		return func(req *http.Request) (*url.URL, error) {
			return proxyFn(req.URL)
		}, nil
	}
	return nil, nil
}

func ValidateProxyConfig(cfg *ProxyConfig) error {
	if cfg == nil {
		return nil
	}
	if cfg.ProxyFromEnvironment && cfg.ProxyURL != "" {
		return fmt.Errorf("%w: proxy URL must not be set when the proxy is taken from the environment", ErrInvalidProxyConfig)
	}
	if cfg.ProxyURL == "" && cfg.NoProxy != "" {
		return fmt.Errorf("%w: no-proxy requires a proxy URL", ErrInvalidProxyConfig)
	}
	if cfg.ProxyURL != "" {
		if _, err := url.Parse(cfg.ProxyURL); err != nil {
			return fmt.Errorf("%w: invalid proxy URL %q: %w", ErrInvalidProxyConfig, cfg.ProxyURL, err)
		}
	}
	return nil
}
