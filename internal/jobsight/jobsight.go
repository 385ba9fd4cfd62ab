// Package jobsight is the client for the JobSight REST backend.
package jobsight

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

const (
	DefaultAPIURL    = "http://localhost:8080"
	DefaultUserAgent = "spigell/jobsight"
	// PageSize is fixed by the search view.
	PageSize = 12

	sessionCookie       = "jid"
	defaultMaxLogLength = 512
)

type Client struct {
	token        string
	logger       *zap.Logger
	maxLogLength int
	HTTPClient   *http.Client
	UserAgent    string
	APIURL       string
}

type Options struct {
	APIURL       string
	UserAgent    string
	Timeout      time.Duration
	MaxLogLength int
}

// New creates a client with its own cookie jar, so session cookies set by
// the backend are sent back on later calls.
func New(logger *zap.Logger, opts Options) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxLogLength == 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger:       logger,
		maxLogLength: opts.MaxLogLength,
		APIURL:       strings.TrimRight(opts.APIURL, "/"),
		UserAgent:    opts.UserAgent,
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
			Jar:     jar,
		},
	}, nil
}

// SetBearer replaces the token sent with every request. Empty clears it.
func (c *Client) SetBearer(token string) {
	c.token = token
}

func (c *Client) Bearer() string {
	return c.token
}

// SessionCookie returns the session cookie the backend set, if any.
func (c *Client) SessionCookie() string {
	if c.HTTPClient.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.HTTPClient.Jar.Cookies(u) {
		if cookie.Name == sessionCookie {
			return cookie.Value
		}
	}
	return ""
}
