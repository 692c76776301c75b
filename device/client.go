package device

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/YurkoWasHere/sodola-exporter/common"
)

// Client - One device web session. Owned by a single scrape, never shared,
// discarded when the scrape completes.
type Client struct {
	target     string
	credential common.Credential
	http       *resty.Client
}

// NewClient - Create a client for one target. The target may omit the scheme,
// plain HTTP is assumed. pageTimeout bounds each individual page fetch so one
// dead device cannot stall other scrapes.
func NewClient(target string, credential common.Credential, pageTimeout time.Duration) (*Client, error) {
	baseURL := NormalizeTarget(target)

	client := resty.New()
	client.SetBaseURL(baseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	client.SetCookieJar(jar)
	client.SetHeader("User-Agent", common.UserAgent)
	client.SetTimeout(pageTimeout)

	return &Client{
		target:     baseURL,
		credential: credential,
		http:       client,
	}, nil
}

// Target - The normalized target base URL.
func (client *Client) Target() string {
	return client.target
}

// FetchPage - Fetch one management page, returning its body.
func (client *Client) FetchPage(ctx context.Context, path string) (string, error) {
	response, err := client.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return "", fmt.Errorf("fetch %v: %w", path, err)
	}
	if response.StatusCode() != 200 {
		return "", fmt.Errorf("fetch %v: status %v", path, response.StatusCode())
	}
	return string(response.Body()), nil
}

// NormalizeTarget - Ensure a target address carries a scheme and no trailing slash.
func NormalizeTarget(target string) string {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "http://" + target
	}
	return strings.TrimRight(target, "/")
}
