package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"

	"clinic-reviews/internal/resilience/circuitbreaker"
)

// pageFetcher retrieves a single blog post page and extracts the readable
// body with the Mozilla Readability algorithm. It is used when the RSS
// item only carries an excerpt.
//
// Safe for concurrent use.
type pageFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
}

// newPageFetcher builds a page fetcher with redirect validation wired into
// the HTTP client. Each redirect target goes through the same private-IP
// policy as the original URL.
func newPageFetcher(cfg Config) *pageFetcher {
	pf := &pageFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.PageFetchConfig()),
		config:         cfg,
	}

	pf.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= pf.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), pf.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return pf
}

// fetch retrieves the page at urlStr and returns the extracted plain text.
func (p *pageFetcher) fetch(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr, p.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	result, err := p.circuitBreaker.Execute(func() (interface{}, error) {
		return p.doFetch(ctx, urlStr)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (p *pageFetcher) doFetch(ctx context.Context, urlStr string) (interface{}, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", "ClinicReviewsBot/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, p.config.Timeout)
		}
		// Surface redirect validation failures directly.
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	htmlBytes, err := p.readCapped(resp.Body)
	if err != nil {
		return "", err
	}

	return extractReadable(htmlBytes, baseURL(urlStr, resp))
}

// readCapped reads the body with a hard cap rather than trusting
// Content-Length.
func (p *pageFetcher) readCapped(body io.Reader) ([]byte, error) {
	htmlBytes, err := io.ReadAll(io.LimitReader(body, p.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > p.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response size exceeds %d bytes", ErrBodyTooLarge, p.config.MaxBodySize)
	}
	return htmlBytes, nil
}

// baseURL prefers the final URL after redirects so relative links resolve
// against the page that actually served the content.
func baseURL(urlStr string, resp *http.Response) *url.URL {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL
	}
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil
	}
	return parsed
}

func extractReadable(htmlBytes []byte, base *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(htmlBytes), base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	if article.TextContent != "" {
		return article.TextContent, nil
	}
	if article.Content != "" {
		return article.Content, nil
	}
	return "", fmt.Errorf("%w: no readable content found", ErrExtractFailed)
}
