package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rodstewart/paperless-cli/internal/models"
)

// RewriteFunc rewrites a next-page URL returned by the server before the
// client requests it. Relative links are already resolved against the base URL.
type RewriteFunc func(next *url.URL) (*url.URL, error)

// UpgradeScheme returns a RewriteFunc that forces next-page links onto scheme.
// Useful behind a TLS-terminating proxy that makes the server emit http:// links.
func UpgradeScheme(scheme string) RewriteFunc {
	return func(next *url.URL) (*url.URL, error) {
		u := *next
		u.Scheme = scheme
		return &u, nil
	}
}

// decodePage decodes one collection page.
func decodePage[T any](r io.Reader) (*models.Page[T], error) {
	var page models.Page[T]
	if err := json.NewDecoder(r).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// fetchPage requests and decodes a single page at an absolute URL.
func fetchPage[T any](ctx context.Context, c *Client, pageURL string) (*models.Page[T], error) {
	resp, err := c.getURL(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page, err := decodePage[T](resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:       KindTransport,
			Method:     http.MethodGet,
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Message:    "failed to decode page",
			Err:        err,
		}
	}
	pagesFetchedTotal.Inc()
	return page, nil
}

// collect walks a paginated collection starting at path and returns every
// result in server order. Empty pages do not end the walk; only a missing
// next link does.
func collect[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	results := []T{}
	pageURL := c.baseURL + path

	for n := 1; ; n++ {
		if c.maxPages > 0 && n > c.maxPages {
			return nil, &Error{
				Kind:    KindPageLimit,
				Method:  http.MethodGet,
				URL:     pageURL,
				Message: fmt.Sprintf("collection has more than %d pages", c.maxPages),
			}
		}

		page, err := fetchPage[T](ctx, c, pageURL)
		if err != nil {
			return nil, err
		}
		results = append(results, page.Results...)

		c.logger.Debug().
			Str("url", pageURL).
			Int("page", n).
			Int("results", len(page.Results)).
			Int("count", page.Count).
			Msg("Fetched page")

		if page.Next == nil || *page.Next == "" {
			return results, nil
		}

		pageURL, err = c.nextURL(*page.Next)
		if err != nil {
			return nil, err
		}
	}
}

// nextURL resolves a next link against the base URL and applies the rewrite rule.
func (c *Client) nextURL(raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: fmt.Sprintf("invalid next page link %q", raw), Err: err}
	}

	next := c.base.ResolveReference(ref)
	if c.rewrite != nil {
		next, err = c.rewrite(next)
		if err != nil {
			return "", &Error{Kind: KindTransport, Message: fmt.Sprintf("failed to rewrite next page link %q", raw), Err: err}
		}
	}
	return next.String(), nil
}
