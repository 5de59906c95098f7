package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// baseURLMeta is the <meta name> a deployed dashboard page uses to announce
// its API location.
const baseURLMeta = "api-base-url"

// ResolveBaseURL picks the API base URL. An explicit apiURL wins. Otherwise
// the origin's page is fetched and its api-base-url meta tag is used; if the
// page is unreachable or has no such tag the result is origin + "/api".
func ResolveBaseURL(ctx context.Context, hc *http.Client, apiURL, origin string) (string, error) {
	if apiURL != "" {
		return strings.TrimRight(apiURL, "/"), nil
	}
	origin = strings.TrimRight(origin, "/")
	if origin == "" {
		return "", fmt.Errorf("no api url or origin configured")
	}
	base, err := url.Parse(origin)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("invalid origin %q", origin)
	}
	fallback := origin + "/api"

	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, "GET", origin+"/", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := hc.Do(req)
	if err != nil {
		slog.Debug("baseurl: fetch origin", "err", err)
		return fallback, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fallback, nil
	}

	content := findMeta(io.LimitReader(resp.Body, 1<<20), baseURLMeta)
	if content == "" {
		return fallback, nil
	}
	ref, err := url.Parse(content)
	if err != nil {
		slog.Debug("baseurl: bad meta content", "content", content, "err", err)
		return fallback, nil
	}
	return strings.TrimRight(base.ResolveReference(ref).String(), "/"), nil
}

// findMeta returns the content attribute of <meta name=name>, scanning only
// until the document body starts.
func findMeta(r io.Reader, name string) string {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data == "body" {
				return ""
			}
			if tok.Data != "meta" {
				continue
			}
			var metaName, content string
			for _, a := range tok.Attr {
				switch strings.ToLower(a.Key) {
				case "name":
					metaName = a.Val
				case "content":
					content = a.Val
				}
			}
			if strings.EqualFold(metaName, name) && content != "" {
				return strings.TrimSpace(content)
			}
		}
	}
}
