package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/somnia-buy-listener/pkg/config"
)

const (
	userAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	acceptHdr  = "application/json, text/plain, */*"
	previewLen = 100
)

type Client struct {
	cfg  *config.Config
	http *resty.Client
}

func New(cfg *config.Config) *Client {
	hc := resty.New().
		SetTimeout(cfg.RequestTimeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", acceptHdr)
	return &Client{cfg: cfg, http: hc}
}

// LatestTransfer returns the most recent transfer of the target token,
// or nil when the explorer has none (missing or empty items).
func (c *Client) LatestTransfer(ctx context.Context) (*Transfer, error) {
	var page transfersPage
	if err := c.FetchJSON(ctx, c.cfg.TransfersURL(), &page); err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, nil
	}
	t := page.Items[0]
	return &t, nil
}

// FetchJSON issues a single GET and decodes the body into v. Every failure
// comes back as a *FetchError.
func (c *Client) FetchJSON(ctx context.Context, url string, v interface{}) error {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return classifyTransportErr(url, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return &FetchError{Kind: KindHTTP, URL: url, Status: resp.StatusCode()}
	}

	// rate-limit notices and maintenance pages come back as 200 text/html
	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("<")) {
		preview := body
		if len(preview) > previewLen {
			preview = preview[:previewLen]
		}
		return &FetchError{Kind: KindHTML, URL: url, Preview: string(preview)}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &FetchError{Kind: KindParse, URL: url, Err: err}
	}
	return nil
}

func classifyTransportErr(url string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{Kind: KindTimeout, URL: url, Err: err}
	}
	return &FetchError{Kind: KindNetwork, URL: url, Err: err}
}
