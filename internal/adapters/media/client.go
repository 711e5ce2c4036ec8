// Package media talks to a Cloudinary-compatible image host.
package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"hotel_listing/internal/adapters/observability"
	"hotel_listing/internal/domain"
)

const (
	service         = "media"
	destroyAttempts = 3
)

var ErrNotConfigured = errors.New("media host credentials are not configured")

type Client struct {
	base   string
	cloud  string
	key    string
	secret string
	hc     *http.Client
	rl     *rate.Limiter
	now    func() time.Time

	// RetryDelay is multiplied by the attempt number between destroy attempts.
	RetryDelay time.Duration
}

func New(base, cloud, key, secret string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("media base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:       strings.TrimRight(base, "/"),
		cloud:      cloud,
		key:        key,
		secret:     secret,
		hc:         &http.Client{Timeout: 60 * time.Second},
		rl:         rate.NewLimiter(rate.Limit(rps), rps),
		now:        time.Now,
		RetryDelay: time.Second,
	}, nil
}

func (c *Client) configured() bool { return c.cloud != "" && c.key != "" && c.secret != "" }

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends one local file in a single attempt.
func (c *Client) Upload(ctx context.Context, localPath, folder string) (img domain.UploadedImage, err error) {
	defer func() { observability.ObserveUpload(err) }()
	if !c.configured() {
		return domain.UploadedImage{}, &domain.UpstreamError{Service: service, Op: "upload", Err: ErrNotConfigured}
	}
	f, err := os.Open(localPath)
	if err != nil {
		return domain.UploadedImage{}, fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	params := map[string]string{
		"public_id": uuid.NewString(),
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if folder != "" {
		params["folder"] = folder
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range c.signed(params) {
		if err := mw.WriteField(k, v); err != nil {
			return domain.UploadedImage{}, err
		}
	}
	part, err := mw.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return domain.UploadedImage{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return domain.UploadedImage{}, fmt.Errorf("read staged file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return domain.UploadedImage{}, err
	}

	var out uploadResponse
	if err := c.post(ctx, "upload", &body, mw.FormDataContentType(), &out); err != nil {
		return domain.UploadedImage{}, err
	}
	u := out.SecureURL
	if u == "" {
		u = out.URL
	}
	if u == "" {
		return domain.UploadedImage{}, &domain.UpstreamError{Service: service, Op: "upload", Err: errors.New("response carried no URL")}
	}
	return domain.UploadedImage{URL: u, PublicID: out.PublicID}, nil
}

type destroyResponse struct {
	Result string `json:"result"`
}

// Destroy removes a hosted image, retrying with a linear backoff. An image
// the host no longer knows counts as removed.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	if !c.configured() {
		return &domain.UpstreamError{Service: service, Op: "destroy", Err: ErrNotConfigured}
	}
	var last error
	for attempt := 1; attempt <= destroyAttempts; attempt++ {
		params := c.signed(map[string]string{
			"public_id": publicID,
			"timestamp": strconv.FormatInt(c.now().Unix(), 10),
		})
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		for k, v := range params {
			_ = mw.WriteField(k, v)
		}
		_ = mw.Close()

		var out destroyResponse
		err := c.post(ctx, "destroy", &body, mw.FormDataContentType(), &out)
		switch {
		case err == nil && (out.Result == "ok" || out.Result == "not found"):
			return nil
		case errors.Is(err, domain.ErrNotFound):
			return nil
		case err == nil:
			last = &domain.UpstreamError{Service: service, Op: "destroy", Err: fmt.Errorf("result %q", out.Result)}
		default:
			last = err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt < destroyAttempts && !sleepCtx(ctx, time.Duration(attempt)*c.RetryDelay) {
			return ctx.Err()
		}
	}
	return last
}

// signed adds api_key and signature to params. The signature is the sha1 of
// the sorted key=value pairs joined by '&' followed by the secret.
func (c *Client) signed(params map[string]string) map[string]string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.secret))

	out := make(map[string]string, len(params)+2)
	for k, v := range params {
		out[k] = v
	}
	out["api_key"] = c.key
	out["signature"] = hex.EncodeToString(sum[:])
	return out
}

func (c *Client) post(ctx context.Context, op string, body io.Reader, contentType string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	url := fmt.Sprintf("%s/%s/image/%s", c.base, c.cloud, op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-listing/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternalError(service, op, err, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.UpstreamError{Service: service, Op: op, Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, op, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &domain.UpstreamError{Service: service, Op: op, Err: domain.ErrNotFound}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return json.NewDecoder(resp.Body).Decode(out)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.UpstreamError{Service: service, Op: op,
			Err: fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))}
	}
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
