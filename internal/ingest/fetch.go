package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jlaffaye/ftp"

	"github.com/lox/akterm/internal/httputil"
	"github.com/lox/akterm/internal/metrics"
)

// ErrNoProduct is returned when an archive has no produkt_* member.
var ErrNoProduct = errors.New("no produkt file in archive")

// Fetcher downloads DWD product archives over HTTP(S) or anonymous FTP.
type Fetcher struct {
	client     *http.Client
	ftpTimeout time.Duration
	maxElapsed time.Duration
}

func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = httputil.NewClient()
	}
	return &Fetcher{
		client:     client,
		ftpTimeout: 30 * time.Second,
		maxElapsed: 2 * time.Minute,
	}
}

// Fetch returns the body of rawURL, retrying transient failures.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	var fetch func(context.Context, *url.URL) ([]byte, error)
	switch u.Scheme {
	case "http", "https":
		fetch = f.fetchHTTP
	case "ftp":
		fetch = f.fetchFTP
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	var body []byte
	operation := func() error {
		b, err := fetch(ctx, u)
		if err != nil {
			status := "retry"
			var perm *backoff.PermanentError
			if errors.As(err, &perm) {
				status = "error"
			}
			metrics.FetchAttempts.WithLabelValues(u.Scheme, status).Inc()
			return err
		}
		metrics.FetchAttempts.WithLabelValues(u.Scheme, "ok").Inc()
		body = b
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = f.maxElapsed
	notify := func(err error, wait time.Duration) {
		log.Printf("fetch: %s: %v, retrying in %s", u.Redacted(), err, wait)
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("new request: %w", err))
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("get %s: status %d", u.Redacted(), resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(fmt.Errorf("get %s: status %d", u.Redacted(), resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (f *Fetcher) fetchFTP(ctx context.Context, u *url.URL) ([]byte, error) {
	host := u.Host
	if u.Port() == "" {
		host += ":21"
	}
	conn, err := ftp.Dial(host, ftp.DialWithTimeout(f.ftpTimeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	user, pass := "anonymous", "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("ftp login: %w", err))
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("ftp retr %s: %w", u.Path, err))
	}
	defer resp.Close()

	body, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Download fetches rawURL into destDir. Zip archives are unpacked to their
// produkt_* member; anything else is written as is. It returns the written path.
func (f *Fetcher) Download(ctx context.Context, rawURL, destDir string) (string, error) {
	body, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create dest: %w", err)
	}

	name := path.Base(strings.TrimSuffix(rawURL, "/"))
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if strings.EqualFold(path.Ext(name), ".zip") {
		p, err := ExtractProduct(body, destDir)
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		log.Printf("fetch: extracted %s", p)
		return p, nil
	}

	dest := filepath.Join(destDir, name)
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	log.Printf("fetch: wrote %s (%d bytes)", dest, len(body))
	return dest, nil
}

// ExtractProduct writes the produkt_* member of a DWD zip archive to destDir.
func ExtractProduct(data []byte, destDir string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	for _, zf := range zr.File {
		base := path.Base(zf.Name)
		if zf.FileInfo().IsDir() || !strings.HasPrefix(strings.ToLower(base), "produkt_") {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", base, err)
		}
		defer rc.Close()

		dest := filepath.Join(destDir, base)
		out, err := os.Create(dest)
		if err != nil {
			return "", fmt.Errorf("create %s: %w", dest, err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			return "", fmt.Errorf("extract %s: %w", base, err)
		}
		if err := out.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", dest, err)
		}
		return dest, nil
	}
	return "", ErrNoProduct
}
