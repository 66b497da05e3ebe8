package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ImageProber checks whether remote images load, i.e. whether a page would fall back.
type ImageProber struct {
	client      *http.Client
	concurrency int
}

func NewImageProber(timeout time.Duration, concurrency int) *ImageProber {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &ImageProber{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		concurrency: concurrency,
	}
}

// Probe returns an error per URL that could not be loaded. Relative URLs are skipped.
func (p *ImageProber) Probe(ctx context.Context, urls []string) map[string]error {
	results := make([]error, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, u := range urls {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			continue
		}
		i, u := i, u
		g.Go(func() error {
			results[i] = p.check(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	failed := map[string]error{}
	for i, err := range results {
		if err != nil {
			failed[urls[i]] = err
		}
	}
	return failed
}

func (p *ImageProber) check(ctx context.Context, u string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; content-site-validate/1.0)")
	req.Header.Set("Accept", "image/avif,image/webp,image/*,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("unexpected content type: %s", ct)
	}
	return nil
}
