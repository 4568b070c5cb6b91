package fetcher

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/constants"
	"github.com/ougirez/injuries/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var yearPattern = regexp.MustCompile(`(?:^|\D)(20\d{2})(?:\D|$)`)

type Service struct {
	client   *http.Client
	retries  uint64
	interval time.Duration
}

func NewFetcherService(client *http.Client, retries uint64) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &Service{client: client, retries: retries, interval: 500 * time.Millisecond}
}

// WithInterval sets the pause between download attempts.
func (s *Service) WithInterval(d time.Duration) *Service {
	s.interval = d
	return s
}

// Links scrapes the download page for one .csv or .zip link per requested year.
// The first link mentioning a year wins; years without a link are left out.
func (s *Service) Links(ctx context.Context, pageURL string, years []domain.Year) (map[domain.Year]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}

	body, err := s.get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get download page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	wanted := make(map[domain.Year]struct{}, len(years))
	for _, y := range years {
		wanted[y] = struct{}{}
	}

	links := make(map[domain.Year]string, len(years))
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ext := strings.ToLower(path.Ext(strings.SplitN(href, "?", 2)[0]))
		if ext != ".csv" && ext != ".zip" {
			return
		}

		name, err := url.PathUnescape(path.Base(href))
		if err != nil {
			name = path.Base(href)
		}
		year, ok := yearOf(name + " " + a.Text())
		if !ok {
			return
		}
		if _, ok := wanted[year]; !ok {
			return
		}
		if _, ok := links[year]; ok {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			logger.Warnf(ctx, "skip link %q: %s", href, err.Error())
			return
		}
		links[year] = base.ResolveReference(ref).String()
	})

	return links, nil
}

func yearOf(s string) (domain.Year, bool) {
	m := yearPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// Fetch downloads the file of every year linked from pageURL into dir, named by
// filePattern. Zip archives are unpacked to their first CSV entry. It returns
// the written path per year.
func (s *Service) Fetch(ctx context.Context, pageURL string, years []domain.Year, dir, filePattern string) (map[domain.Year]string, error) {
	links, err := s.Links(ctx, pageURL, years)
	if err != nil {
		return nil, err
	}
	for _, y := range years {
		if _, ok := links[y]; !ok {
			logger.Warnf(ctx, "no download link for %d", y)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	written := make(map[domain.Year]string, len(links))
	writtenMx := sync.Mutex{}
	eg, egCtx := errgroup.WithContext(ctx)
	for year, link := range links {
		year, link := year, link
		eg.Go(func() error {
			data, err := s.get(egCtx, link)
			if err != nil {
				return fmt.Errorf("download, year-%d: %w", year, err)
			}

			if strings.HasSuffix(strings.ToLower(strings.SplitN(link, "?", 2)[0]), ".zip") {
				data, err = firstCSV(data)
				if err != nil {
					return fmt.Errorf("unzip, year-%d: %w", year, err)
				}
			}

			target := filepath.Join(dir, fmt.Sprintf(filePattern, year))
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("os.WriteFile: %w", err)
			}

			logger.Info(egCtx, "downloaded", "year", year, "url", link, "bytes", len(data))

			writtenMx.Lock()
			defer writtenMx.Unlock()
			written[year] = target
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("err in goroutine: %w", err)
	}

	return written, nil
}

func (s *Service) get(ctx context.Context, link string) ([]byte, error) {
	var body []byte
	err := backoff.Retry(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
			if err != nil {
				return backoff.Permanent(err)
			}

			resp, err := s.client.Do(req)
			if err != nil {
				return fmt.Errorf("http.Get: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				statusErr := fmt.Errorf("%w: status code error: %d %s", constants.ErrSourceUnavailable, resp.StatusCode, resp.Status)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return backoff.Permanent(statusErr)
				}
				return statusErr
			}

			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("io.ReadAll: %w", err)
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(s.interval), s.retries),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func firstCSV(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zip.NewReader: %w", err)
	}

	for _, f := range zr.File {
		if !strings.EqualFold(path.Ext(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	return nil, fmt.Errorf("%w: archive has no csv entry", constants.ErrSourceUnavailable)
}
