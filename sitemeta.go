package sitemeta

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var defaultClient *Client

func init() {
	opts := DefaultOptions()
	opts.ApplyEnv()
	if opts.Debug {
		logrus.Info("[sitemeta] Debug mode is enabled. To disable set env SITEMETA_DEBUG=false.")
		logrus.SetLevel(logrus.DebugLevel)
	}
	defaultClient = New(opts)
}

// Client fetches page metadata. A Client is safe for concurrent use.
type Client struct {
	opts     Options
	getter   Getter
	renderer Renderer
	http     *http.Client
	cache    *cache.Cache
}

type ClientOption func(*Client)

func WithGetter(g Getter) ClientOption {
	return func(c *Client) { c.getter = g }
}

func WithRenderer(r Renderer) ClientOption {
	return func(c *Client) { c.renderer = r }
}

// WithHTTPClient sets the client used to stream icon downloads.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func New(opts Options, options ...ClientOption) *Client {
	opts.fillDefaults()
	c := &Client{
		opts:  opts,
		cache: cache.New(opts.CacheTTL, 2*opts.CacheTTL),
	}
	for _, o := range options {
		o(c)
	}
	if c.getter == nil {
		c.getter = NewCollyGetter(opts.UserAgent)
	}
	if c.renderer == nil {
		c.renderer = NewChromedpRenderer(opts.RenderTimeout)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

// GetMetadata fetches targetURL with the package default client.
func GetMetadata(targetURL string) (*Metadata, error) {
	return defaultClient.GetMetadata(context.Background(), targetURL)
}

// GetMetadata fetches the page and its robots.txt, sitemap.xml and
// humans.txt in parallel.
//
// A failed page fetch does not produce an error; it is reported through
// Status and FetchError instead. A transport failure on one of the
// auxiliary resources is returned as the error, together with the
// aggregate built so far. Missing auxiliary resources leave their field
// nil.
func (c *Client) GetMetadata(ctx context.Context, targetURL string) (*Metadata, error) {
	normalizedURL, err := normalizeURL(targetURL)
	if err != nil {
		logrus.Errorf("[sitemeta] [GetMetadata] Invalid URL %s: %v", targetURL, err)
		return nil, err
	}

	if cached, found := c.cache.Get(normalizedURL); found {
		logrus.Debugf("[sitemeta] [GetMetadata] Cache hit for URL: %s", normalizedURL)
		return cached.(*Metadata), nil
	}

	start := time.Now()
	md := newMetadata(normalizedURL)
	base := getBaseDomain(normalizedURL)

	var g errgroup.Group
	g.Go(func() (err error) {
		md.Robots, err = c.fetchAuxiliary(base + "/robots.txt")
		return err
	})
	g.Go(func() (err error) {
		md.Sitemap, err = c.fetchAuxiliary(base + "/sitemap.xml")
		return err
	})
	g.Go(func() (err error) {
		md.Humans, err = c.fetchAuxiliary(base + "/humans.txt")
		return err
	})
	g.Go(func() error {
		c.fetchPage(ctx, md)
		return nil
	})
	err = g.Wait()
	md.Duration = int(time.Since(start).Milliseconds())

	if err != nil {
		logrus.Errorf("[sitemeta] [GetMetadata] Auxiliary fetch failed for URL %s: %v", normalizedURL, err)
		return md, err
	}

	if md.Status >= 200 && md.Status < 300 {
		c.cache.Set(normalizedURL, md, cache.DefaultExpiration)
	}
	return md, nil
}

func (c *Client) fetchAuxiliary(auxURL string) ([]byte, error) {
	resp, err := c.getter.Get(auxURL, c.opts.AuxTimeout)
	var statusErr *StatusError
	switch {
	case err == nil:
		return resp.Body, nil
	case errors.Is(err, ErrNotFound):
		logrus.Debugf("[sitemeta] [fetchAuxiliary] %s not found", auxURL)
		return nil, nil
	case errors.As(err, &statusErr):
		logrus.Warnf("[sitemeta] [fetchAuxiliary] %s answered %d, treating as absent", auxURL, statusErr.StatusCode)
		return nil, nil
	default:
		return nil, fmt.Errorf("fetch %s: %w", auxURL, err)
	}
}

func (c *Client) fetchPage(ctx context.Context, md *Metadata) {
	resp, err := c.getter.Get(md.URL, c.opts.PageTimeout)
	if resp != nil {
		md.Status = resp.StatusCode
		md.RawHeaders = resp.Header
		md.Headers = ResponseHeader{
			Server:     resp.Header.Get("Server"),
			XPoweredBy: resp.Header.Get("X-Powered-By"),
		}
	}

	switch {
	case errors.Is(err, ErrTimeout):
		logrus.Warnf("[sitemeta] [fetchPage] Timed out fetching %s", md.URL)
		md.Status = StatusTimeout
		md.FetchError = err.Error()
		return
	case err != nil && resp == nil:
		logrus.Errorf("[sitemeta] [fetchPage] Failed to fetch %s: %v", md.URL, err)
		md.FetchError = err.Error()
		return
	case err != nil:
		logrus.Debugf("[sitemeta] [fetchPage] %s answered %d, skipping body", md.URL, md.Status)
		return
	}

	if err := Tokenize(bytes.NewReader(resp.Body), NewConsumer(md)); err != nil {
		logrus.Warnf("[sitemeta] [fetchPage] Stopped parsing %s early: %v", md.URL, err)
	}

	if c.opts.Render && isMetadataEmpty(md) {
		logrus.Debugf("[sitemeta] [fetchPage] No title or icons in raw markup for %s. Falling back to renderer.", md.URL)
		c.render(ctx, md)
	}
}

func (c *Client) render(ctx context.Context, md *Metadata) {
	content, err := c.renderer.Render(ctx, md.URL)
	if err != nil {
		logrus.Errorf("[sitemeta] [render] Rendering failed for URL %s: %v", md.URL, err)
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		logrus.Errorf("[sitemeta] [render] Failed to parse rendered HTML for URL %s: %v", md.URL, err)
		return
	}

	md.resetBody()
	WalkDocument(doc, NewConsumer(md))
	md.Rendered = true
}

func isMetadataEmpty(md *Metadata) bool {
	return strings.TrimSpace(md.Title) == "" && len(md.Icons) == 0
}

func normalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "http://" + rawURL
	}
	parsed, err := urlpkg.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("missing host in %q", rawURL)
	}
	return parsed.String(), nil
}

func getBaseDomain(targetURL string) string {
	parsedURL, err := urlpkg.Parse(targetURL)
	if err != nil {
		logrus.Warnf("[sitemeta] [getBaseDomain] Failed to parse URL %s: %v", targetURL, err)
		return ""
	}

	return parsedURL.Scheme + "://" + parsedURL.Host
}
