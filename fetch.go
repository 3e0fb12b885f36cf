package sitemeta

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound matches a *StatusError carrying a 404.
	ErrNotFound      = errors.New("resource not found")
	ErrTimeout       = errors.New("request timed out")
	ErrRequestFailed = errors.New("request failed")
)

// StatusError is returned alongside the response when the server answered
// with a 4xx or 5xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Getter performs a single GET. A response that arrived with an error
// status is returned together with a *StatusError. Transport failures
// wrap ErrTimeout or ErrRequestFailed and carry no response.
type Getter interface {
	Get(url string, timeout time.Duration) (*Response, error)
}

type collyGetter struct {
	userAgent string
}

// NewCollyGetter returns a Getter backed by a fresh colly collector per
// request.
func NewCollyGetter(userAgent string) Getter {
	return &collyGetter{userAgent: userAgent}
}

func (g *collyGetter) Get(targetURL string, timeout time.Duration) (*Response, error) {
	c := colly.NewCollector(
		colly.UserAgent(g.userAgent),
		colly.AllowURLRevisit(),
	)
	c.ParseHTTPErrorResponse = true
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}

	var resp *Response
	c.OnRequest(func(r *colly.Request) {
		logrus.Debugf("[Colly] Visiting %s", r.URL.String())
	})
	c.OnResponse(func(r *colly.Response) {
		resp = &Response{StatusCode: r.StatusCode, Body: r.Body}
		if r.Headers != nil {
			resp.Header = r.Headers.Clone()
		}
	})

	if err := c.Visit(targetURL); err != nil {
		return nil, classify(err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: no response from %s", ErrRequestFailed, targetURL)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return resp, &StatusError{StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrRequestFailed, err)
}
