package sitemeta

import "net/http"

// StatusTimeout is recorded as Metadata.Status when the page request ran
// past its deadline.
const StatusTimeout = http.StatusRequestTimeout

type Metadata struct {
	URL         string         `json:"url"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Language    string         `json:"language,omitempty"`
	Icons       []Icon         `json:"icons"`
	Status      int            `json:"status"`
	Headers     ResponseHeader `json:"headers"`
	RawHeaders  http.Header    `json:"rawHeaders,omitempty"`
	Robots      []byte         `json:"-"`
	Sitemap     []byte         `json:"-"`
	Humans      []byte         `json:"-"`
	FetchError  string         `json:"error,omitempty"`
	Rendered    bool           `json:"rendered,omitempty"`
	Duration    int            `json:"duration"`
}

// Icon is one favicon or touch icon declared by a page. Width and Height
// are zero when the size was not declared or was "any".
type Icon struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ResponseHeader struct {
	Server     string `json:"server,omitempty"`
	XPoweredBy string `json:"xPoweredBy,omitempty"`
}

func newMetadata(url string) *Metadata {
	return &Metadata{URL: url, Icons: []Icon{}}
}

// resetBody clears every field the tag consumer fills in.
func (m *Metadata) resetBody() {
	m.Title = ""
	m.Description = ""
	m.Language = ""
	m.Icons = []Icon{}
}
