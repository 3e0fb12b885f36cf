package sitemeta

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// TagHandler receives start tags and text runs in document order.
type TagHandler interface {
	StartTag(name string, attrs []html.Attribute)
	Text(data string)
}

// Consumer fills a Metadata from tag events. It is not safe for
// concurrent use.
type Consumer struct {
	md           *Metadata
	captureTitle bool
}

func NewConsumer(md *Metadata) *Consumer {
	return &Consumer{md: md}
}

func (c *Consumer) StartTag(name string, attrs []html.Attribute) {
	a := newAttributes(attrs)

	switch strings.ToLower(name) {
	case "html":
		if lang, ok := a.get("lang"); ok {
			c.md.Language = lang
		}
	case "link":
		href, ok := a.get("href")
		if !ok || !a.mentions("icon", "href", "sizes", "type") {
			return
		}
		c.md.Icons = append(c.md.Icons, newIcon(c.md.URL, href, a))
	case "title":
		c.captureTitle = true
	case "meta":
		content, ok := a.get("content")
		if ok && a.mentions("description", "content") {
			c.md.Description = content
		}
	}
}

func (c *Consumer) Text(data string) {
	if !c.captureTitle {
		return
	}
	c.md.Title = data
	c.captureTitle = false
}

// attributes is the attribute list of one tag, keyed by lowercased name.
// The first occurrence of a name wins.
type attributes struct {
	order  []string
	values map[string]string
}

func newAttributes(attrs []html.Attribute) attributes {
	a := attributes{values: make(map[string]string, len(attrs))}
	for _, attr := range attrs {
		key := strings.ToLower(attr.Key)
		if _, seen := a.values[key]; seen {
			continue
		}
		a.order = append(a.order, key)
		a.values[key] = attr.Val
	}
	return a
}

func (a attributes) get(name string) (string, bool) {
	v, ok := a.values[name]
	return v, ok
}

// mentions reports whether any attribute outside skip carries token in
// its name or value. Matching is a case-insensitive substring test so
// "shortcut icon" and "apple-touch-icon" both count as icon relations.
func (a attributes) mentions(token string, skip ...string) bool {
outer:
	for _, key := range a.order {
		for _, s := range skip {
			if key == s {
				continue outer
			}
		}
		if strings.Contains(key, token) || strings.Contains(strings.ToLower(a.values[key]), token) {
			return true
		}
	}
	return false
}

func newIcon(source, href string, a attributes) Icon {
	icon := Icon{URL: resolveHref(source, href)}
	if sizes, ok := a.get("sizes"); ok {
		icon.Width, icon.Height = parseSizes(sizes)
	}
	return icon
}

// parseSizes reads a sizes attribute such as "32x32" or "16x16 32x32".
// "any" anywhere in the list, or nothing parseable, yields 0x0.
func parseSizes(sizes string) (width, height int) {
	tokens := strings.Fields(sizes)
	for _, tok := range tokens {
		if strings.EqualFold(tok, "any") {
			return 0, 0
		}
	}
	for _, tok := range tokens {
		w, h, ok := strings.Cut(strings.ToLower(tok), "x")
		if !ok {
			continue
		}
		wi, werr := strconv.Atoi(w)
		hi, herr := strconv.Atoi(h)
		if werr != nil || herr != nil || wi < 0 || hi < 0 {
			continue
		}
		return wi, hi
	}
	if len(tokens) > 0 {
		logrus.Debugf("[sitemeta] [parseSizes] Ignoring malformed sizes %q", sizes)
	}
	return 0, 0
}

// resolveHref makes an icon href absolute. Relative hrefs are appended to
// the page URL as-is; no path normalization takes place.
func resolveHref(source, href string) string {
	if u, err := url.Parse(href); err == nil && u.Scheme != "" && u.Host != "" {
		return href
	}
	if strings.HasPrefix(strings.ToLower(href), "data:") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return source + href
}
