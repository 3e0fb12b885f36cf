package sitemeta

import (
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Tokenize streams r through an HTML tokenizer and reports every start
// tag (self-closing included) and text run to h. It stops at EOF.
func Tokenize(r io.Reader, h TagHandler) error {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return fmt.Errorf("tokenize: %w", err)
			}
			return nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			h.StartTag(tok.Data, tok.Attr)
		case html.TextToken:
			h.Text(string(z.Text()))
		}
	}
}

// WalkDocument replays an already parsed document to h in document
// order. It is used for markup that comes back from the renderer.
func WalkDocument(doc *goquery.Document, h TagHandler) {
	for _, n := range doc.Nodes {
		walkNode(n, h)
	}
}

func walkNode(n *html.Node, h TagHandler) {
	switch n.Type {
	case html.ElementNode:
		h.StartTag(n.Data, n.Attr)
	case html.TextNode:
		h.Text(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNode(c, h)
	}
}
