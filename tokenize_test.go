package sitemeta

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Example &amp; Co</title>
	<meta name="description" content="Things we do">
	<link rel="icon" href="/favicon.ico" sizes="any">
	<link rel="apple-touch-icon" href="/touch.png" sizes="180x180">
	<script>var s = "<title>not a title</title>";</script>
</head>
<body><h1>Example</h1></body>
</html>`

type recorder struct {
	tags  []string
	texts []string
}

func (r *recorder) StartTag(name string, _ []html.Attribute) { r.tags = append(r.tags, name) }
func (r *recorder) Text(data string)                         { r.texts = append(r.texts, data) }

func TestTokenize_ReportsStartTagsAndText(t *testing.T) {
	var r recorder
	require.NoError(t, Tokenize(strings.NewReader(`<p>one<br/><b>two</b></p>`), &r))

	assert.Equal(t, []string{"p", "br", "b"}, r.tags)
	assert.Equal(t, []string{"one", "two"}, r.texts)
}

func TestTokenize_SamplePage(t *testing.T) {
	md := parse(t, "https://example.com", samplePage)

	assert.Equal(t, "Example & Co", md.Title)
	assert.Equal(t, "Things we do", md.Description)
	assert.Equal(t, "en", md.Language)
	assert.Equal(t, []Icon{
		{URL: "https://example.com/favicon.ico"},
		{URL: "https://example.com/touch.png", Width: 180, Height: 180},
	}, md.Icons)
}

func TestWalkDocument_MatchesTokenize(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	require.NoError(t, err)

	walked := newMetadata("https://example.com")
	WalkDocument(doc, NewConsumer(walked))

	tokenized := parse(t, "https://example.com", samplePage)

	assert.Equal(t, tokenized.Title, walked.Title)
	assert.Equal(t, tokenized.Description, walked.Description)
	assert.Equal(t, tokenized.Language, walked.Language)
	assert.Equal(t, tokenized.Icons, walked.Icons)
}
