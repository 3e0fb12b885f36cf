package sitemeta

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	urlpkg "net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const fallbackIconName = "favicon"

// SaveIcon downloads icon with the package default client.
func SaveIcon(icon Icon, outputDir string) (string, bool) {
	return defaultClient.SaveIcon(context.Background(), icon, outputDir)
}

// SaveIcon writes the icon to outputDir/<host>/<last path segment> and
// returns the written path. Icons without a host, such as data: URLs, go
// into a freshly generated folder. Failures are logged and reported as
// false.
func (c *Client) SaveIcon(ctx context.Context, icon Icon, outputDir string) (string, bool) {
	dest, err := c.saveIcon(ctx, icon, outputDir)
	if err != nil {
		logrus.Errorf("[sitemeta] [SaveIcon] Failed to save %s: %v", icon.URL, err)
		return "", false
	}
	logrus.Debugf("[sitemeta] [SaveIcon] Saved %s to %s", icon.URL, dest)
	return dest, true
}

func (c *Client) saveIcon(ctx context.Context, icon Icon, outputDir string) (string, error) {
	u, err := urlpkg.Parse(icon.URL)
	if err != nil {
		return "", fmt.Errorf("parse icon url: %w", err)
	}

	dir := filepath.Join(outputDir, iconFolder(u))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	if strings.EqualFold(u.Scheme, "data") {
		mediaType, data, err := decodeDataURL(icon.URL)
		if err != nil {
			return "", err
		}
		dest := filepath.Join(dir, fallbackIconName+extensionFor(mediaType))
		return dest, os.WriteFile(dest, data, 0o644)
	}

	dest := filepath.Join(dir, iconFilename(u))

	reqCtx, cancel := context.WithTimeout(ctx, c.opts.DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, icon.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, out.Close()
}

// iconFolder names the directory an icon is saved in: its host without a
// trailing dot, or a random UUID when the URL has no host.
func iconFolder(u *urlpkg.URL) string {
	folder := u.Hostname()
	if folder == "" {
		folder = uuid.NewString()
	}
	return strings.TrimSuffix(folder, ".")
}

func iconFilename(u *urlpkg.URL) string {
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return fallbackIconName
	}
	return name
}

// decodeDataURL handles data:[<mediatype>][;base64],<data>.
func decodeDataURL(raw string) (string, []byte, error) {
	rest := raw[len("data:"):]
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data url")
	}

	isBase64 := strings.HasSuffix(strings.ToLower(meta), ";base64")
	if isBase64 {
		meta = meta[:len(meta)-len(";base64")]
	}
	mediaType, _, _ := strings.Cut(meta, ";")

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("decode data url: %w", err)
		}
		return mediaType, data, nil
	}
	text, err := urlpkg.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data url: %w", err)
	}
	return mediaType, []byte(text), nil
}

func extensionFor(mediaType string) string {
	switch strings.ToLower(mediaType) {
	case "image/x-icon", "image/vnd.microsoft.icon":
		return ".ico"
	case "image/svg+xml":
		return ".svg"
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
