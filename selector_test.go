package sitemeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestIcon(t *testing.T) {
	tests := []struct {
		name   string
		icons  []Icon
		want   Icon
		wantOK bool
	}{
		{
			name:   "empty",
			icons:  nil,
			wantOK: false,
		},
		{
			name:   "single unsized",
			icons:  []Icon{{URL: "a"}},
			want:   Icon{URL: "a"},
			wantOK: true,
		},
		{
			name: "largest sum wins",
			icons: []Icon{
				{URL: "a", Width: 16, Height: 16},
				{URL: "b", Width: 180, Height: 180},
				{URL: "c", Width: 32, Height: 32},
			},
			want:   Icon{URL: "b", Width: 180, Height: 180},
			wantOK: true,
		},
		{
			name: "sized beats unsized listed first",
			icons: []Icon{
				{URL: "a"},
				{URL: "b", Width: 16, Height: 16},
			},
			want:   Icon{URL: "b", Width: 16, Height: 16},
			wantOK: true,
		},
		{
			name: "tie goes to document order",
			icons: []Icon{
				{URL: "a", Width: 64, Height: 32},
				{URL: "b", Width: 32, Height: 64},
			},
			want:   Icon{URL: "a", Width: 64, Height: 32},
			wantOK: true,
		},
		{
			name: "half sized scores zero",
			icons: []Icon{
				{URL: "a", Width: 512},
				{URL: "b", Width: 16, Height: 16},
			},
			want:   Icon{URL: "b", Width: 16, Height: 16},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BestIcon(tt.icons)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// With no fully sized icon, the zero bucket resolves to the first icon in
// the list rather than to whichever unsized icon was seen.
func TestBestIcon_ZeroBucketIsFirstIcon(t *testing.T) {
	icons := []Icon{
		{URL: "first", Width: 48},
		{URL: "second"},
		{URL: "third", Height: 12},
	}

	got, ok := BestIcon(icons)
	assert.True(t, ok)
	assert.Equal(t, icons[0], got)
}

func TestBestIcon_MaxSumProperty(t *testing.T) {
	icons := []Icon{
		{URL: "a", Width: 10, Height: 90},
		{URL: "b"},
		{URL: "c", Width: 50, Height: 40},
		{URL: "d", Width: 120, Height: 0},
		{URL: "e", Width: 60, Height: 45},
	}

	best := 0
	for _, icon := range icons {
		if icon.Width > 0 && icon.Height > 0 && icon.Width+icon.Height > best {
			best = icon.Width + icon.Height
		}
	}

	got, ok := BestIcon(icons)
	assert.True(t, ok)
	assert.Equal(t, best, got.Width+got.Height)
	assert.Equal(t, "e", got.URL)
}

func TestMetadata_BestIcon(t *testing.T) {
	md := newMetadata("https://example.com")
	_, ok := md.BestIcon()
	assert.False(t, ok)

	md.Icons = append(md.Icons, Icon{URL: "https://example.com/a.png", Width: 32, Height: 32})
	got, ok := md.BestIcon()
	assert.True(t, ok)
	assert.Equal(t, md.Icons[0], got)
}
