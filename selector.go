package sitemeta

// BestIcon picks the icon with the largest declared width+height. Ties go
// to the earliest icon in document order.
//
// Icons without a complete size all score zero, and a zero best score
// always resolves to icons[0], whichever icon produced it. ok is false
// only when icons is empty.
func BestIcon(icons []Icon) (best Icon, ok bool) {
	if len(icons) == 0 {
		return Icon{}, false
	}

	bestIdx, bestScore := 0, 0
	for i, icon := range icons {
		if icon.Width <= 0 || icon.Height <= 0 {
			continue
		}
		if score := icon.Width + icon.Height; score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	return icons[bestIdx], true
}

func (m *Metadata) BestIcon() (Icon, bool) {
	return BestIcon(m.Icons)
}
