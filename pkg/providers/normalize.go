package providers

import (
	"math/rand/v2"
	"strconv"
)

// placeholderImage backs the "images are never empty" normalization
// guarantee when a provider supplies no usable image at all.
const placeholderImage = "https://placehold.co/600x400?text=produk"

// synthesizeStock produces a plausible placeholder stock level for providers
// that do not report one. The value is decorative, not an inventory claim.
func synthesizeStock() int {
	return 1 + rand.IntN(100)
}

// stringID normalizes the numeric IDs upstream providers use into the
// canonical string form.
func stringID(id int) string {
	return strconv.Itoa(id)
}

// nonEmptyImages enforces the at-least-one-image invariant, preferring the
// provider's gallery, then its single/thumbnail image, then the placeholder.
func nonEmptyImages(images []string, fallback string) []string {
	kept := make([]string, 0, len(images))
	for _, img := range images {
		if img != "" {
			kept = append(kept, img)
		}
	}
	if len(kept) > 0 {
		return kept
	}
	if fallback != "" {
		return []string{fallback}
	}
	return []string{placeholderImage}
}
