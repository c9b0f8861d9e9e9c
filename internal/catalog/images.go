package catalog

import "strings"

const (
	ProductImagesPath   = "/assets/images/products/"
	DefaultProductImage = "/assets/images/placeholder.png"
)

// ImagePath resolves a product's image reference to a servable path.
// Absolute URLs pass through untouched; bare file names resolve under
// the products image path; an empty reference falls back to the
// placeholder.
func ImagePath(image string) string {
	if strings.HasPrefix(image, "http") {
		return image
	}
	if image == "" {
		return DefaultProductImage
	}
	return ProductImagesPath + image
}
