package tmdb

// Image CDN path templates: {base}/{size}/{path}
const (
	imageBaseURL = "https://image.tmdb.org/t/p"

	// PlaceholderImage is substituted when a record carries no image path
	PlaceholderImage = "/placeholder.svg"
)

// Poster sizes
const (
	PosterSizeTiny     = "w92"
	PosterSizeSmall    = "w154"
	PosterSizeMedium   = "w185"
	PosterSizeLarge    = "w342"
	PosterSizeXLarge   = "w500"
	PosterSizeXXLarge  = "w780"
	PosterSizeOriginal = "original"
)

// Backdrop sizes
const (
	BackdropSizeSmall    = "w300"
	BackdropSizeMedium   = "w780"
	BackdropSizeLarge    = "w1280"
	BackdropSizeOriginal = "original"
)

// PosterURL builds a CDN url for a poster path
func PosterURL(path, size string) string {
	return imageURL(path, size, PosterSizeLarge)
}

// BackdropURL builds a CDN url for a backdrop path
func BackdropURL(path, size string) string {
	return imageURL(path, size, BackdropSizeLarge)
}

func imageURL(path, size, defaultSize string) string {
	if path == "" {
		return PlaceholderImage
	}
	if size == "" {
		size = defaultSize
	}
	return imageBaseURL + "/" + size + path
}
