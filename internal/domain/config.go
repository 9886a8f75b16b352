package domain

// VectorConfig holds the image embedding settings the matching threshold was tuned for.
type VectorConfig struct {
	Model          string
	Dimensions     int
	DistanceMetric string
	MaxImageSide   int
	JPEGQuality    int
}

// DefaultVectorConfig returns the default configuration for CLIP ViT-B/32.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "clip-ViT-B-32",
		Dimensions:     512,
		DistanceMetric: "cosine",
		MaxImageSide:   800,
		JPEGQuality:    85,
	}
}
