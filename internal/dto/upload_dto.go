package dto

// UploadResponse returns the public URL of a stored avatar.
type UploadResponse struct {
	URL string `json:"url"`
}
