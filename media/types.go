package media

type AssetType string

const (
	AssetTypeSubmission AssetType = "submission" // original uploaded contest photos
	AssetTypeThumbnail  AssetType = "thumbnail"  // generated dashboard thumbnails
	AssetTypeBadge      AssetType = "badge"      // badge icon images
	AssetTypeUnknown    AssetType = "unknown"
)

// Metadata contains EXIF and dimension information extracted from an
// uploaded photo.
type Metadata struct {
	Width        *int     `json:"width,omitempty"`
	Height       *int     `json:"height,omitempty"`
	Aperture     *float64 `json:"aperture,omitempty"`
	ShutterSpeed *string  `json:"shutter_speed,omitempty"`
	ISO          *int     `json:"iso,omitempty"`
	FocalLength  *float64 `json:"focal_length,omitempty"`
	CameraMake   *string  `json:"camera_make,omitempty"`
	CameraModel  *string  `json:"camera_model,omitempty"`
	TakenAt      *int64   `json:"taken_at,omitempty"`
}
