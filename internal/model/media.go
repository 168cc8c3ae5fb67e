package model

// MediaKind selects the normalization and folder for an upload.
type MediaKind string

const (
	MediaAvatar    MediaKind = "avatar"
	MediaCover     MediaKind = "cover"
	MediaThumbnail MediaKind = "thumbnail"
	MediaVideo     MediaKind = "video"
)

// MediaFile is an upload read into memory by the HTTP layer.
type MediaFile struct {
	Kind        MediaKind
	Filename    string
	ContentType string
	Data        []byte
}

// IsImage reports whether the kind is normalized as an image.
func (k MediaKind) IsImage() bool {
	return k == MediaAvatar || k == MediaCover || k == MediaThumbnail
}

// ImageSpec is the target box an image kind is cropped to.
type ImageSpec struct {
	Folder string
	Width  int
	Height int
}

// ImageSpecs maps each image kind to its storage folder and size.
var ImageSpecs = map[MediaKind]ImageSpec{
	MediaAvatar:    {Folder: "avatars", Width: 400, Height: 400},
	MediaCover:     {Folder: "covers", Width: 1500, Height: 500},
	MediaThumbnail: {Folder: "thumbnails", Width: 1280, Height: 720},
}

const (
	MaxImageSizeBytes = 5 * 1024 * 1024   // 5MB
	MaxVideoSizeBytes = 200 * 1024 * 1024 // 200MB
	VideoFolder       = "videos"
	ImageExt          = ".jpg"
	ImageQuality      = 85
	ImageCacheControl = "public, max-age=31536000" // 1 year
	VideoCacheControl = "public, max-age=86400"
)

// Supported content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"

	ContentTypeMP4       = "video/mp4"
	ContentTypeWebM      = "video/webm"
	ContentTypeQuickTime = "video/quicktime"
	ContentTypeMatroska  = "video/x-matroska"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

// allowedVideoTypes maps accepted video types to the extension stored in the key.
var allowedVideoTypes = map[string]string{
	ContentTypeMP4:       ".mp4",
	ContentTypeWebM:      ".webm",
	ContentTypeQuickTime: ".mov",
	ContentTypeMatroska:  ".mkv",
}

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// VideoExtension returns the file extension for an accepted video type.
func VideoExtension(contentType string) (string, bool) {
	ext, ok := allowedVideoTypes[contentType]
	return ext, ok
}

// UploadResult represents the uploaded object location.
// Key is the object key inside the bucket; it is derivable from URL.
type UploadResult struct {
	URL      string  `json:"url"`
	Key      string  `json:"key"`
	Duration float64 `json:"duration,omitempty"`
}

var (
	ErrFileTooLarge     = newError(ErrInvalidArgument, "file too large")
	ErrInvalidImageType = newError(ErrInvalidArgument, "unsupported image type, allowed: jpeg, png, gif, webp")
	ErrInvalidVideoType = newError(ErrInvalidArgument, "unsupported video type, allowed: mp4, webm, mov, mkv")
	ErrEmptyFile        = newError(ErrInvalidArgument, "uploaded file is empty")
)
