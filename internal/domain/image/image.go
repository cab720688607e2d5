package image

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/mirna-salem/petprofiles/internal/platform/domain"
)

// KeyPrefix starts every generated storage key.
const KeyPrefix = "img-"

// DefaultContentType is served for keys whose extension is not recognized.
const DefaultContentType = "image/jpeg"

// Extension is a lowercased file extension including the dot.
type Extension string

const (
	ExtJPG  Extension = ".jpg"
	ExtJPEG Extension = ".jpeg"
	ExtPNG  Extension = ".png"
	ExtGIF  Extension = ".gif"
)

var contentTypes = map[Extension]string{
	ExtJPG:  "image/jpeg",
	ExtJPEG: "image/jpeg",
	ExtPNG:  "image/png",
	ExtGIF:  "image/gif",
}

// IsAllowed returns true if uploads with this extension are accepted.
func (e Extension) IsAllowed() bool {
	_, ok := contentTypes[e]
	return ok
}

// ExtensionOf returns the lowercased extension of a file name.
func ExtensionOf(fileName string) Extension {
	return Extension(strings.ToLower(path.Ext(fileName)))
}

// ContentTypeFor derives the content type served for a storage key.
func ContentTypeFor(key string) string {
	if ct, ok := contentTypes[ExtensionOf(key)]; ok {
		return ct
	}
	return DefaultContentType
}

// ValidateUpload checks an incoming file in order: presence, type, size.
func ValidateUpload(fileName string, size, maxBytes int64) error {
	if size <= 0 {
		return domain.NewValidationError("no file uploaded")
	}
	if ext := ExtensionOf(fileName); !ext.IsAllowed() {
		return domain.NewUnsupportedMediaError(fmt.Sprintf("unsupported file type %q: allowed types are .jpg, .jpeg, .png, .gif", string(ext)))
	}
	if size > maxBytes {
		return domain.NewTooLargeError(fmt.Sprintf("file is %d bytes, the limit is %d bytes", size, maxBytes))
	}
	return nil
}

// NewStorageKey returns a fresh key of the form img-<uuid><ext>, keeping
// the original extension lowercased.
func NewStorageKey(originalFileName string) string {
	return KeyPrefix + uuid.NewString() + string(ExtensionOf(originalFileName))
}

// ValidateKey rejects keys that could escape the container namespace.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, "/\\") {
		return domain.NewValidationError("invalid image file name")
	}
	return nil
}
