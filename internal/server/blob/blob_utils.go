package blob

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
)

// Match: starts with one or more / OR contains \ OR contains ..
var regexForbiddenPatterns = regexp.MustCompile(`^/+|\\+|\.\.`)

var allowedExtensions = mapset.NewSet(".jpg", ".jpeg", ".png", ".pdf", ".doc", ".docx")

// Validate a key for S3 and local file system compatibility
func ValidateKey(key string) bool {
	// S3 keys must be between 1 and 1024 bytes long
	if len(key) == 0 || len(key) > 1024 {
		return false
	} else if key == "." || key == ".." {
		return false
	}

	// Check for forbidden patterns using regex
	if regexForbiddenPatterns.MatchString(key) {
		return false
	}

	// S3 keys must be valid UTF-8 strings
	return utf8.ValidString(key)
}

// uploadExtension returns the lowercased extension of name if uploads of that
// type are accepted
func uploadExtension(name string) (string, bool) {
	ext := strings.ToLower(path.Ext(name))
	return ext, allowedExtensions.Contains(ext)
}

// objectKey builds `{folder}/{field}-{unixmillis}{ext}`
func objectKey(folder, field string, at time.Time, ext string) string {
	return fmt.Sprintf("%s/%s-%d%s", folder, field, at.UnixMilli(), ext)
}
