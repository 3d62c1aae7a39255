package imagearchiver

import (
	"fmt"
	"regexp"
	"strings"
)

// ArchiveSuffix is appended to every derived archive filename.
const ArchiveSuffix = ".tar.xz"

var (
	unsafeChars      = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	imageNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-/:@]*$`)
)

// SanitizeReference maps an image reference to a filesystem-safe name by
// replacing every character outside [A-Za-z0-9._-] with an underscore.
func SanitizeReference(ref string) string {
	return unsafeChars.ReplaceAllString(ref, "_")
}

// ArchiveFileName derives the archive filename for an image reference.
func ArchiveFileName(ref string) string {
	return SanitizeReference(ref) + ArchiveSuffix
}

// ValidateReference checks an image reference coming from untrusted input.
// The batch path treats references as opaque strings; this is only used
// where references arrive over HTTP.
func ValidateReference(ref string) error {
	ref = strings.TrimSpace(ref)

	if ref == "" {
		return fmt.Errorf("image reference cannot be empty")
	}

	if len(ref) > 256 {
		return fmt.Errorf("image reference too long (max 256 characters)")
	}

	if strings.Contains(ref, "..") {
		return fmt.Errorf("invalid characters in image reference")
	}

	if !imageNamePattern.MatchString(ref) {
		return fmt.Errorf("image reference contains invalid characters")
	}

	return nil
}
