package errors

import (
	"strings"
	"unicode"
)

// MaxAssetIDLength bounds asset identifiers. IDs are used as cache keys,
// document keys, and DOT node names, so they stay short and printable.
const MaxAssetIDLength = 64

// ValidateAssetID validates an asset identifier for safety and correctness.
// IDs appear in cache keys, snapshot documents, and rendered output, so the
// rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No path separators or null bytes
//   - Maximum length of 64 characters
func ValidateAssetID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidAssetID, "asset id cannot be empty")
	}

	if len(id) > MaxAssetIDLength {
		return New(ErrCodeInvalidAssetID, "asset id too long (max %d characters)", MaxAssetIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidAssetID, "asset id contains whitespace or control characters")
		}
	}

	if strings.ContainsAny(id, "/\\\x00") {
		return New(ErrCodeInvalidAssetID, "asset id contains invalid characters")
	}

	return nil
}

// ValidateSnapshotName validates a snapshot name used as a storage key.
// It ensures the name is a simple identifier without path components.
func ValidateSnapshotName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "snapshot name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "snapshot name cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidInput, "snapshot name cannot be a hidden file")
	}

	return nil
}
