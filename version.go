package lineage

import "strconv"

// FormatVersion identifies a revision of the hierarchy definition format.
type FormatVersion int

// Supported definition format versions.
const (
	// FormatV1 is the initial YAML definition format.
	FormatV1 FormatVersion = 1
)

// DefaultFormat is assumed when a definition omits its version.
const DefaultFormat = FormatV1

// String returns the version as "v1" style text.
func (v FormatVersion) String() string {
	return "v" + strconv.Itoa(int(v))
}

// IsValid returns true if this is a supported format version.
func (v FormatVersion) IsValid() bool {
	switch v {
	case FormatV1:
		return true
	default:
		return false
	}
}
