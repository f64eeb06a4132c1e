package manifest

import (
	"crypto/md5" //nolint:gosec // cache-busting token, not a security boundary
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// HashAlgorithm selects the fingerprint used for the version token.
type HashAlgorithm string

const (
	HashMD5    HashAlgorithm = "md5"
	HashXXHash HashAlgorithm = "xxhash"
)

// VersionLength is the number of hex characters kept in a version token.
const VersionLength = 8

// ParseHashAlgorithm parses a hash name; empty means md5.
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	switch strings.ToLower(s) {
	case "", "md5":
		return HashMD5, nil
	case "xxhash", "xxh64":
		return HashXXHash, nil
	default:
		return "", fmt.Errorf("invalid hash algorithm: %s (valid: md5, xxhash)", s)
	}
}

// Fingerprint returns a short hex digest of code.
func Fingerprint(alg HashAlgorithm, code string) (string, error) {
	var digest string
	switch alg {
	case HashMD5, "":
		sum := md5.Sum([]byte(code)) //nolint:gosec // see import
		digest = hex.EncodeToString(sum[:])
	case HashXXHash:
		digest = fmt.Sprintf("%016x", xxhash.Sum64String(code))
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", alg)
	}
	return digest[:VersionLength], nil
}
