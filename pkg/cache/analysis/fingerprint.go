package analysis

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
)

// imagePrefixLimit bounds how many bytes of an image file contribute to its
// fingerprint. Images identical through the first MiB share a fingerprint.
const imagePrefixLimit = 1 << 20

// keySeparator joins the two fingerprints of a composite key. Hex digests
// never contain it, so keys split unambiguously.
const keySeparator = ":"

// FingerprintImage returns a stable hex digest of the file's content prefix.
// Identity is content-based: the same bytes under a different name produce
// the same fingerprint. When the file cannot be read, the path string itself
// is digested instead; that fallback fingerprint does not survive a rename.
func FingerprintImage(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return fingerprintPath(path)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, io.LimitReader(f, imagePrefixLimit)); err != nil {
		return fingerprintPath(path)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FingerprintQuery returns the hex digest of the expanded query text, taken
// verbatim. Callers wanting case- or whitespace-insensitive matching must
// canonicalize before calling.
func FingerprintQuery(expandedQuery string) string {
	sum := md5.Sum([]byte(expandedQuery))
	return hex.EncodeToString(sum[:])
}

func fingerprintPath(path string) string {
	sum := md5.Sum([]byte(path))
	return hex.EncodeToString(sum[:])
}

// key builds the composite cache key for an image and query pair.
func key(imagePath, expandedQuery string) string {
	return FingerprintImage(imagePath) + keySeparator + FingerprintQuery(expandedQuery)
}
