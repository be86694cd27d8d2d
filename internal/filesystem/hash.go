package filesystem

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Hasher computes a stable identity for file content. Implementations must
// surface read failures as errors instead of returning an empty identity:
// an empty identity is indistinguishable from the digest of a genuinely
// empty file and would corrupt duplicate grouping.
type Hasher interface {
	Identify(path string) (identity string, ok bool, err error)
}

// MD5Hasher streams file content through MD5. The digest is a
// duplicate-detection key only, not a security boundary.
type MD5Hasher struct{}

// NewMD5Hasher creates a new MD5 content hasher
func NewMD5Hasher() *MD5Hasher {
	return &MD5Hasher{}
}

// Identify returns the hex digest of the file's full byte stream without
// loading the file into memory. ok is false when the path does not denote
// a regular file at read time (vanished entry, broken symlink, fifo).
func (h *MD5Hasher) Identify(path string) (string, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	digest := md5.New()
	if _, err := io.Copy(digest, f); err != nil {
		return "", false, fmt.Errorf("failed to read file: %w", err)
	}

	return hex.EncodeToString(digest.Sum(nil)), true, nil
}
