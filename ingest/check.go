package ingest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// ErrInputMissing is returned when the input file is absent, unreadable or
// not a regular file.
var ErrInputMissing = errors.New("input file missing")

// FileInfo describes an input file that passed the existence check.
type FileInfo struct {
	Path   string
	Size   int64
	Digest string // hex BLAKE3 of the contents
}

// CheckFile verifies that path is a readable regular file and digests it.
func CheckFile(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("%w: %v", ErrInputMissing, err)
	}
	if !st.Mode().IsRegular() {
		return FileInfo{}, fmt.Errorf("%w: %s is not a regular file", ErrInputMissing, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("%w: %v", ErrInputMissing, err)
	}
	defer f.Close()

	h := blake3.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return FileInfo{}, fmt.Errorf("%w: failed to read %s: %v", ErrInputMissing, path, err)
	}

	return FileInfo{
		Path:   path,
		Size:   n,
		Digest: hex.EncodeToString(h.Sum(nil)),
	}, nil
}
