package venv

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/botctl/botctl/pkg/errors"
)

// ChecksumFile calculates the SHA-256 checksum of a file in the
// sha256:<hex> form recorded in provisioning sentinels
func ChecksumFile(fs afero.Fs, path string) (string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", path)
	}
	defer func() {
		_ = file.Close()
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}
