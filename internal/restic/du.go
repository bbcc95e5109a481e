package restic

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// RepositorySizeBytes measures the on-disk size of a local repository by
// summing file sizes under its path. This is a disk-usage measurement
// external to the engine itself.
//
// Remote repositories (anything with a scheme prefix such as "sftp:" or
// "s3:") cannot be measured this way.
func RepositorySizeBytes(repository string) (int64, error) {
	if strings.Contains(repository, ":") {
		return 0, errors.Newf("repository %s is not a local path", repository)
	}

	var total int64
	err := filepath.WalkDir(repository, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "measuring repository %s", repository)
	}
	return total, nil
}
