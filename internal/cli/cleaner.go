package cli

import (
	"os"

	"github.com/gmapkit/gmapwire/internal/errors"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		scanner: NewDirectoryScanner(),
	}
}

// CleanGeneratedFiles removes the generated files named output from the
// specified directories and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(directories []string, output string) ([]string, error) {
	files, err := c.scanner.GeneratedFiles(directories, output)
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(files))
	for _, path := range files {
		if err := os.Remove(path); err != nil {
			return removed, errors.WrapFileSystemError("remove", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
