package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
)

// NumberedPath inserts the two-digit, one-based part number n before the
// extension of the file name in path, or appends it when there is none.
// A name that is only an extension gets the number in front of it.
//
//	NumberedPath("out/net.kmz", 1) // "out/net01.kmz"
//	NumberedPath("out/.kmz", 2)    // "out/02.kmz"
func NumberedPath(path string, n int) string {
	dir, file := filepath.Split(path)
	ext := filepath.Ext(file)
	stem := strings.TrimSuffix(file, ext)
	return dir + fmt.Sprintf("%s%02d%s", stem, n, ext)
}

// WriteArchives writes a single archive to path, or several archives to
// numbered paths derived from it. It stops at the first failure and leaves
// already written parts in place. It returns the paths written.
func WriteArchives(path string, archives []Archive) ([]string, error) {
	if err := apperr.ValidateOutputPath(path); err != nil {
		return nil, apperr.Export(err, "invalid output path")
	}
	if len(archives) == 1 {
		if err := writeFile(path, archives[0].Data); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	written := make([]string, 0, len(archives))
	for _, a := range archives {
		p := NumberedPath(path, a.Index+1)
		if err := writeFile(p, a.Data); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.Export(err, "could not write %s", path)
	}
	return nil
}
