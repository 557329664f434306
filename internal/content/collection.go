// Package content inspects the project's content directory: locating the
// optional collection definition file and checking docs frontmatter.
package content

import (
	"os"
	"path/filepath"
)

// collectionCandidates are the file names probed for the user's collection
// definitions, in preference order. The file must be importable by the host
// build, so only module formats qualify.
var collectionCandidates = []string{"config.ts", "config.js", "config.mjs"}

// IsCollectionFile reports whether a bare file name is one of the collection
// definition candidates.
func IsCollectionFile(name string) bool {
	for _, candidate := range collectionCandidates {
		if name == candidate {
			return true
		}
	}
	return false
}

// LocateCollectionConfig finds the user's content-collection definition file
// under <srcDir>/content. A missing file is a normal outcome (found=false, no
// error); any other stat failure is returned so it cannot masquerade as
// "user has no collections".
func LocateCollectionConfig(srcDir string) (path string, found bool, err error) {
	for _, name := range collectionCandidates {
		candidate := filepath.Join(srcDir, "content", name)
		_, statErr := os.Stat(candidate)
		if statErr == nil {
			return candidate, true, nil
		}
		if os.IsNotExist(statErr) {
			continue
		}
		return "", false, statErr
	}
	return "", false, nil
}
