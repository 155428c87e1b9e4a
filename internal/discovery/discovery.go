// Package discovery walks a module root directory and produces the flat list
// of module candidates found beneath it. It is a pure function of the
// directory contents at call time: no state is kept between calls.
package discovery

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/armatek/armature/internal/ctxlog"
)

// Extension is the manifest file suffix that marks a file as a module
// candidate.
const Extension = ".hcl"

// Candidate is a module manifest file found under the discovery root. ID is
// the path relative to the root with separators normalized to '/' and the
// extension stripped, so nesting encodes namespacing ("core/auth"); files
// directly under the root use their base name.
type Candidate struct {
	ID   string
	Path string
}

// Discover recursively walks root depth-first and returns one candidate per
// manifest file, in lexical walk order. Unreadable directories are logged
// and skipped; they never abort discovery of sibling subtrees.
func Discover(ctx context.Context, root string) []Candidate {
	logger := ctxlog.FromContext(ctx)

	var candidates []Candidate
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Error("Skipping unreadable path during module discovery.", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), Extension) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			logger.Error("Could not derive module id, skipping file.", "path", path, "error", relErr)
			return nil
		}
		id := strings.TrimSuffix(filepath.ToSlash(rel), Extension)
		candidates = append(candidates, Candidate{ID: id, Path: path})
		return nil
	})
	if err != nil {
		logger.Error("Module discovery aborted.", "root", root, "error", err)
	}

	logger.Debug("Module discovery finished.", "root", root, "candidates", len(candidates))
	return candidates
}
