package contribmatrix

import (
	"io/fs"
	"path/filepath"

	"github.com/gobwas/glob"
)

// SuggestFiles walks root for entries whose path matches **/<base of
// name>, the hint a shell glob would give for a mistyped path. The base
// may itself contain glob metacharacters. Unreadable subtrees are
// skipped; this is best-effort advice, not an inventory.
func SuggestFiles(root, name string) []string {
	g, err := glob.Compile("**/"+filepath.Base(name), '/')
	if err != nil {
		return nil
	}
	var matches []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		// The "./" prefix lets "**/" match entries at the root itself.
		if g.Match("./" + filepath.ToSlash(rel)) {
			matches = append(matches, rel)
		}
		return nil
	})
	return matches
}
