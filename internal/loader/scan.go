package loader

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// folder is one directory's worth of PDF files found during the walk.
type folder struct {
	path    string
	names   []string // PDF file names, sorted
	singles bool     // folder name carries the singles suffix
}

// scanLibrary walks root recursively and partitions the PDF files it finds
// by containing folder. A folder named exactly hiddenName is skipped along
// with everything beneath it.
func scanLibrary(root, hiddenName string, singlesSuffixes []string) ([]folder, error) {
	byDir := make(map[string]*folder)
	var order []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == hiddenName {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			return nil
		}
		dir := filepath.Dir(path)
		f, ok := byDir[dir]
		if !ok {
			f = &folder{
				path:    dir,
				singles: isSinglesFolder(dir, singlesSuffixes),
			}
			byDir[dir] = f
			order = append(order, dir)
		}
		f.names = append(f.names, d.Name())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(order)
	folders := make([]folder, 0, len(order))
	for _, dir := range order {
		f := byDir[dir]
		sort.Strings(f.names)
		folders = append(folders, *f)
	}
	return folders, nil
}

// isSinglesFolder reports whether the folder name ends with one of the
// reserved singles suffixes, case-insensitively.
func isSinglesFolder(dir string, suffixes []string) bool {
	name := strings.ToLower(filepath.Base(dir))
	for _, s := range suffixes {
		if strings.HasSuffix(name, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
