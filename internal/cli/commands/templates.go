package commands

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

//go:embed all:templates
var templateFS embed.FS

// copyTemplate writes an embedded project template into targetDir.
// Existing files are kept unless force is set.
func copyTemplate(templateName, targetDir string, force bool) error {
	root := path.Join("templates", templateName)

	return fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel := relTemplatePath(root, p)
		if rel == "" {
			return nil
		}
		target := filepath.Join(targetDir, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0750)
		}
		if !force {
			if _, err := os.Stat(target); err == nil {
				return nil
			}
		}

		content, err := templateFS.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, content, 0600)
	})
}

// listTemplateFiles returns the files a template creates, as written.
func listTemplateFiles(templateName string) ([]string, error) {
	var files []string
	root := path.Join("templates", templateName)

	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, relTemplatePath(root, p))
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// relTemplatePath returns p relative to root, renaming gitignore to .gitignore.
func relTemplatePath(root, p string) string {
	if p == root {
		return ""
	}
	rel := p[len(root)+1:]
	if path.Base(rel) == "gitignore" {
		rel = path.Join(path.Dir(rel), ".gitignore")
	}
	return rel
}
