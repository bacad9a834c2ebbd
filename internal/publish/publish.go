// Package publish renders courses to markdown files.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"syllabus-cli/internal/model"
	"syllabus-cli/internal/mutate"
)

type WriteOptions struct {
	IncludeArchived bool
	IncludeAnswers  bool
	Overwrite       bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteCourse writes <toDir>/courses/<course-id>/index.md plus one page per lesson under
// lessons/.
func WriteCourse(root model.Node, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	ropt := RenderOptions{IncludeArchived: opt.IncludeArchived, IncludeAnswers: opt.IncludeAnswers}

	indexMD, err := RenderCourseMarkdown(root, ropt)
	if err != nil {
		return WriteResult{}, err
	}

	courseDir := filepath.Join(toDir, "courses", root.ID)
	if !within(filepath.Join(toDir, "courses"), courseDir) {
		return WriteResult{}, errors.New("course id is not a file name: " + root.ID)
	}
	lessonsDir := filepath.Join(courseDir, "lessons")
	if err := os.MkdirAll(lessonsDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(courseDir, "index.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Lesson pages (stop on first error). Lessons under an archived module stay hidden.
	written := []string{indexPath}
	var walkErr error
	mutate.Walk(root, func(n model.Node, _ int) bool {
		if walkErr != nil || hidden(n, ropt) {
			return false
		}
		if n.Kind != model.KindLesson {
			return true
		}
		md, err := RenderLessonMarkdown(root, n.ID, ropt)
		if err != nil {
			walkErr = err
			return false
		}
		p := filepath.Join(lessonsDir, n.ID+".md")
		if !within(lessonsDir, p) {
			walkErr = errors.New("lesson id is not a file name: " + n.ID)
			return false
		}
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			walkErr = err
			return false
		}
		written = append(written, p)
		return false
	})
	if walkErr != nil {
		return WriteResult{}, walkErr
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}

// within reports whether p names an entry directly inside dir.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..") && !strings.ContainsRune(rel, filepath.Separator)
}
