package viewstate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const FileName = "view_state.json"

// file is the on-disk layout: one State per course.
type file struct {
	Version int               `json:"version"`
	Courses map[string]*State `json:"courses,omitempty"`
}

// Load returns the saved state of courseID from dir/view_state.json.
//
// View state is best effort: a missing or unreadable file yields a fresh State.
func Load(dir, courseID string) *State {
	f := readFile(dir)
	if st, ok := f.Courses[strings.TrimSpace(courseID)]; ok && st != nil {
		st.ensure()
		return st
	}
	return New()
}

// Save stores st for courseID, keeping the entries of other courses.
func Save(dir, courseID string, st *State) error {
	dir = strings.TrimSpace(dir)
	courseID = strings.TrimSpace(courseID)
	if dir == "" || courseID == "" || st == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f := readFile(dir)
	f.Courses[courseID] = st
	return writeFile(dir, f)
}

// Forget removes the saved state of courseID.
func Forget(dir, courseID string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	f := readFile(dir)
	if _, ok := f.Courses[courseID]; !ok {
		return nil
	}
	delete(f.Courses, courseID)
	return writeFile(dir, f)
}

func writeFile(dir string, f file) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readFile(dir string) file {
	empty := file{Version: 1, Courses: map[string]*State{}}
	if strings.TrimSpace(dir) == "" {
		return empty
	}
	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return empty
	}
	var f file
	if err := json.Unmarshal(b, &f); err != nil {
		// Corrupt: treat as missing.
		return empty
	}
	if f.Version == 0 {
		f.Version = 1
	}
	if f.Courses == nil {
		f.Courses = map[string]*State{}
	}
	return f
}
