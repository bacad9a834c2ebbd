package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"syllabus-cli/internal/cli"
)

func isCourseID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "crs-") && len(s) > len("crs-")
}

// rewriteDirectCourseArgs makes `syllabus <course-id>` behave like
// `syllabus courses show <course-id>`. Cobra treats the first positional token as a
// subcommand, so argv is rewritten before parsing. Persistent flags may come first.
func rewriteDirectCourseArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value so the course id is never eaten.
	valueFlags := map[string]bool{
		"--dir":          true,
		"--store":        true,
		"--database-url": true,
		"--user":         true,
		"--format":       true,
		"--log":          true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "courses", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isCourseID(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isCourseID(a):
			return insert(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	// A .env in the working directory may carry SYLLABUS_* settings.
	_ = godotenv.Load()

	os.Args = rewriteDirectCourseArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
