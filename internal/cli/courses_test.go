package cli

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"syllabus-cli/internal/logger"
	"syllabus-cli/internal/viewstate"
)

func TestForgetViewLogsFailure(t *testing.T) {
	dir := t.TempDir()
	st := viewstate.New()
	st.Expand("crs-1")
	if err := viewstate.Save(dir, "crs-1", st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// The rewrite goes through a temp file; a directory in its place makes it fail.
	if err := os.Mkdir(filepath.Join(dir, viewstate.FileName+".tmp"), 0o755); err != nil {
		t.Fatal(err)
	}

	core, logs := observer.New(zap.DebugLevel)
	forgetView(&logger.Logger{SugaredLogger: zap.New(core).Sugar()}, dir, "crs-1")

	entries := logs.FilterMessage("view state not removed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %+v", logs.All())
	}
	if entries[0].Level != zap.WarnLevel || entries[0].ContextMap()["course"] != "crs-1" {
		t.Fatalf("unexpected entry: %+v %+v", entries[0].Entry, entries[0].ContextMap())
	}

	forgetView(&logger.Logger{SugaredLogger: zap.New(core).Sugar()}, t.TempDir(), "crs-1")
	if n := logs.Len(); n != 1 {
		t.Fatalf("nothing to forget must not warn, got %d entries", n)
	}
}
