package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/logger"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/publish"
	"syllabus-cli/internal/session"
	"syllabus-cli/internal/store"
	"syllabus-cli/internal/viewstate"
)

func newCoursesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"course"},
		Short:   "Course commands (create, list, show, export, import, delete, publish)",
	}
	cmd.AddCommand(newCoursesCreateCmd(app))
	cmd.AddCommand(newCoursesListCmd(app))
	cmd.AddCommand(newCoursesShowCmd(app))
	cmd.AddCommand(newCoursesExportCmd(app))
	cmd.AddCommand(newCoursesImportCmd(app))
	cmd.AddCommand(newCoursesDeleteCmd(app))
	cmd.AddCommand(newCoursesPublishCmd(app))
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newCoursesCreateCmd(app *App) *cobra.Command {
	var af attrFlags
	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new (draft) course owned by --user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := af.attrs(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 1 {
				t := args[0]
				attrs.Title = &t
			}
			ctx := cmdContext(cmd)
			e, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()
			s, err := session.Create(ctx, e.deps, app.User, attrs)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, s.Tree())
		},
	}
	af.register(cmd)
	return cmd
}

func newCoursesListCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses owned by --user (newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			e, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()
			owner := strings.TrimSpace(app.User)
			if all {
				if !e.deps.Auth.IsAdmin(owner) {
					return writeErr(cmd, errs.Forbidden("cli.courses_list", "--all is limited to admin users"))
				}
				owner = ""
			} else if owner == "" {
				return writeErr(cmd, errs.Forbidden("cli.courses_list", "no user id"))
			}
			out, err := e.store.ListAggregates(ctx, owner)
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == nil {
				out = []store.AggregateSummary{}
			}
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "List every course (admins only)")
	return cmd
}

func newCoursesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <course-id>",
		Short: "Show a course tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				return s.Tree(), nil
			})
		},
	}
}

func newCoursesExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <course-id>",
		Short: "Print the stored aggregate document of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				return store.ToStorage(s.Tree())
			})
		},
	}
}

func newCoursesImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import an exported course document as a new course owned by --user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			doc, err := parseDocument(b)
			if err != nil {
				return writeErr(cmd, err)
			}
			tree, err := store.FromStorage(doc)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmdContext(cmd)
			e, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()
			s, err := session.Import(ctx, e.deps, app.User, tree)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, s.Tree())
		},
	}
}

func newCoursesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <course-id>",
		Short: "Delete a course and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id := strings.TrimSpace(args[0])
			e, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()
			if err := e.deps.Auth.ResolveEditableCourse(ctx, app.User, id); err != nil {
				return writeErr(cmd, err)
			}
			if err := e.store.DeleteAggregate(ctx, id); err != nil {
				return writeErr(cmd, err)
			}
			forgetView(e.log, app.Dir, id)
			e.log.Info("course deleted", "course", id)
			return writeOut(cmd, app, map[string]any{"deleted": id})
		},
	}
}

func newCoursesPublishCmd(app *App) *cobra.Command {
	var to string
	var opt publish.WriteOptions
	cmd := &cobra.Command{
		Use:   "publish <course-id> --to <dir>",
		Short: "Write a course as markdown (index plus one page per lesson)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				return publish.WriteCourse(s.Tree(), to, opt)
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().BoolVar(&opt.IncludeArchived, "include-archived", false, "Include archived nodes")
	cmd.Flags().BoolVar(&opt.IncludeAnswers, "answers", false, "Mark correct quiz options")
	cmd.Flags().BoolVar(&opt.Overwrite, "overwrite", false, "Overwrite existing files")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// parseDocument accepts a bare course document or the {"data": ...} envelope written by export.
func parseDocument(b []byte) (store.CourseDocument, error) {
	const op = "cli.parse_document"
	var env struct {
		Data *store.CourseDocument `json:"data"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return store.CourseDocument{}, errs.Wrap(errs.CodeValidation, op, fmt.Errorf("invalid JSON: %w", err))
	}
	if env.Data != nil {
		return *env.Data, nil
	}
	var doc store.CourseDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return store.CourseDocument{}, errs.Wrap(errs.CodeValidation, op, err)
	}
	if strings.TrimSpace(doc.ID) == "" {
		return store.CourseDocument{}, errs.Wrap(errs.CodeValidation, op, errors.New("document has no course id"))
	}
	return doc, nil
}

func newKindsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List node kinds and what each may contain",
		RunE: func(cmd *cobra.Command, args []string) error {
			type kindInfo struct {
				Kind     model.NodeKind   `json:"kind"`
				Label    string           `json:"label"`
				Prefix   string           `json:"idPrefix"`
				Children []model.NodeKind `json:"children"`
				Status   bool             `json:"hasStatus"`
			}
			out := make([]kindInfo, 0, len(model.Kinds))
			for _, k := range model.Kinds {
				children := model.AllowedChildren(k)
				if children == nil {
					children = []model.NodeKind{}
				}
				out = append(out, kindInfo{Kind: k, Label: k.Label(), Prefix: k.IDPrefix(), Children: children, Status: model.HasStatus(k)})
			}
			return writeOut(cmd, app, out)
		},
	}
}

// forgetView drops the saved outline state of a deleted course. Failure only leaves a stale
// entry behind, so it is logged and not returned.
func forgetView(log *logger.Logger, dir, courseID string) {
	if err := viewstate.Forget(dir, courseID); err != nil {
		log.Warn("view state not removed", "course", courseID, "err", err)
	}
}
