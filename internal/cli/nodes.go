package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/mutate"
	"syllabus-cli/internal/session"
)

func newNodesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "nodes",
		Aliases: []string{"node"},
		Short:   "Edit and inspect the nodes of a course",
	}
	cmd.AddCommand(newNodesAddCmd(app))
	cmd.AddCommand(newNodesUpdateCmd(app))
	cmd.AddCommand(newNodesDeleteCmd(app))
	cmd.AddCommand(newNodesDuplicateCmd(app))
	cmd.AddCommand(newNodesReorderCmd(app))
	cmd.AddCommand(newNodesMoveCmd(app))
	cmd.AddCommand(newNodesShiftCmd(app))
	cmd.AddCommand(newNodesGetCmd(app))
	cmd.AddCommand(newNodesPathCmd(app))
	cmd.AddCommand(newNodesSiblingsCmd(app))
	return cmd
}

func findNode(s *session.Session, id string) (model.Node, error) {
	n, ok := mutate.FindNode(s.Tree(), id)
	if !ok {
		return model.Node{}, errs.NotFound("cli.find_node", "node", strings.TrimSpace(id))
	}
	return n, nil
}

func newNodesAddCmd(app *App) *cobra.Command {
	var af attrFlags
	cmd := &cobra.Command{
		Use:   "add <course-id> <parent-id> <kind>",
		Short: "Append a new node as the last child of a parent",
		Long: strings.TrimSpace(`
Append a new node as the last child of <parent-id>.

Kinds: module, lesson, page, quiz, quizQuestion (question), quizOption (option),
codingExercise (exercise), codingPlayground (playground). Run "syllabus kinds" for
the nesting rules.`),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseNodeKind(args[2])
			if err != nil {
				return writeErr(cmd, errs.InvalidOperation("cli.nodes_add", err.Error()))
			}
			attrs, err := af.attrs(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				id, err := s.AddChild(args[1], kind, attrs)
				if err != nil {
					return nil, err
				}
				return findNode(s, id)
			})
		},
	}
	af.register(cmd)
	return cmd
}

func newNodesUpdateCmd(app *App) *cobra.Command {
	var af attrFlags
	cmd := &cobra.Command{
		Use:   "update <course-id> <node-id>",
		Short: "Update node attributes (only the flags you pass change)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := af.attrs(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				if err := s.Update(args[1], attrs); err != nil {
					return nil, err
				}
				return findNode(s, args[1])
			})
		},
	}
	af.register(cmd)
	return cmd
}

func newNodesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <course-id> <node-id>",
		Short: "Delete a node and its whole subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				ids, err := mutate.SubtreeIDs(s.Tree(), args[1])
				if err != nil {
					return nil, err
				}
				if err := s.Delete(args[1]); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": ids}, nil
			})
		},
	}
}

func newNodesDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <course-id> <node-id>",
		Short: "Copy a node and its subtree (fresh ids) to the end of its sibling list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				id, err := s.Duplicate(args[1])
				if err != nil {
					return nil, err
				}
				return findNode(s, id)
			})
		},
	}
}

func newNodesReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <course-id> <parent-id> <child-id>...",
		Short: "Set the order of a parent's children (must list every child exactly once)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				if err := s.Reorder(args[1], args[2:]); err != nil {
					return nil, err
				}
				p, err := findNode(s, args[1])
				return p.Children, err
			})
		},
	}
}

func newNodesMoveCmd(app *App) *cobra.Command {
	var to string
	var index int
	cmd := &cobra.Command{
		Use:   "move <course-id> <node-id> --to <parent-id> [--index n]",
		Short: "Move a node (with its subtree) under another parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(to) == "" {
				return writeErr(cmd, errs.InvalidOperation("cli.nodes_move", "missing --to <parent-id>"))
			}
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				if err := s.Move(args[1], to, index); err != nil {
					return nil, err
				}
				return mutate.GetPath(s.Tree(), args[1])
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "New parent id")
	cmd.Flags().IntVar(&index, "index", -1, "Position among the new siblings (default: append)")
	return cmd
}

func newNodesShiftCmd(app *App) *cobra.Command {
	var from, to int
	cmd := &cobra.Command{
		Use:   "shift <course-id> <parent-id> --from i --to j",
		Short: "Move the child at index i to index j within one parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("from") || !cmd.Flags().Changed("to") {
				return writeErr(cmd, errs.InvalidOperation("cli.nodes_shift", "both --from and --to are required"))
			}
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				if err := s.MoveSibling(args[1], from, to); err != nil {
					return nil, err
				}
				p, err := findNode(s, args[1])
				return p.Children, err
			})
		},
	}
	cmd.Flags().IntVar(&from, "from", 0, "Current index")
	cmd.Flags().IntVar(&to, "to", 0, "Target index")
	return cmd
}

func newNodesGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <course-id> <node-id>",
		Short: "Show one node with its subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				return findNode(s, args[1])
			})
		},
	}
}

func newNodesPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path <course-id> <node-id>",
		Short: "Print the ids from the course root down to a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				return mutate.GetPath(s.Tree(), args[1])
			})
		},
	}
}

func newNodesSiblingsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "siblings <course-id> <node-id>",
		Short: "List the ordered sibling list containing a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(s *session.Session) (any, error) {
				return mutate.GetSiblings(s.Tree(), args[1])
			})
		},
	}
}
