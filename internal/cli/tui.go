package cli

import (
	"github.com/spf13/cobra"

	"syllabus-cli/internal/session"
	"syllabus-cli/internal/tui"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui <course-id>",
		Short: "Edit a course in the interactive outline editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			e, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			s, err := session.Open(ctx, e.deps, app.User, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := tui.Run(ctx, s, app.Dir); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}
