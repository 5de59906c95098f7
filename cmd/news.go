package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/clubdash/internal/comments"
	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/output"
)

var newsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a news item with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		n, err := a.client.News().Get(cmd.Context(), id)
		if err != nil {
			return reportErr("get news", err)
		}

		thread := comments.New(a.client, a.store, id).WithLogger(a.log)
		thread.Load(cmd.Context())
		if err := thread.Err(); err != nil {
			output.Warning("comments unavailable: %s", err)
		}
		items := sanitizeComments(thread.Items())

		if jsonOutput(cmd) {
			return output.JSON(struct {
				models.News
				Comments []models.Comment `json:"comments"`
			}{*n, items})
		}

		body, err := output.RenderMarkdown(n.Content)
		if err != nil {
			a.log.Debug("news: render markdown", "err", err)
			body = output.StripHTML(n.Content)
		}
		fmt.Print(output.FormatNewsLong(*n, body, items, thread.CanModify))
		return nil
	}),
}

// sanitizeComments strips markup from comment text before it is shown.
func sanitizeComments(in []models.Comment) []models.Comment {
	out := make([]models.Comment, len(in))
	for i, c := range in {
		c.Content = output.StripHTML(c.Content)
		out[i] = c
	}
	return out
}

func init() {
	newsCmd.AddCommand(newsShowCmd)
}
