package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/clubdash/internal/comments"
	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/output"
)

var errNotAuthor = errors.New("you can only change your own comments")

var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Read and write comments on news",
	GroupID: "club",
}

var commentsListCmd = &cobra.Command{
	Use:     "list <news-id>",
	Aliases: []string{"ls"},
	Short:   "List comments on a news item",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		newsID, err := parseID(args[0])
		if err != nil {
			return err
		}
		thread := comments.New(a.client, a.store, newsID).WithLogger(a.log)
		thread.Load(cmd.Context())
		if err := thread.Err(); err != nil {
			return reportErr("list comments", err)
		}

		items := sanitizeComments(thread.Items())
		if jsonOutput(cmd) {
			return output.JSON(items)
		}
		if len(items) == 0 {
			output.Info("No comments yet")
			return nil
		}
		for _, c := range items {
			fmt.Println(output.FormatComment(c, thread.CanModify(c)))
		}
		return nil
	}),
}

var commentsAddCmd = &cobra.Command{
	Use:   "add <news-id> [text...]",
	Short: "Comment on a news item",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.viewer(); err != nil {
			return err
		}
		newsID, err := parseID(args[0])
		if err != nil {
			return err
		}
		text, err := commentText(args[1:])
		if err != nil {
			return err
		}

		thread := comments.New(a.client, a.store, newsID).WithLogger(a.log)
		if err := thread.Submit(cmd.Context(), text); err != nil {
			return reportErr("add comment", err)
		}
		output.Success("Comment added (%d on this item)", len(thread.Items()))
		return nil
	}),
}

var commentsEditCmd = &cobra.Command{
	Use:   "edit <news-id> <comment-id> [text...]",
	Short: "Edit one of your comments",
	Args:  cobra.MinimumNArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.viewer(); err != nil {
			return err
		}
		thread, c, err := ownComment(cmd, a, args[0], args[1])
		if err != nil {
			return err
		}
		text, err := commentText(args[2:])
		if err != nil {
			return err
		}

		thread.StartEdit(c)
		if err := thread.Submit(cmd.Context(), text); err != nil {
			thread.CancelEdit()
			return reportErr("edit comment", err)
		}
		output.Success("Comment %s updated", output.FormatID(c.ID))
		return nil
	}),
}

var commentsDeleteCmd = &cobra.Command{
	Use:     "delete <news-id> <comment-id>",
	Aliases: []string{"rm"},
	Short:   "Delete one of your comments",
	Args:    cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.viewer(); err != nil {
			return err
		}
		thread, c, err := ownComment(cmd, a, args[0], args[1])
		if err != nil {
			return err
		}

		thread.StageDelete(c.ID)
		if err := confirm(cmd, fmt.Sprintf("Delete comment %d?", c.ID)); err != nil {
			thread.CancelDelete()
			output.Warning("Not deleted: %v", err)
			return err
		}
		if err := thread.Delete(cmd.Context()); err != nil {
			return reportErr("delete comment", err)
		}
		output.Success("Comment %s deleted", output.FormatID(c.ID))
		return nil
	}),
}

// ownComment loads the thread and finds a comment the viewer wrote.
func ownComment(cmd *cobra.Command, a *app, newsArg, commentArg string) (*comments.Thread, models.Comment, error) {
	newsID, err := parseID(newsArg)
	if err != nil {
		return nil, models.Comment{}, err
	}
	commentID, err := parseID(commentArg)
	if err != nil {
		return nil, models.Comment{}, err
	}

	thread := comments.New(a.client, a.store, newsID).WithLogger(a.log)
	thread.Load(cmd.Context())
	if err := thread.Err(); err != nil {
		return nil, models.Comment{}, reportErr("load comments", err)
	}
	for _, c := range thread.Items() {
		if c.ID != commentID {
			continue
		}
		if !thread.CanModify(c) {
			output.Error("%v", errNotAuthor)
			return nil, models.Comment{}, errNotAuthor
		}
		return thread, c, nil
	}
	err = fmt.Errorf("comment %d not found on news %d", commentID, newsID)
	output.Error("%v", err)
	return nil, models.Comment{}, err
}

// commentText joins args, or asks for the text when none were given.
func commentText(args []string) (string, error) {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	if err := ask(field{title: "Comment", value: &text}); err != nil {
		return "", err
	}
	return text, nil
}

func init() {
	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsEditCmd, commentsDeleteCmd)
	rootCmd.AddCommand(commentsCmd)
}
