package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/output"
	"github.com/marcus/clubdash/internal/people"
)

var peopleCmd = &cobra.Command{
	Use:     "people",
	Aliases: []string{"users"},
	Short:   "Browse club members and send friend requests",
	GroupID: "social",
}

type personJSON struct {
	models.User
	Relationship models.Relationship `json:"relationship"`
}

// loadDirectory requires a viewer and loads the people directory.
func loadDirectory(cmd *cobra.Command, a *app) (*people.Directory, error) {
	if _, err := a.viewer(); err != nil {
		return nil, err
	}
	dir := people.New(a.client, a.store).
		WithLogger(a.log).
		WithNotifier(func(msg string) { output.Error("%s", msg) })
	dir.Load(cmd.Context())
	if err := dir.Err(); err != nil {
		return nil, reportErr("load people", err)
	}
	return dir, nil
}

func printPeople(cmd *cobra.Command, dir *people.Directory, rows []models.User) error {
	slices.SortFunc(rows, func(a, b models.User) int {
		return strings.Compare(strings.ToLower(a.FullName()), strings.ToLower(b.FullName()))
	})

	if jsonOutput(cmd) {
		out := make([]personJSON, 0, len(rows))
		for _, u := range rows {
			out = append(out, personJSON{User: u, Relationship: dir.Label(u.ID)})
		}
		return output.JSON(out)
	}
	if len(rows) == 0 {
		output.Info("No matching people")
		return nil
	}
	for _, u := range rows {
		fmt.Println(output.FormatUser(u, dir.Label(u.ID)))
	}
	return nil
}

var peopleListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List everyone except you, with your relationship to them",
	Args:    cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		dir, err := loadDirectory(cmd, a)
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")
		return printPeople(cmd, dir, dir.Search(filter))
	}),
}

var peopleSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find people by name or email",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		dir, err := loadDirectory(cmd, a)
		if err != nil {
			return err
		}
		return printPeople(cmd, dir, dir.Search(strings.Join(args, " ")))
	}),
}

var peopleAddCmd = &cobra.Command{
	Use:   "add <user-id>",
	Short: "Send a friend request",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		dir, err := loadDirectory(cmd, a)
		if err != nil {
			return err
		}

		var target *models.User
		for _, u := range dir.Candidates() {
			if u.ID == id {
				target = &u
				break
			}
		}
		if target == nil {
			err := fmt.Errorf("no member with id %d", id)
			output.Error("%v", err)
			return err
		}
		if rel := dir.Label(id); rel != models.RelationAddable {
			output.Info("%s is already %s", target.FullName(), output.RelationBadge(rel))
			return nil
		}

		// The notifier has already printed the failure.
		if err := dir.SendFriendRequest(cmd.Context(), id); err != nil {
			return err
		}
		output.Success("Friend request sent to %s %s", target.FullName(), output.RelationBadge(dir.Label(id)))
		return nil
	}),
}

func init() {
	peopleListCmd.Flags().StringP("filter", "f", "", "Only show names or emails containing this text")

	peopleCmd.AddCommand(peopleListCmd, peopleSearchCmd, peopleAddCmd)
	rootCmd.AddCommand(peopleCmd)
}
