package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/marcus/clubdash/internal/client"
	"github.com/marcus/clubdash/internal/export"
	"github.com/marcus/clubdash/internal/output"
	"github.com/marcus/clubdash/internal/people"
	"github.com/marcus/clubdash/internal/social"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write club data to an xlsx workbook",
	Long: `Write games, teams, tournaments and news to a spreadsheet, one sheet each.
When signed in, the member directory (with your relationship to each member)
and your friends are included too.`,
	GroupID: "club",
	Args:    cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		out, _ := cmd.Flags().GetString("out")

		data, err := collectExport(cmd.Context(), a)
		if err != nil {
			return reportErr("export", err)
		}
		if err := export.WriteFile(out, data); err != nil {
			output.Error("write %s: %v", out, err)
			return err
		}

		if jsonOutput(cmd) {
			return output.JSON(map[string]interface{}{
				"path":        out,
				"games":       len(data.Games),
				"teams":       len(data.Teams),
				"tournaments": len(data.Tournaments),
				"news":        len(data.News),
				"members":     len(data.Members),
				"friends":     len(data.Friends),
			})
		}
		output.Success("Wrote %s (%d games, %d teams, %d tournaments, %d news, %d members)",
			out, len(data.Games), len(data.Teams), len(data.Tournaments), len(data.News), len(data.Members))
		return nil
	}),
}

// collectExport fetches every exported list concurrently. Any failure aborts
// the export.
func collectExport(ctx context.Context, a *app) (export.Data, error) {
	var d export.Data
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { d.Games, err = a.client.Games().List(ctx); return })
	g.Go(func() (err error) { d.Teams, err = a.client.Teams().List(ctx); return })
	g.Go(func() (err error) { d.Tournaments, err = a.client.Tournaments().List(ctx); return })
	g.Go(func() (err error) { d.News, err = a.client.News().List(ctx); return })

	if _, ok := a.store.ViewerID(); ok {
		g.Go(func() error {
			members, err := exportMembers(ctx, a.client, a.store)
			d.Members = members
			return err
		})
		g.Go(func() error {
			friends := social.NewFriendList(a.client, a.store)
			friends.Collection.WithLogger(a.log)
			friends.Load(ctx)
			d.Friends = friends.Items()
			return friends.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return export.Data{}, err
	}
	return d, nil
}

func exportMembers(ctx context.Context, c *client.Client, viewer people.Viewer) ([]export.Member, error) {
	dir := people.New(c, viewer)
	dir.Load(ctx)
	if err := dir.Err(); err != nil {
		return nil, err
	}
	var members []export.Member
	for _, u := range dir.Candidates() {
		members = append(members, export.Member{User: u, Relationship: dir.Label(u.ID)})
	}
	return members, nil
}

func init() {
	exportCmd.Flags().StringP("out", "o", "clubdash.xlsx", "Output file")
	rootCmd.AddCommand(exportCmd)
}
