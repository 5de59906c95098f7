package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/marcus/clubdash/internal/client"
	"github.com/marcus/clubdash/internal/collection"
	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/output"
)

// entityKind describes one CRUD resource exposed as a command tree.
type entityKind[E any, P any] struct {
	name     string // plural, also the collection name
	singular string
	aliases  []string
	resource func(*client.Client) *client.Resource[E, P]
	label    func(E) string
	format   func(E) string

	// flags registers the payload flags on create and update.
	flags func(fs *pflag.FlagSet)
	// payload turns an existing record into its editable payload.
	payload func(E) P
	// apply copies the flags the user set into p.
	apply func(fs *pflag.FlagSet, p *P) error
}

func (k entityKind[E, P]) collection(a *app) (*collection.Collection[E, P], *client.Resource[E, P]) {
	res := k.resource(a.client)
	return collection.New[E, P](k.name, res).WithLogger(a.log), res
}

func (k entityKind[E, P]) command() *cobra.Command {
	root := &cobra.Command{
		Use:     k.name,
		Aliases: k.aliases,
		Short:   fmt.Sprintf("List and manage %s", k.name),
		GroupID: "club",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s", k.name),
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			coll, _ := k.collection(a)
			coll.Load(cmd.Context())
			if err := coll.Err(); err != nil {
				return reportErr("list "+k.name, err)
			}
			items := coll.Items()
			if jsonOutput(cmd) {
				return output.JSON(items)
			}
			if len(items) == 0 {
				output.Info("No %s", k.name)
				return nil
			}
			for _, e := range items {
				fmt.Println(k.format(e))
			}
			return nil
		}),
	}

	create := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", k.singular),
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			var p P
			if err := k.apply(cmd.Flags(), &p); err != nil {
				output.Error("%v", err)
				return err
			}
			coll, _ := k.collection(a)
			if err := coll.Create(cmd.Context(), p); err != nil {
				return reportErr("create "+k.singular, err)
			}
			output.Success("Created %s", k.singular)
			return nil
		}),
	}
	k.flags(create.Flags())

	update := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s; only the flags given change", k.singular),
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			coll, res := k.collection(a)
			current, err := res.Get(cmd.Context(), id)
			if err != nil {
				return reportErr("get "+k.singular, err)
			}

			coll.OpenEdit(*current)
			defer coll.CloseDialog()

			p := k.payload(*current)
			if err := k.apply(cmd.Flags(), &p); err != nil {
				output.Error("%v", err)
				return err
			}
			if err := coll.Update(cmd.Context(), id, p); err != nil {
				return reportErr("update "+k.singular, err)
			}
			output.Success("Updated %s %s", k.singular, output.FormatID(id))
			return nil
		}),
	}
	k.flags(update.Flags())

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", k.singular),
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			coll, res := k.collection(a)
			current, err := res.Get(cmd.Context(), id)
			if err != nil {
				return reportErr("get "+k.singular, err)
			}

			coll.StageDelete(id)
			if err := confirm(cmd, fmt.Sprintf("Delete %s %q?", k.singular, k.label(*current))); err != nil {
				coll.CancelDelete()
				output.Warning("Not deleted: %v", err)
				return err
			}
			if err := coll.Delete(cmd.Context()); err != nil {
				return reportErr("delete "+k.singular, err)
			}
			output.Success("Deleted %s %s", k.singular, output.FormatID(id))
			return nil
		}),
	}

	root.AddCommand(list, create, update, del)
	return root
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		err = fmt.Errorf("invalid id %q", s)
		output.Error("%v", err)
		return 0, err
	}
	return id, nil
}

// setString copies a string flag into dst when the user set it.
func setString(fs *pflag.FlagSet, name string, dst *string) {
	if fs.Changed(name) {
		*dst, _ = fs.GetString(name)
	}
}

func setInt64(fs *pflag.FlagSet, name string, dst *int64) {
	if fs.Changed(name) {
		*dst, _ = fs.GetInt64(name)
	}
}

var gameKind = entityKind[models.Game, models.GamePayload]{
	name:     "games",
	singular: "game",
	aliases:  []string{"game"},
	resource: (*client.Client).Games,
	label:    func(g models.Game) string { return g.Name },
	format:   output.FormatGame,
	flags: func(fs *pflag.FlagSet) {
		fs.String("name", "", "Game name")
		fs.String("genre", "", "Genre")
		fs.String("description", "", "Description")
	},
	payload: func(g models.Game) models.GamePayload {
		return models.GamePayload{Name: g.Name, Genre: g.Genre, Description: g.Description}
	},
	apply: func(fs *pflag.FlagSet, p *models.GamePayload) error {
		setString(fs, "name", &p.Name)
		setString(fs, "genre", &p.Genre)
		setString(fs, "description", &p.Description)
		return nil
	},
}

var teamKind = entityKind[models.Team, models.TeamPayload]{
	name:     "teams",
	singular: "team",
	aliases:  []string{"team"},
	resource: (*client.Client).Teams,
	label:    func(t models.Team) string { return t.Name },
	format:   output.FormatTeam,
	flags: func(fs *pflag.FlagSet) {
		fs.String("name", "", "Team name")
		fs.Int64("game", 0, "Game id the team plays")
		fs.String("description", "", "Description")
	},
	payload: func(t models.Team) models.TeamPayload {
		return models.TeamPayload{Name: t.Name, GameID: t.GameID, Description: t.Description}
	},
	apply: func(fs *pflag.FlagSet, p *models.TeamPayload) error {
		setString(fs, "name", &p.Name)
		setInt64(fs, "game", &p.GameID)
		setString(fs, "description", &p.Description)
		return nil
	},
}

var tournamentKind = entityKind[models.Tournament, models.TournamentPayload]{
	name:     "tournaments",
	singular: "tournament",
	aliases:  []string{"tournament", "tour"},
	resource: (*client.Client).Tournaments,
	label:    func(t models.Tournament) string { return t.Name },
	format:   output.FormatTournament,
	flags: func(fs *pflag.FlagSet) {
		fs.String("name", "", "Tournament name")
		fs.Int64("game", 0, "Game id")
		fs.String("location", "", "Venue")
		fs.String("start", "", "Start date (YYYY-MM-DD)")
		fs.String("end", "", "End date (YYYY-MM-DD)")
		fs.String("prize", "", "Prize pool")
	},
	payload: func(t models.Tournament) models.TournamentPayload {
		return models.TournamentPayload{
			Name:      t.Name,
			GameID:    t.GameID,
			Location:  t.Location,
			StartDate: t.StartDate,
			EndDate:   t.EndDate,
			PrizePool: t.PrizePool,
		}
	},
	apply: func(fs *pflag.FlagSet, p *models.TournamentPayload) error {
		setString(fs, "name", &p.Name)
		setInt64(fs, "game", &p.GameID)
		setString(fs, "location", &p.Location)
		setString(fs, "start", &p.StartDate)
		setString(fs, "end", &p.EndDate)
		setString(fs, "prize", &p.PrizePool)
		if p.StartDate != "" && p.EndDate != "" && p.EndDate < p.StartDate {
			return fmt.Errorf("end date %s is before start date %s", p.EndDate, p.StartDate)
		}
		return nil
	},
}

var newsKind = entityKind[models.News, models.NewsPayload]{
	name:     "news",
	singular: "news item",
	resource: (*client.Client).News,
	label:    func(n models.News) string { return n.Title },
	format:   output.FormatNewsShort,
	flags: func(fs *pflag.FlagSet) {
		fs.String("title", "", "Headline")
		fs.String("content", "", "Body (markdown)")
	},
	payload: func(n models.News) models.NewsPayload {
		return models.NewsPayload{Title: n.Title, Content: n.Content}
	},
	apply: func(fs *pflag.FlagSet, p *models.NewsPayload) error {
		setString(fs, "title", &p.Title)
		setString(fs, "content", &p.Content)
		return nil
	},
}

var newsCmd = newsKind.command()

func init() {
	rootCmd.AddCommand(gameKind.command(), teamKind.command(), tournamentKind.command(), newsCmd)
}
