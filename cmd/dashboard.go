package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/clubdash/internal/collection"
	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/people"
	"github.com/marcus/clubdash/internal/social"
	"github.com/marcus/clubdash/internal/tui/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Live TUI of people, requests, friends and news",
	Long: `Launch a live-updating TUI dashboard showing:
- People: everyone in the club with your relationship to them
- Requests: friend requests waiting for your answer
- Friends: your current friends
- News: latest club news

The view follows the shared session: signing in or out from another
terminal updates it within the watch interval.

Key bindings:
  Tab/Shift+Tab  Switch panels
  1/2/3/4        Jump to panel
  ↑/↓ j/k        Select row in active panel
  /              Search people
  a              Add friend / accept request
  d              Decline request
  x              Remove friend
  r              Force refresh
  ?              Toggle help
  q              Quit`,
	GroupID: "social",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval < 500*time.Millisecond {
			interval = 30 * time.Second
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			if err := a.store.Watch(ctx, a.cfg.WatchInterval); err != nil && ctx.Err() == nil {
				a.log.Warn("dashboard: session watch", "err", err)
			}
		}()

		dir := people.New(a.client, a.store).WithLogger(a.log)
		inbox := social.NewInbox(a.client, a.store).WithLogger(a.log)
		friends := social.NewFriendList(a.client, a.store)
		friends.Collection.WithLogger(a.log)
		news := collection.New[models.News, models.NewsPayload]("news", a.client.News()).WithLogger(a.log)
		defer func() {
			dir.Close()
			inbox.Close()
			friends.Close()
			news.Close()
		}()

		model, stop := dashboard.NewModel(dashboard.Deps{
			Session: a.store,
			People:  dir,
			Inbox:   inbox,
			Friends: friends,
			News:    news,
		}, interval)
		defer stop()

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running dashboard: %w", err)
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().Duration("interval", 30*time.Second, "Refresh interval")
}
