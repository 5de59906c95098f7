package dashboard

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marcus/clubdash/internal/people"
)

// FetchData reloads every panel concurrently and snapshots the result.
// Nothing is fetched while signed out.
func FetchData(ctx context.Context, deps Deps) RefreshDataMsg {
	msg := RefreshDataMsg{
		Friends:   people.IDSet{},
		Pending:   people.IDSet{},
		Timestamp: time.Now(),
	}

	current := deps.Session.Current()
	if !current.Authenticated() {
		return msg
	}
	msg.Viewer = current.User

	var g errgroup.Group
	g.Go(func() error { deps.People.Load(ctx); return nil })
	g.Go(func() error { deps.Inbox.Load(ctx); return nil })
	g.Go(func() error { deps.Friends.Load(ctx); return nil })
	if deps.News != nil {
		g.Go(func() error { deps.News.Load(ctx); return nil })
	}
	_ = g.Wait()

	msg.People = deps.People.Candidates()
	msg.Friends = deps.People.Friends()
	msg.Pending = deps.People.Pending()
	msg.Requests = deps.Inbox.Items()
	msg.Friended = deps.Friends.Items()

	sort.Slice(msg.People, func(i, j int) bool {
		return msg.People[i].FullName() < msg.People[j].FullName()
	})

	if deps.News != nil {
		msg.News = deps.News.Items()
		sort.SliceStable(msg.News, func(i, j int) bool {
			return msg.News[i].CreatedAt.After(msg.News[j].CreatedAt)
		})
	}

	// First failure wins; the panels keep their previous rows.
	for _, err := range []error{deps.People.Err(), deps.Inbox.Err(), deps.Friends.Err(), newsErr(deps)} {
		if err != nil {
			msg.Err = err
			break
		}
	}
	return msg
}

func newsErr(deps Deps) error {
	if deps.News == nil {
		return nil
	}
	return deps.News.Err()
}
