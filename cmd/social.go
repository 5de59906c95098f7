package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/output"
	"github.com/marcus/clubdash/internal/social"
)

var requestsCmd = &cobra.Command{
	Use:     "requests",
	Aliases: []string{"req"},
	Short:   "Answer and track friend requests",
	GroupID: "social",
}

var friendsCmd = &cobra.Command{
	Use:     "friends",
	Short:   "List and remove friends",
	GroupID: "social",
}

func printRequests(cmd *cobra.Command, reqs []models.FriendRequest, received bool) error {
	if jsonOutput(cmd) {
		if reqs == nil {
			reqs = []models.FriendRequest{}
		}
		return output.JSON(reqs)
	}
	if len(reqs) == 0 {
		output.Info("No requests")
		return nil
	}
	for _, r := range reqs {
		fmt.Println(output.FormatRequest(r, received))
	}
	return nil
}

func loadInbox(cmd *cobra.Command, a *app) (*social.Inbox, error) {
	if _, err := a.viewer(); err != nil {
		return nil, err
	}
	inbox := social.NewInbox(a.client, a.store).WithLogger(a.log)
	inbox.Load(cmd.Context())
	if err := inbox.Err(); err != nil {
		return nil, reportErr("load received requests", err)
	}
	return inbox, nil
}

var requestsReceivedCmd = &cobra.Command{
	Use:     "received",
	Aliases: []string{"inbox"},
	Short:   "Requests sent to you",
	Args:    cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		inbox, err := loadInbox(cmd, a)
		if err != nil {
			return err
		}
		all, _ := cmd.Flags().GetBool("all")
		if all {
			return printRequests(cmd, inbox.Items(), true)
		}
		return printRequests(cmd, inbox.Pending(), true)
	}),
}

var requestsSentCmd = &cobra.Command{
	Use:     "sent",
	Aliases: []string{"outbox"},
	Short:   "Requests you sent",
	Args:    cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.viewer(); err != nil {
			return err
		}
		outbox := social.NewOutbox(a.client, a.store)
		outbox.Collection.WithLogger(a.log)
		outbox.Load(cmd.Context())
		if err := outbox.Err(); err != nil {
			return reportErr("load sent requests", err)
		}
		return printRequests(cmd, outbox.Items(), false)
	}),
}

// answerCmd builds accept/decline, which differ only in the inbox call.
func answerCmd(use, short, verb string, answer func(*social.Inbox, *cobra.Command, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <request-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			inbox, err := loadInbox(cmd, a)
			if err != nil {
				return err
			}
			if err := answer(inbox, cmd, id); err != nil {
				return reportErr(use, err)
			}
			output.Success("Request %s %s (%d still pending)", output.FormatID(id), verb, len(inbox.Pending()))
			return nil
		}),
	}
}

var requestsAcceptCmd = answerCmd("accept", "Accept a friend request", "accepted",
	func(b *social.Inbox, cmd *cobra.Command, id int64) error { return b.Accept(cmd.Context(), id) })

var requestsDeclineCmd = answerCmd("decline", "Decline a friend request", "declined",
	func(b *social.Inbox, cmd *cobra.Command, id int64) error { return b.Decline(cmd.Context(), id) })

var requestsCancelCmd = &cobra.Command{
	Use:   "cancel <request-id>",
	Short: "Withdraw a request you sent",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.viewer(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		outbox := social.NewOutbox(a.client, a.store)
		outbox.Collection.WithLogger(a.log)
		if err := outbox.Cancel(cmd.Context(), id); err != nil {
			return reportErr("cancel request", err)
		}
		output.Success("Request %s cancelled", output.FormatID(id))
		return nil
	}),
}

func loadFriends(cmd *cobra.Command, a *app) (*social.FriendList, error) {
	if _, err := a.viewer(); err != nil {
		return nil, err
	}
	friends := social.NewFriendList(a.client, a.store)
	friends.Collection.WithLogger(a.log)
	friends.Load(cmd.Context())
	if err := friends.Err(); err != nil {
		return nil, reportErr("load friends", err)
	}
	return friends, nil
}

var friendsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your friends",
	Args:    cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		friends, err := loadFriends(cmd, a)
		if err != nil {
			return err
		}
		items := friends.Items()
		if jsonOutput(cmd) {
			if items == nil {
				items = []models.Friend{}
			}
			return output.JSON(items)
		}
		if len(items) == 0 {
			output.Info("No friends yet; try 'clubdash people list'")
			return nil
		}
		for _, f := range items {
			fmt.Println(output.FormatFriend(f))
		}
		return nil
	}),
}

var friendsRemoveCmd = &cobra.Command{
	Use:     "remove <user-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a friend",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		friends, err := loadFriends(cmd, a)
		if err != nil {
			return err
		}

		var target *models.Friend
		for _, f := range friends.Items() {
			if f.FriendID == id {
				target = &f
				break
			}
		}
		if target == nil {
			err := fmt.Errorf("user %d is not your friend", id)
			output.Error("%v", err)
			return err
		}

		friends.StageDelete(id)
		if err := confirm(cmd, fmt.Sprintf("Remove %s from your friends?", target.FullName())); err != nil {
			friends.CancelDelete()
			output.Warning("Not removed: %v", err)
			return err
		}
		if err := friends.Delete(cmd.Context()); err != nil {
			return reportErr("remove friend", err)
		}
		output.Success("Removed %s", target.FullName())
		return nil
	}),
}

func init() {
	requestsReceivedCmd.Flags().Bool("all", false, "Include answered requests")

	requestsCmd.AddCommand(requestsReceivedCmd, requestsSentCmd, requestsAcceptCmd, requestsDeclineCmd, requestsCancelCmd)
	friendsCmd.AddCommand(friendsListCmd, friendsRemoveCmd)
	rootCmd.AddCommand(requestsCmd, friendsCmd)
}
