package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/output"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version",
	GroupID: "system",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Print(version)
			return
		}
		fmt.Printf("clubdash version %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
	},
}

type infoJSON struct {
	Version     string `json:"version"`
	API         string `json:"api"`
	SessionPath string `json:"session_path"`
	SignedIn    bool   `json:"signed_in"`
	Members     int    `json:"members,omitempty"`
	Friends     int    `json:"friends,omitempty"`
	Pending     int    `json:"pending_received,omitempty"`
}

var infoCmd = &cobra.Command{
	Use:     "info",
	Short:   "Show where clubdash connects and a summary of your account",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		info := infoJSON{
			Version:     version,
			API:         a.client.BaseURL,
			SessionPath: a.cfg.SessionPath,
		}

		if id, ok := a.store.ViewerID(); ok {
			info.SignedIn = true
			ctx := cmd.Context()
			if users, err := a.client.ListUsers(ctx); err == nil {
				info.Members = len(users)
			} else {
				a.log.Debug("info: list users", "err", err)
			}
			if friends, err := a.client.Friends(ctx, id); err == nil {
				info.Friends = len(friends)
			}
			if received, err := a.client.ReceivedFriendRequests(ctx, id); err == nil {
				for _, r := range received {
					if r.Status == models.RequestPending {
						info.Pending++
					}
				}
			}
		}

		if jsonOutput(cmd) {
			return output.JSON(info)
		}

		fmt.Println(output.SectionHeader("clubdash " + info.Version))
		fmt.Printf("  API:      %s\n", info.API)
		fmt.Printf("  Session:  %s\n", info.SessionPath)
		if !info.SignedIn {
			fmt.Println("  Signed in: no")
			return nil
		}
		if u := a.store.User(); u != nil {
			fmt.Printf("  User:     %s <%s>\n", u.FullName(), u.Email)
		}
		fmt.Printf("  Members:  %d\n", info.Members)
		fmt.Printf("  Friends:  %d\n", info.Friends)
		fmt.Printf("  Requests: %d pending\n", info.Pending)
		return nil
	}),
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version string")
	rootCmd.AddCommand(versionCmd, infoCmd)
}
