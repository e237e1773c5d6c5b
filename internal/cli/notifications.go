package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	notif := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Show the notification feed",
		Run:     runNotifications,
	}
	notif.Flags().Bool("unread", false, "Only unread notifications")

	read := &cobra.Command{
		Use:   "read [notification-id]",
		Short: "Mark a notification read (all with --all)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runNotificationsRead,
	}
	read.Flags().Bool("all", false, "Mark every notification read")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete every notification",
		Run:   runNotificationsClear,
	}

	notif.AddCommand(read, clear)
	RootCmd.AddCommand(notif)
}

func runNotifications(cmd *cobra.Command, args []string) {
	unreadOnly, _ := cmd.Flags().GetBool("unread")

	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	items, unread := p.Notifications()
	if unreadOnly {
		kept := items[:0]
		for _, n := range items {
			if !n.Read {
				kept = append(kept, n)
			}
		}
		items = kept
	}

	if !textOutput() {
		printJSON(map[string]any{"unread": unread, "notifications": items})
		return
	}
	bold.Printf("%d unread\n", unread)
	for _, n := range items {
		mark := " "
		if !n.Read {
			mark = yellow.Sprint("•")
		}
		fmt.Printf("%s %s  %s: %s  %s\n", mark, n.CreatedAt.Format("15:04"), n.Title, n.Message, faint.Sprint(n.ID))
	}
}

func runNotificationsRead(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) == 0 {
		exitErr("read", fmt.Errorf("notification id or --all is required"))
	}

	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	if all {
		err = p.MarkAllRead(cmd.Context())
	} else {
		err = p.MarkRead(cmd.Context(), args[0])
	}
	if err != nil {
		exitErr("read", err)
	}
	fmt.Println(`{"ok":true}`)
}

func runNotificationsClear(cmd *cobra.Command, args []string) {
	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	if err := p.ClearNotifications(cmd.Context()); err != nil {
		exitErr("clear", err)
	}
	fmt.Println(`{"ok":true}`)
}
