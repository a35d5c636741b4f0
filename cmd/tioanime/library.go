package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pevans/tioanime"
	"github.com/pevans/tioanime/library"
)

func newFollowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "follow <slug>",
		Short: "Follow a title to be notified of new chapters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := tioanime.NewChecker(a.client, store, nil, a.logger).Follow(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return a.render(entry, func() {
				color.New(color.FgGreen).Fprintf(a.out, "Following %s (%d chapters)\n", entry.Name, entry.ChapterCount)
			})
		},
	}
}

func newUnfollowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unfollow <slug>",
		Short: "Stop following a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Remove(args[0]); err != nil {
				return fmt.Errorf("failed to unfollow %s: %w", args[0], err)
			}

			return a.render(map[string]string{"unfollowed": args[0]}, func() {
				color.New(color.FgYellow).Fprintf(a.out, "Unfollowed %s\n", args[0])
			})
		},
	}
}

func newFollowingCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "following",
		Short: "List followed titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(library.EntryFilter{})
			if err != nil {
				return err
			}
			return a.render(entries, func() { a.printEntries(entries) })
		},
	}
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Look up every followed title and report new chapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer store.Close()

			results, err := tioanime.NewChecker(a.client, store, nil, a.logger).Check(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(results, func() { a.printCheck(results) })
		},
	}
}
