package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pevans/tioanime"
	"github.com/pevans/tioanime/filters"
)

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <slug>",
		Short: "Show the details of a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.client.Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(info, func() { a.printInfo(info) })
		},
	}
}

func newEpisodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "episode <slug> <chapter>",
		Short: "Show the watch and download links of an episode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapter, err := strconv.Atoi(args[1])
			if err != nil || chapter < 0 {
				return fmt.Errorf("invalid chapter %q: must be a non-negative integer", args[1])
			}

			links, err := a.client.ChapterLinks(cmd.Context(), args[0], chapter)
			if err != nil {
				return err
			}
			return a.render(links, func() { a.printLinks(links) })
		},
	}
}

func newSearchCommand(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.Search(cmd.Context(), strings.Join(args, " "), page)
			if err != nil {
				return err
			}
			return a.render(result, func() {
				a.printArticles(result.Results)
				a.printPage(result.Page, result.TotalPages)
			})
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page")
	return cmd
}

func newLatestCommand(a *app) *cobra.Command {
	names := make([]string, 0, len(tioanime.Categories())+1)
	for _, c := range tioanime.Categories() {
		names = append(names, string(c))
	}
	names = append(names, "all")

	return &cobra.Command{
		Use:       "latest [category]",
		Short:     "Show the latest releases",
		Long:      "Show the latest releases of one category (" + strings.Join(names, ", ") + "). Without a category every one is shown.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := tioanime.AllCategories
			if len(args) == 1 && args[0] != "all" {
				name = args[0]
			}

			latest, err := a.client.LatestByName(cmd.Context(), name)
			if err != nil {
				return err
			}

			if name == tioanime.AllCategories {
				return a.render(latest, func() { a.printLatest(latest, tioanime.Categories()) })
			}
			category := tioanime.Category(name)
			return a.render(map[string]any{name: latest.Items(category)}, func() {
				a.printLatest(latest, []tioanime.Category{category})
			})
		},
	}
}

func newFilterCommand(a *app) *cobra.Command {
	var f filters.Filters
	var page int
	var listGenres bool

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Browse the directory by type, genre, year and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listGenres {
				genres := filters.Genres()
				return a.render(genres, func() {
					for _, g := range genres {
						fmt.Fprintln(a.out, g)
					}
				})
			}

			if cmd.Flags().Changed("page") {
				f.Page = &page
			}

			result, err := a.client.SearchByFilters(cmd.Context(), f)
			if err != nil {
				return err
			}
			return a.render(result, func() {
				a.printArticles(result.Results)
				a.printPage(result.Page, result.TotalPages)
			})
		},
	}

	cmd.Flags().StringSliceVarP(&f.Types, "type", "t", nil, "content type: tv, movie, ova, special")
	cmd.Flags().StringSliceVarP(&f.Genres, "genre", "g", nil, "genre slug (see --genres)")
	cmd.Flags().StringSliceVarP(&f.Years, "years", "y", nil, "year range as from,to")
	cmd.Flags().StringVarP(&f.Status, "status", "s", "", "broadcast status: finished, broadcast, coming-soon")
	cmd.Flags().StringVar(&f.Sort, "sort", "", "sort order passed to the directory")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page")
	cmd.Flags().BoolVar(&listGenres, "genres", false, "list the genre vocabulary and exit")
	return cmd
}

func newScheduleCommand(a *app) *cobra.Command {
	var dayName string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the weekly broadcast schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days := tioanime.Weekdays
			if dayName != "" {
				day, err := resolveDay(dayName, time.Now())
				if err != nil {
					return err
				}
				days = []time.Weekday{day}
			}

			programming, err := a.client.WeeklyProgramming(cmd.Context())
			if err != nil {
				return err
			}

			if len(days) == 1 {
				key := strings.ToLower(days[0].String())
				return a.render(map[string]any{key: programming.Day(days[0])}, func() {
					a.printProgramming(programming, days)
				})
			}
			return a.render(programming, func() { a.printProgramming(programming, days) })
		},
	}

	cmd.Flags().StringVarP(&dayName, "day", "d", "", "only show one weekday (monday..sunday or today)")
	return cmd
}

// resolveDay parses an English weekday name or "today".
func resolveDay(name string, now time.Time) (time.Weekday, error) {
	if strings.EqualFold(name, "today") {
		return now.Weekday(), nil
	}
	day, ok := tioanime.ParseWeekday(name)
	if !ok {
		return time.Sunday, fmt.Errorf("unknown day %q", name)
	}
	return day, nil
}
