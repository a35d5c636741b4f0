package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pevans/tioanime"
	"github.com/pevans/tioanime/library"
)

// render writes v as indented JSON in json mode, otherwise it runs
// printTable.
func (a *app) render(v any, printTable func()) error {
	if a.format == formatJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	printTable()
	return nil
}

func (a *app) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleLight)
	return t
}

func (a *app) section(title string) {
	color.New(color.FgCyan, color.Bold).Fprintln(a.out, title)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func (a *app) printInfo(info *tioanime.AnimeInfo) {
	a.section(info.Name)

	t := a.newTable()
	t.AppendRows([]table.Row{
		{"Slug", info.AnimeID},
		{"MAL ID", info.MalID},
		{"Type", info.Type},
		{"Year", info.Year},
		{"Season", info.Season},
		{"Status", info.Status},
		{"Chapters", info.ChapterCount},
		{"Genres", strings.Join(info.Genres, ", ")},
		{"Poster", info.Poster},
		{"Synopsis", truncate(info.Synopsis, 200)},
	})
	t.Render()

	if len(info.Related) == 0 {
		return
	}

	fmt.Fprintln(a.out)
	a.section("Related")
	rt := a.newTable()
	rt.AppendHeader(table.Row{"Slug", "Name", "Type", "Year"})
	for _, r := range info.Related {
		rt.AppendRow(table.Row{r.ID, r.Name, r.Type, r.Year})
	}
	rt.Render()
}

func (a *app) printLinks(links *tioanime.AnimeLinks) {
	a.section(fmt.Sprintf("%s, chapter %d", links.ID, links.Chapter))

	t := a.newTable()
	t.AppendHeader(table.Row{"Kind", "Server", "URL"})
	appendServerLinks(t, "watch", links.Links.WatchLinks)
	appendServerLinks(t, "download", links.Links.DownloadLinks)
	t.Render()
}

// appendServerLinks adds one row per link with servers in name order.
func appendServerLinks(t table.Writer, kind string, links tioanime.ServerLinks) {
	servers := make([]string, 0, len(links))
	for server := range links {
		servers = append(servers, server)
	}
	sort.Strings(servers)

	for _, server := range servers {
		for _, link := range links[server] {
			t.AppendRow(table.Row{kind, server, link})
		}
	}
}

func (a *app) printArticles(items []tioanime.ArticleItem) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No items to display.")
		return
	}

	t := a.newTable()
	t.AppendHeader(table.Row{"#", "Slug", "Name"})
	for i, item := range items {
		t.AppendRow(table.Row{i + 1, item.ID, item.Name})
	}
	t.Render()
}

func (a *app) printSections(items []tioanime.SectionItem) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No items to display.")
		return
	}

	t := a.newTable()
	t.AppendHeader(table.Row{"Slug", "Name", "Type", "Genres"})
	for _, item := range items {
		t.AppendRow(table.Row{item.ID, item.Name, item.Type, strings.Join(item.Genres, ", ")})
	}
	t.Render()
}

func (a *app) printPage(page, total int) {
	color.New(color.Faint).Fprintf(a.out, "Page %d of %d\n", page, total)
}

var categoryTitles = map[tioanime.Category]string{
	tioanime.CategoryChapters: "Latest chapters",
	tioanime.CategoryAnimes:   "Latest animes",
	tioanime.CategoryMovies:   "Movies",
	tioanime.CategoryOVAs:     "OVAs",
	tioanime.CategorySpecials: "Specials",
}

func (a *app) printLatest(latest *tioanime.Latest, categories []tioanime.Category) {
	for i, c := range categories {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		a.section(categoryTitles[c])

		switch items := latest.Items(c).(type) {
		case []tioanime.ArticleItem:
			a.printArticles(items)
		case []tioanime.SectionItem:
			a.printSections(items)
		}
	}
}

func (a *app) printProgramming(p *tioanime.AnimeProgramming, days []time.Weekday) {
	t := a.newTable()
	t.AppendHeader(table.Row{"Day", "Name", "Chapter", "Status"})
	for _, day := range days {
		for _, item := range p.Day(day) {
			t.AppendRow(table.Row{day.String(), item.Name, item.Chapter, item.Status})
		}
	}
	t.Render()
}

func (a *app) printEntries(entries []library.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "Not following any titles.")
		return
	}

	t := a.newTable()
	t.AppendHeader(table.Row{"Slug", "Name", "Chapters", "Last checked", "Last error"})
	for _, e := range entries {
		checked := "never"
		if e.CheckedAt != nil {
			checked = e.CheckedAt.Format("2006-01-02 15:04")
		}
		lastError := ""
		if e.LastError != nil {
			lastError = *e.LastError
		}
		t.AppendRow(table.Row{e.Slug, e.Name, e.ChapterCount, checked, lastError})
	}
	t.Render()
}

func (a *app) printCheck(results []tioanime.CheckResult) {
	if len(results) == 0 {
		fmt.Fprintln(a.out, "Not following any titles.")
		return
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	for _, r := range results {
		switch {
		case r.Err != nil:
			red.Fprintf(a.out, "! %s: %s\n", r.Slug, r.Error)
		case r.NewChapters() > 0:
			green.Fprintf(a.out, "+ %s: %d new (now %d)\n", r.Name, r.NewChapters(), r.Current)
		default:
			fmt.Fprintf(a.out, "  %s: up to date (%d)\n", r.Name, r.Current)
		}
	}

	fmt.Fprintf(a.out, "\n%d of %d titles have new chapters\n", len(tioanime.Updated(results)), len(results))
}
