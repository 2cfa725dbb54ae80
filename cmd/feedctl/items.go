package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gosuda/actionfeed/internal/actions"
	"github.com/gosuda/actionfeed/internal/activity"
	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/feed"
)

type itemFlags struct {
	priority string
	search   string
	sort     string
	source   string
	from     string
	to       string
	modules  []string
	all      bool
	pageSize int
}

func (f itemFlags) patch() (feed.Patch, error) {
	var p feed.Patch
	if f.priority != "" {
		pr := domain.Priority(strings.ToUpper(f.priority))
		if !pr.Valid() {
			return p, fmt.Errorf("--priority %q: want HIGH, MEDIUM or LOW", f.priority)
		}
		p.Priority = &pr
	}
	if f.search != "" {
		p.SearchKey = &f.search
	}
	if f.sort != "" {
		o := domain.SortOrder(f.sort).Normalize()
		p.Sort = &o
	}
	if f.source != "" {
		src := domain.Source(strings.ToUpper(f.source))
		p.Source = &src
	}
	if len(f.modules) > 0 {
		p.ModuleTypes = &f.modules
	}

	var err error
	if p.Start, err = parseDay(f.from); err != nil {
		return p, fmt.Errorf("--from: %w", err)
	}
	if p.End, err = parseDay(f.to); err != nil {
		return p, fmt.Errorf("--to: %w", err)
	}
	return p, nil
}

// itemLine is one rendered feed entry.
type itemLine struct {
	Day         string             `json:"day"`
	Item        *domain.ActionItem `json:"item"`
	Description string             `json:"description"`
	When        string             `json:"when"`
	Panel       actions.Panel      `json:"panel"`
}

func itemsCmd() *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the action feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			patch, err := f.patch()
			if err != nil {
				return err
			}
			c, viewer, err := session()
			if err != nil {
				return err
			}

			s, err := openFeed(ctx, c, viewer, feed.Options{PageSize: f.pageSize}, patch)
			if err != nil {
				return err
			}
			defer s.close()
			if f.all {
				if err := s.loadAll(ctx); err != nil {
					return err
				}
			}

			view := s.ctrl.View()
			lines := s.render(view)
			if viper.GetBool("json") {
				return printJSON(map[string]any{"view": view, "lines": lines})
			}
			printItems(view, lines)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.priority, "priority", "", "HIGH, MEDIUM or LOW")
	cmd.Flags().StringVar(&f.search, "search", "", "search key substring")
	cmd.Flags().StringVar(&f.sort, "sort", "desc", "asc or desc")
	cmd.Flags().StringVar(&f.source, "source", "", "SYSTEM or INTEGRATION")
	cmd.Flags().StringVar(&f.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringSliceVar(&f.modules, "module", nil, "module types to include (repeatable)")
	cmd.Flags().BoolVar(&f.all, "all", false, "load every page")
	cmd.Flags().IntVar(&f.pageSize, "page-size", feed.DefaultPageSize, "first page size")
	return cmd
}

func (s *feedSession) render(view feed.View) []itemLine {
	now := time.Now()
	lines := make([]itemLine, 0, view.Count)
	for _, b := range view.Buckets {
		for _, it := range b.Items {
			entry := activity.Describe(activity.Input{Item: it, Viewer: s.viewer, Now: now})
			lines = append(lines, itemLine{
				Day:         b.Day,
				Item:        it,
				Description: entry.Description.Plain(),
				When:        entry.When,
				Panel:       s.panel(it),
			})
		}
	}
	return lines
}

func printItems(view feed.View, lines []itemLine) {
	if len(lines) == 0 {
		fmt.Println(view.Message)
		if view.Hint != "" {
			fmt.Println(view.Hint)
		}
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Day", "ID", "Priority", "Item", "When", "Actions"})
	for _, l := range lines {
		tw.AppendRow(table.Row{l.Day, shortID(l.Item.ID), l.Item.Priority, l.Description, l.When, formatPanel(l.Panel)})
	}
	tw.Render()

	if view.HasMore {
		fmt.Println("More items available; use --all to load them.")
	}
}
