package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	v1 "github.com/gosuda/actionfeed/internal/api/v1"
	"github.com/gosuda/actionfeed/internal/client"
	"github.com/gosuda/actionfeed/internal/domain"
)

func logsCmd() *cobra.Command {
	var (
		entity string
		search string
		limit  int
		pages  int
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the company activity log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, viewer, err := session()
			if err != nil {
				return err
			}

			q := client.LogQuery{
				CompanyID:  viewer.CompanyID,
				EntityType: domain.EntityType(entity),
				SearchKey:  search,
				Limit:      limit,
			}
			var entries []v1.LogEntry
			for range max(pages, 1) {
				page, err := c.ListLogs(cmd.Context(), q)
				if err != nil {
					return err
				}
				entries = append(entries, page.Logs...)
				if page.LastEvaluatedKey.IsZero() {
					break
				}
				q.After = page.LastEvaluatedKey
			}

			if viper.GetBool("json") {
				return printJSON(entries)
			}
			printLogs(entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "", "only this entity type, e.g. USER")
	cmd.Flags().StringVar(&search, "search", "", "search key substring")
	cmd.Flags().IntVar(&limit, "limit", 50, "page size")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	return cmd
}

func printLogs(entries []v1.LogEntry) {
	if len(entries) == 0 {
		fmt.Println("No activity.")
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Time", "Entity", "Action", "Activity"})
	for _, e := range entries {
		tw.AppendRow(table.Row{
			time.Unix(e.CreatedAt, 0).UTC().Format(time.DateTime),
			e.EntityType, e.Action, e.Text,
		})
	}
	tw.Render()
}
