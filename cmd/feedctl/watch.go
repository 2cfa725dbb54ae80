package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gosuda/actionfeed/internal/domain"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream feed changes until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := session()
			if err != nil {
				return err
			}
			asJSON := viper.GetBool("json")
			return c.Watch(cmd.Context(), func(ev domain.FeedEvent) {
				if asJSON {
					_ = printJSON(ev)
					return
				}
				fmt.Printf("%s  %-20s %s\n", time.Unix(ev.At, 0).UTC().Format(time.DateTime), ev.Type, ev.ItemID)
			})
		},
	}
}
