package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gosuda/actionfeed/internal/actions"
	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/feed"
)

func actCmd() *cobra.Command {
	var dismissStale bool
	cmd := &cobra.Command{
		Use:   "act <item-id> <action>",
		Short: "Run an action on a feed item",
		Long: `Run one of the actions 'feedctl items' lists for an item. The item id may be
shortened to any unique prefix. Navigation actions print the console path to open.

When a removal targets a user who already left the company, the item is stale;
pass --dismiss-stale to dismiss it in that case.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind := actions.Kind(strings.ToLower(args[1]))

			c, viewer, err := session()
			if err != nil {
				return err
			}
			s, err := openFeed(ctx, c, viewer, feed.Options{}, feed.Patch{})
			if err != nil {
				return err
			}
			defer s.close()

			item, err := s.find(ctx, args[0])
			if err != nil {
				return err
			}
			panel := s.panel(item)
			b, ok := panel.Button(kind)
			if !ok {
				return fmt.Errorf("item %s offers no %q action (available: %s)", shortID(item.ID), kind, formatPanel(panel))
			}
			if !b.Enabled && b.Tooltip != "" {
				return fmt.Errorf("%s is disabled: %s", kind, b.Tooltip)
			}

			exec := actions.NewExecutor(c, s.ctrl, printAlerter{})
			res, err := exec.Execute(ctx, item, b)
			if errors.Is(err, domain.ErrCompanyUserNotFound) {
				fmt.Println(domain.MsgCompanyUserNotFound + ".")
				if !dismissStale {
					fmt.Println("Rerun with --dismiss-stale to dismiss this item.")
					return nil
				}
				res, err = dismiss(cmd, exec, s, item)
			}
			if err != nil {
				return err
			}

			switch {
			case res.Navigate != "":
				fmt.Println("Open " + strings.TrimRight(viper.GetString("server"), "/") + res.Navigate)
			case res.Removed:
				fmt.Printf("Item %s removed from the feed.\n", shortID(item.ID))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dismissStale, "dismiss-stale", false, "dismiss the item when its user no longer exists")
	return cmd
}

func dismiss(cmd *cobra.Command, exec *actions.Executor, s *feedSession, item *domain.ActionItem) (actions.Result, error) {
	b, ok := s.panel(item).Button(actions.KindDismiss)
	if !ok {
		return actions.Result{}, fmt.Errorf("item %s cannot be dismissed", shortID(item.ID))
	}
	return exec.Execute(cmd.Context(), item, b)
}
