package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/gosuda/actionfeed/internal/actions"
	v1 "github.com/gosuda/actionfeed/internal/api/v1"
	"github.com/gosuda/actionfeed/internal/client"
	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/feed"
)

// printAlerter shows executor and feed alerts on the terminal.
type printAlerter struct{}

func (printAlerter) Success(msg string) { fmt.Println(msg) }

func (printAlerter) Failure(msg string) { fmt.Fprintln(os.Stderr, msg) }

// feedSession is a loaded feed plus what the action resolver needs to know about
// the company.
type feedSession struct {
	client  *client.Client
	ctrl    *feed.Controller
	viewer  domain.CurrentUser
	base    actions.Env
	members map[uuid.UUID]domain.ItemStatus
}

// openFeed fetches the first page for patch while loading the member list and seat
// summary alongside it. Only the feed itself is required; the rest degrades to
// "unknown".
func openFeed(ctx context.Context, c *client.Client, viewer domain.CurrentUser, opts feed.Options, patch feed.Patch) (*feedSession, error) {
	s := &feedSession{
		client: c,
		ctrl:   feed.NewController(c, printAlerter{}, viewer.CompanyID, opts),
		viewer: viewer,
		base:   actions.Env{Now: time.Now(), SeatsLeft: actions.UnlimitedSeats},
	}

	var users []v1.UserView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.ctrl.ApplyFilter(gctx, patch)
	})
	g.Go(func() error {
		var err error
		if users, err = c.Users(gctx); err != nil {
			log.Warn().Err(err).Msg("member list unavailable")
			users = nil
		}
		return nil
	})
	g.Go(func() error {
		summary, err := c.Summary(gctx)
		if err != nil {
			log.Warn().Err(err).Msg("seat summary unavailable")
			return nil
		}
		s.base.SeatsLeft = summary.SeatsLeft
		return nil
	})
	if err := g.Wait(); err != nil {
		s.ctrl.Close()
		return nil, err
	}

	if users != nil {
		s.members = make(map[uuid.UUID]domain.ItemStatus, len(users))
		for _, u := range users {
			s.members[u.ID] = u.Status
		}
		s.ctrl.SetCollections(feed.Collections{
			Users:       len(users),
			Departments: feed.CountUnknown,
			Groups:      feed.CountUnknown,
		})
	}
	return s, nil
}

// loadAll pages through the rest of the feed.
func (s *feedSession) loadAll(ctx context.Context) error {
	for s.ctrl.View().HasMore {
		if err := s.ctrl.FetchMore(ctx); err != nil {
			return err
		}
	}
	return nil
}

// find looks up an item by id prefix, paging further until it shows up or the feed
// is exhausted.
func (s *feedSession) find(ctx context.Context, prefix string) (*domain.ActionItem, error) {
	for {
		view := s.ctrl.View()
		item, err := matchItem(view.Items(), prefix)
		if !errors.Is(err, errItemNotFound) || !view.HasMore {
			return item, err
		}
		if err := s.ctrl.FetchMore(ctx); err != nil {
			return nil, err
		}
	}
}

func (s *feedSession) env(item *domain.ActionItem) actions.Env {
	e := s.base
	e.UserGone = userGone(item, s.members)
	return e
}

func (s *feedSession) panel(item *domain.ActionItem) actions.Panel {
	return actions.Resolve(item, s.viewer, s.env(item))
}

func (s *feedSession) close() {
	s.ctrl.Close()
}
