package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/actionfeed/internal/api/v1"
	"github.com/gosuda/actionfeed/internal/api/ws"
	feedslack "github.com/gosuda/actionfeed/internal/messenger/slack"
)

func registerPublicRoutes(api huma.API, d Deps) {
	v1.RegisterAuthRoutes(api, d.Auth)
}

func registerAPIRoutes(api huma.API, d Deps) {
	v1.RegisterSessionRoutes(api, d.Auth)
	v1.RegisterActionItemRoutes(api, d.Store, d.Items, d.Members)
	v1.RegisterLogRoutes(api, d.Store)
	v1.RegisterUserRoutes(api, d.Members)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/feed", hub.ServeFeed)
}

func registerSlackRoutes(r chi.Router, handler *feedslack.Handler) {
	r.Post("/events", handler.HandleEvents)
	r.Post("/interactions", handler.HandleInteractions)
}
