// Package server builds the HTTP routers of both binaries.
//
// NewAPIRouter serves the leaderboard snapshot consumed by the widget:
//
//	GET /api/leaderboard?minutes=N  ranked snapshot
//	GET /api/status                 liveness probe for the widget
//	GET /api/test                   smoke test
//	GET /health                     store and cache health
//
// NewWidgetRouter serves the widget host: the websocket feed at /ws, the
// current document at /state and loop health at /health.
package server
