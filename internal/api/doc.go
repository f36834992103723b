// Package api provides the client the widget uses to fetch leaderboard snapshots.
//
// Every request carries a cache-defeating t=<epoch millis> query parameter so
// each refresh observes the latest published snapshot. Failures are reported
// as *FetchError with one of two kinds:
//   - TransportFailure: the request could not be made or returned a non-2xx status
//   - ParseFailure: the body was not a snapshot document
//
// Callers treat both kinds the same way; the kind exists for logging.
package api
