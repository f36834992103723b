// Package display holds the surfaces the refresh loop writes to.
//
// A Surface exposes three capabilities: set the status presentation, write a
// slot's username and points, and clear a slot. Implementations tolerate
// missing elements silently.
//
// Surfaces:
//   - Document: in-memory host document addressed by element id
//   - Hub: applies mutations to a Document and pushes them to browsers over websocket
package display
