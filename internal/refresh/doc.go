// Package refresh implements the widget's Refresh Loop.
//
// The loop:
//   - Fetches the leaderboard snapshot once at start, then every interval (default 5m)
//   - Shows ACTIVE and writes matching slots when the snapshot status is "active"
//   - Shows OFFLINE and clears every slot for any other status
//   - Shows ERROR and leaves slots untouched when the fetch or decode fails
//
// Cycles are not mutually exclusive. A tick that fires while an earlier cycle
// is still waiting on the network starts a second cycle, and their writes
// interleave with last-writer-wins. A started cycle is never cancelled.
package refresh
