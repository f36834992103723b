// Package model defines the data types shared by the widget and the leaderboard API.
//
// Conventions:
//   - Snapshot status is the literal string "active" when a stream is live;
//     every other value (including an absent field) means inactive.
//   - Positions are 1-based and correlate an entry with a display slot.
//   - Points travel as a JSON number or string and are displayed as text.
package model
