// Package leaderboard builds the snapshot document served to the widget.
//
// A snapshot lists the top users by points among those active within a time
// window and not eliminated. Status is "active" when at least one user
// qualifies. Points are rounded to one decimal place.
//
// Components:
//   - UserSource: reads users (Postgres via pgx)
//   - Cache: optional snapshot cache (Redis)
//   - Service: assembles snapshots from the two
package leaderboard
