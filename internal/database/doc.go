// Package database provides the PostgreSQL connection pool for the leaderboard API.
//
// The users table is owned by the loyalty points bot; this service only reads it.
package database
