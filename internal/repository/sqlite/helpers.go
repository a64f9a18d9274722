package sqlite

import (
	"database/sql"
	"time"
)

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// timeToUnix stores times as UTC unix nanoseconds so ordering is exact
func timeToUnix(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func unixToTime(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
