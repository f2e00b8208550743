package testdb

import "os"

// DatabaseURL returns the PostgreSQL URL for integration tests, or "" when
// none is configured.
func DatabaseURL() string {
	for _, key := range []string{"DATABASE_URL", "NOTEA_TEST_DB_URL"} {
		if url := os.Getenv(key); url != "" {
			return url
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether PostgreSQL integration tests must be
// skipped.
func ShouldSkipDatabaseTest() bool {
	return DatabaseURL() == ""
}
