// Package env defines the environment variables shared by the commands
package env

const (
	// Prefix is the environment variable prefix for all flags
	Prefix = "FXCONVERT"

	// DBURLSuffix is the suffix of the DB connection string variable
	DBURLSuffix = "_DB_URL"
)
