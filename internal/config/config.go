// Package config binds the CLI flags and PG* environment variables
// the ingest tool needs (spec §6 "Environment"), using
// github.com/spf13/viper the way storj-storj's go.mod pulls it in for
// exactly this kind of layered CLI/env/file configuration.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Connection holds the relational store's connection parameters,
// populated from flags with PG*-prefixed environment fallbacks.
type Connection struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// ConnString renders libpq's key=value DSN form, which lib/pq accepts
// directly in sql.Open.
func (c Connection) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode,
	)
}

// BindConnectionFlags registers the connection flags on fs and binds
// PGHOST/PGPORT/PGDATABASE/PGUSER/PGPASSWORD/PGSSLMODE as their
// environment fallback (spec §6 "Environment").
func BindConnectionFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.String("host", "localhost", "database host")
	fs.Int("port", 5432, "database port")
	fs.String("database", "postgres", "database name")
	fs.String("user", "postgres", "database user")
	fs.String("password", "", "database password")
	fs.String("ssl", "disable", "database sslmode")

	_ = v.BindPFlag("host", fs.Lookup("host"))
	_ = v.BindPFlag("port", fs.Lookup("port"))
	_ = v.BindPFlag("database", fs.Lookup("database"))
	_ = v.BindPFlag("user", fs.Lookup("user"))
	_ = v.BindPFlag("password", fs.Lookup("password"))
	_ = v.BindPFlag("ssl", fs.Lookup("ssl"))

	_ = v.BindEnv("host", "PGHOST")
	_ = v.BindEnv("port", "PGPORT")
	_ = v.BindEnv("database", "PGDATABASE")
	_ = v.BindEnv("user", "PGUSER")
	_ = v.BindEnv("password", "PGPASSWORD")
	_ = v.BindEnv("ssl", "PGSSLMODE")
}

// ConnectionFromViper reads the bound connection settings back out.
func ConnectionFromViper(v *viper.Viper) Connection {
	return Connection{
		Host:     v.GetString("host"),
		Port:     v.GetInt("port"),
		Database: v.GetString("database"),
		User:     v.GetString("user"),
		Password: v.GetString("password"),
		SSLMode:  v.GetString("ssl"),
	}
}
