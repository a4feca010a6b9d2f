package storage

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/garmently/garmently/config"
	"github.com/garmently/garmently/constants"
)

// NewPostgresStorage opens a PostgreSQL database through lib/pq.
func NewPostgresStorage(cfg config.Database) (*SQLStorage, error) {
	return newSQLStorage(constants.StorageDriverPostgres, postgresDSN(cfg), cfg)
}

// postgresDSN renders the descriptor back into a lib/pq connection URL.
func postgresDSN(cfg config.Database) string {
	u := url.URL{
		Scheme: "postgres",
		Path:   "/" + cfg.Name,
	}
	q := url.Values{}
	for k, v := range cfg.Options {
		q.Set(k, v)
	}
	switch {
	case strings.HasPrefix(cfg.Host, "/"):
		// Unix socket directory; lib/pq takes it from the query.
		q.Set("host", cfg.Host)
		if cfg.Port != 0 {
			q.Set("port", strconv.Itoa(cfg.Port))
		}
	case cfg.Port != 0:
		u.Host = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	case strings.Contains(cfg.Host, ":"):
		u.Host = "[" + cfg.Host + "]"
	default:
		u.Host = cfg.Host
	}
	switch {
	case cfg.User != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		u.User = url.User(cfg.User)
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
