package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"facility/config"
)

// Connection keeps reads on the replica and everything that must observe the latest
// booking state on the primary.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint describes one side of the connection pair.
type Endpoint struct {
	Name     string
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

// URL escapes credentials, so passwords may contain any character.
func (e Endpoint) URL() *url.URL {
	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.DBName,
		RawQuery: url.Values{"sslmode": {e.SSLMode}}.Encode(),
	}
}

func (e Endpoint) DSN() string {
	return e.URL().String()
}

func New(config *config.Config) *Connection {
	return &Connection{
		Read:  connect(config, ReadEndpoint(config)),
		Write: connect(config, WriteEndpoint(config)),
	}
}

// DBName returns the database name with the configured prefix.
func DBName(config *config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

func WriteEndpoint(config *config.Config) Endpoint {
	write := config.DB.Postgres.Write

	return Endpoint{
		Name:     "write",
		Username: write.Username,
		Password: write.Password,
		Host:     write.Host,
		Port:     write.Port,
		DBName:   DBName(config, write.Name),
		SSLMode:  write.SSLMode,
	}
}

func ReadEndpoint(config *config.Config) Endpoint {
	read := config.DB.Postgres.Read

	return Endpoint{
		Name:     "read",
		Username: read.Username,
		Password: read.Password,
		Host:     read.Host,
		Port:     read.Port,
		DBName:   DBName(config, read.Name),
		SSLMode:  read.SSLMode,
	}
}

// Ping checks both sides of the pair.
func (c *Connection) Ping(ctx context.Context) error {
	if c.Write == nil || c.Read == nil {
		return errors.New("database connection not established")
	}

	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("write database unreachable: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("read database unreachable: %w", err)
	}

	return nil
}

func (c *Connection) Close() error {
	var errs []error

	for _, db := range []*sqlx.DB{c.Write, c.Read} {
		if db != nil {
			errs = append(errs, db.Close())
		}
	}

	return errors.Join(errs...)
}

// connect retries until the database accepts connections. It always makes at least one attempt.
func connect(config *config.Config, endpoint Endpoint) *sqlx.DB {
	attempts := max(1, config.DB.Postgres.MaxRetry)

	for attempt := range attempts {
		sqlDB, err := sqlx.Connect("postgres", endpoint.DSN())
		if err == nil {
			log.
				Info().
				Str("name", endpoint.Name).
				Str("host", endpoint.Host).
				Str("port", endpoint.Port).
				Str("dbName", endpoint.DBName).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(config.DB.Postgres.MaxIdleConns)
			sqlDB.SetMaxOpenConns(config.DB.Postgres.MaxOpenConns)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("name", endpoint.Name).
			Str("host", endpoint.Host).
			Str("port", endpoint.Port).
			Str("dbName", endpoint.DBName).
			Int("attempt", attempt+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(config.DB.Postgres.RetryWaitTime) * time.Second)
	}

	log.Fatal().Str("name", endpoint.Name).Msg("Giving up connecting to database")

	return nil
}
