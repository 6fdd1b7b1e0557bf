// Package database inspects the testing database through the MySQL driver.
// It never modifies anything; recreating and importing go through the
// command-line client.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"

	"dbctx/internal/command"
	"dbctx/internal/config"
)

const (
	defaultHost = "127.0.0.1"
	defaultPort = "3306"
	defaultUser = "root"
)

// Status describes the testing database as seen by the server
type Status struct {
	Server string
	Exists bool
	Tables int
}

// Manager queries the MySQL server the testing database lives on
type Manager struct {
	connection config.Connection
}

// NewManager creates a new Manager
func NewManager(conn config.Connection) *Manager {
	return &Manager{connection: conn}
}

// DSN returns the server DSN (without a database) for the configured
// connection, falling back to the usual local defaults.
func (m *Manager) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = m.connection.User
	if cfg.User == "" {
		cfg.User = defaultUser
	}
	cfg.Passwd = m.connection.Password
	cfg.Timeout = 5 * time.Second

	if m.connection.Socket != "" {
		cfg.Net = "unix"
		cfg.Addr = m.connection.Socket
	} else {
		host := m.connection.Host
		if host == "" {
			host = defaultHost
		}
		port := m.connection.Port
		if port == "" {
			port = defaultPort
		}
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(host, port)
	}

	return cfg.FormatDSN()
}

// Server returns a printable server address
func (m *Manager) Server() string {
	cfg, err := mysql.ParseDSN(m.DSN())
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s@%s(%s)", cfg.User, cfg.Net, cfg.Addr)
}

// Status connects to the server and reports whether name exists and how many
// tables it holds.
func (m *Manager) Status(ctx context.Context, name string) (Status, error) {
	if err := command.ValidateDatabaseName(name); err != nil {
		return Status{}, err
	}

	status := Status{Server: m.Server()}

	db, err := sql.Open("mysql", m.DSN())
	if err != nil {
		return status, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return status, fmt.Errorf("failed to ping database server: %w", err)
	}

	exists, err := databaseExists(ctx, db, name)
	if err != nil {
		return status, fmt.Errorf("failed to check database %s: %w", name, err)
	}
	status.Exists = exists
	if !exists {
		return status, nil
	}

	tables, err := tableCount(ctx, db, name)
	if err != nil {
		return status, fmt.Errorf("failed to count tables in %s: %w", name, err)
	}
	status.Tables = tables
	return status, nil
}

func databaseExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, name).Scan(&exists)
	return exists, err
}

func tableCount(ctx context.Context, db *sql.DB, name string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ?"
	err := db.QueryRowContext(ctx, query, name).Scan(&count)
	return count, err
}
