package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"dbctx/internal/apperror"
	"dbctx/internal/config"
)

const (
	CharacterSet = "utf8mb4"
	Collation    = "utf8mb4_unicode_ci"

	maxDatabaseNameLength = 64
)

var leadingInteger = regexp.MustCompile(`^[+-]?[0-9]+`)

// ProgressWriter receives bytes as they are streamed to the client
type ProgressWriter interface {
	io.Writer
	Finish() error
}

// MySQLClient issues setup commands through the mysql command-line client
type MySQLClient struct {
	runner     Runner
	binary     string
	connection config.Connection
	progress   func(size int64) ProgressWriter
}

// NewMySQLClient creates a client that runs binary through runner
func NewMySQLClient(runner Runner, binary string, conn config.Connection) *MySQLClient {
	return &MySQLClient{runner: runner, binary: binary, connection: conn}
}

// SetImportProgress installs a progress reporter for dump imports
func (c *MySQLClient) SetImportProgress(fn func(size int64) ProgressWriter) {
	c.progress = fn
}

// RecreateDatabase drops name if it exists and creates it again with the
// fixed character set and collation.
func (c *MySQLClient) RecreateDatabase(ctx context.Context, name string) error {
	quoted, err := QuoteIdentifier(name)
	if err != nil {
		return err
	}

	drop := c.command("-e", "DROP DATABASE IF EXISTS "+quoted)
	if _, err := c.run(ctx, drop, fmt.Sprintf("An error occurred while dropping the current testing database '%s'", name)); err != nil {
		return err
	}

	create := c.command("-e", fmt.Sprintf("CREATE DATABASE %s CHARACTER SET = %s COLLATE = %s", quoted, CharacterSet, Collation))
	_, err = c.run(ctx, create, fmt.Sprintf("An error occurred while creating the new testing database '%s'", name))
	return err
}

// ImportDatabase streams the dump at dumpPath into name
func (c *MySQLClient) ImportDatabase(ctx context.Context, dumpPath, name string) error {
	if err := ValidateDatabaseName(name); err != nil {
		return err
	}

	file, err := os.Open(dumpPath)
	if err != nil {
		return apperror.Configuration("pathToSqlDump", fmt.Sprintf("The provided SQL dump '%s' is not readable.", dumpPath))
	}
	defer file.Close()

	var stdin io.Reader = file
	if c.progress != nil {
		if info, err := file.Stat(); err == nil {
			bar := c.progress(info.Size())
			defer bar.Finish()
			stdin = io.TeeReader(file, bar)
		}
	}

	cmd := c.command("--database=" + name)
	cmd.Stdin = stdin
	_, err = c.run(ctx, cmd, fmt.Sprintf("An error occurred while importing the new testing database '%s'", name))
	return err
}

// ExecuteCustomAssertion runs sql against name. The query must print exactly
// one value and that value must be 1.
func (c *MySQLClient) ExecuteCustomAssertion(ctx context.Context, name, sql string) error {
	if err := ValidateDatabaseName(name); err != nil {
		return err
	}

	cmd := c.command("--database="+name, "-N", "-s", "-e", sql)
	output, err := c.run(ctx, cmd, fmt.Sprintf("An error occurred while executing custom assertion '%s'", sql))
	if err != nil {
		return err
	}

	if len(output) != 1 {
		return apperror.AssertionFailure(fmt.Sprintf("Custom assertion '%s' must use 'SELECT COUNT(*) ...'", sql))
	}

	if ParseCount(output[0]) != 1 {
		return apperror.AssertionFailure(fmt.Sprintf("Custom assertion '%s' has failed.", sql))
	}
	return nil
}

func (c *MySQLClient) command(args ...string) Command {
	var base []string
	if c.connection.Host != "" {
		base = append(base, "--host="+c.connection.Host)
	}
	if c.connection.Port != "" {
		base = append(base, "--port="+c.connection.Port)
	}
	if c.connection.User != "" {
		base = append(base, "--user="+c.connection.User)
	}
	if c.connection.Socket != "" {
		base = append(base, "--socket="+c.connection.Socket)
	}

	var env []string
	if c.connection.Password != "" {
		env = append(env, "MYSQL_PWD="+c.connection.Password)
	}

	return Command{Name: c.binary, Args: append(base, args...), Env: env}
}

func (c *MySQLClient) run(ctx context.Context, cmd Command, failure string) ([]string, error) {
	result, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return nil, apperror.ExternalCommand(failure, result.Code, result.Output, err)
	}
	if !result.Success() {
		log.WithFields(log.Fields{"command": cmd.Name, "code": result.Code}).Warn("database client failed")
		return nil, apperror.ExternalCommand(failure, result.Code, result.Output, nil)
	}
	return result.Output, nil
}

// ValidateDatabaseName rejects names MySQL would not accept as a database
func ValidateDatabaseName(name string) error {
	invalid := func(reason string) error {
		return apperror.Configuration("databaseName", fmt.Sprintf("invalid database name '%s': %s", name, reason))
	}

	if name == "" || len(name) > maxDatabaseNameLength {
		return invalid(fmt.Sprintf("must be 1-%d characters", maxDatabaseNameLength))
	}
	if strings.HasSuffix(name, " ") {
		return invalid("must not end with a space")
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return invalid("must not contain '/', '\\', '.' or NUL")
	}
	return nil
}

// QuoteIdentifier validates name and returns it as a backtick-quoted
// identifier.
func QuoteIdentifier(name string) (string, error) {
	if err := ValidateDatabaseName(name); err != nil {
		return "", err
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`", nil
}

// ParseCount reads the leading integer of a query result. Anything that does
// not start with a number counts as 0. Out-of-range values saturate at the
// int64 limits.
func ParseCount(value string) int64 {
	prefix := leadingInteger.FindString(strings.TrimSpace(value))
	if prefix == "" {
		return 0
	}
	n, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return n
}
