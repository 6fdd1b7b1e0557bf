package domain

// CommandResult is the outcome of a single database-client invocation
type CommandResult struct {
	Code   int      // Process exit status
	Output []string // Combined stdout/stderr, one entry per line
}

// Success reports whether the command exited with status 0
func (r CommandResult) Success() bool {
	return r.Code == 0
}
