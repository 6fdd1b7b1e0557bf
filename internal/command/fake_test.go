package command

import (
	"context"
	"io"

	"dbctx/internal/domain"
)

type recordedCommand struct {
	Command
	stdin string
}

// scriptedRunner returns queued results in order and records every command.
type scriptedRunner struct {
	results  []domain.CommandResult
	err      error
	commands []recordedCommand
}

func (s *scriptedRunner) Run(ctx context.Context, cmd Command) (domain.CommandResult, error) {
	rec := recordedCommand{Command: cmd}
	if cmd.Stdin != nil {
		data, _ := io.ReadAll(cmd.Stdin)
		rec.stdin = string(data)
	}
	s.commands = append(s.commands, rec)

	if s.err != nil {
		return domain.CommandResult{Code: -1}, s.err
	}
	if len(s.results) == 0 {
		return domain.CommandResult{}, nil
	}
	result := s.results[0]
	s.results = s.results[1:]
	return result, nil
}
