package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду; args начинаются с имени команды
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command")
	}

	command, rest := args[0], args[1:]

	switch command {
	case "list":
		return c.runList(ctx)
	case "show":
		return c.runShow(ctx, rest)
	case "status":
		return c.runStatus(ctx, rest)
	case "insert":
		return c.runInsert(ctx, rest)
	case "delete":
		return c.runDelete(ctx, rest)
	case "set":
		return c.runSet(ctx, rest)
	case "sync":
		return c.runSync(ctx, rest)
	case "watch":
		return c.runWatch(ctx, rest)
	case "remove":
		return c.runRemove(ctx, rest)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}
