package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/iudanet/notesync/internal/crdt"
	"github.com/iudanet/notesync/internal/models"
)

func (c *Cli) runInsert(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: notesync insert <doc> <index> <text>")
	}
	index, err := parseCount("index", args[1])
	if err != nil {
		return err
	}

	return c.withDocument(ctx, args[0], func(doc Document) error {
		ops, err := doc.Insert(index, args[2])
		return c.report(ops, err)
	})
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: notesync delete <doc> <index> <count>")
	}
	index, err := parseCount("index", args[1])
	if err != nil {
		return err
	}
	count, err := parseCount("count", args[2])
	if err != nil {
		return err
	}

	return c.withDocument(ctx, args[0], func(doc Document) error {
		ops, err := doc.Delete(index, count)
		return c.report(ops, err)
	})
}

func (c *Cli) runSet(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: notesync set <doc> [text]")
	}

	var text string
	if len(args) == 2 {
		text = args[1]
	} else {
		input, err := c.io.ReadInput("Text: ")
		if err != nil {
			return fmt.Errorf("failed to read text: %w", err)
		}
		text = input
	}

	return c.withDocument(ctx, args[0], func(doc Document) error {
		ops, err := doc.SetText(text)
		return c.report(ops, err)
	})
}

// report печатает результат правки; ошибка диапазона - единственная,
// которую видит пользователь
func (c *Cli) report(ops []models.Operation, err error) error {
	if errors.Is(err, crdt.ErrOutOfRange) {
		return fmt.Errorf("edit rejected: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to apply edit: %w", err)
	}

	if len(ops) == 0 {
		c.io.Println("Nothing changed.")
		return nil
	}
	c.io.Printf("✓ %d operation(s) saved locally. Run 'notesync sync' to share them.\n", len(ops))
	return nil
}

func parseCount(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative number", name, value)
	}
	return n, nil
}
