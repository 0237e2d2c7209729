package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/iudanet/notesync/internal/client/storage"
)

func (c *Cli) runList(ctx context.Context) error {
	ids, err := c.docs.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(ids) == 0 {
		c.io.Println("No documents yet.")
		return nil
	}

	for _, id := range ids {
		c.io.Println(id)
	}
	return nil
}

func (c *Cli) runShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: notesync show <doc>")
	}

	return c.withDocument(ctx, args[0], func(doc Document) error {
		text := doc.Text()
		if _, err := c.io.Write([]byte(text)); err != nil {
			return err
		}
		if !strings.HasSuffix(text, "\n") {
			c.io.Println()
		}
		return nil
	})
}

func (c *Cli) runStatus(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: notesync status <doc>")
	}

	return c.withDocument(ctx, args[0], func(doc Document) error {
		c.io.Println("=== Document Status ===")
		c.io.Println()
		c.io.Printf("Document:   %s\n", doc.DocumentID())
		c.io.Printf("Replica:    %s\n", doc.Actor())
		c.io.Printf("Length:     %d characters\n", len([]rune(doc.Text())))

		summary := doc.Summary()
		actors := make([]string, 0, len(summary))
		for actor := range summary {
			actors = append(actors, actor)
		}
		slices.Sort(actors)

		c.io.Println("Operations:")
		if len(actors) == 0 {
			c.io.Println("  none")
		}
		for _, actor := range actors {
			c.io.Printf("  %s: %d\n", actor, summary[actor])
		}

		inserts, deletes := doc.Pending()
		if inserts+deletes > 0 {
			c.io.Printf("Waiting for dependencies: %d insert(s), %d delete(s)\n", inserts, deletes)
		}

		last, err := doc.LastSync(ctx)
		switch {
		case err != nil:
			// Не прерываем выполнение
			c.io.Printf("Warning: failed to get last sync time: %v\n", err)
		case last.IsZero():
			c.io.Println("Last sync:  never")
		default:
			c.io.Printf("Last sync:  %s\n", last.Format("2006-01-02 15:04:05"))
		}
		return nil
	})
}

func (c *Cli) runRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: notesync remove <doc>")
	}

	if err := c.docs.DeleteDocument(ctx, args[0]); err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			return fmt.Errorf("document %q not found", args[0])
		}
		return fmt.Errorf("failed to remove document: %w", err)
	}

	c.io.Printf("Local copy of %q removed.\n", args[0])
	return nil
}
