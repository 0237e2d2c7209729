package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/notesync/internal/awareness"
	"github.com/iudanet/notesync/internal/crdt"
)

func (c *Cli) runSync(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: notesync sync <doc>")
	}

	ctx, cancel := context.WithTimeout(ctx, c.options.SyncTimeout)
	defer cancel()

	return c.withDocument(ctx, args[0], func(doc Document) error {
		c.io.Println("=== Synchronization ===")
		c.io.Println()
		c.io.Println("Starting synchronization with server...")

		result, err := doc.Sync(ctx)
		if err != nil {
			return fmt.Errorf("synchronization failed: %w", err)
		}

		c.io.Println()
		c.io.Println("✓ Synchronization completed successfully!")
		c.io.Println()
		c.io.Printf("Sent to server:     %d operation(s)\n", result.Sent)
		c.io.Printf("Received:           %d operation(s)\n", result.Received)
		c.io.Printf("Document length:    %d characters\n", len([]rune(doc.Text())))
		return nil
	})
}

// runWatch держит соединение открытым и печатает текст после каждого изменения
func (c *Cli) runWatch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: notesync watch <doc>")
	}

	return c.withDocument(ctx, args[0], func(doc Document) error {
		c.io.Printf("Watching %q as %s. Press Ctrl+C to stop.\n", doc.DocumentID(), doc.Actor())
		c.io.Println()
		c.printText(doc.Text())

		unsubscribe := doc.Subscribe(func(change crdt.Change) {
			if change.Local {
				return
			}
			c.printText(change.Text)
		})
		defer unsubscribe()

		unsubscribePresence := doc.SubscribePresence(func(event awareness.Event) {
			status := "left"
			if event.State.Online {
				status = "is here"
			}
			c.io.Printf("* %s %s\n", event.PeerID, status)
		})
		defer unsubscribePresence()

		if c.options.Name != "" {
			if err := doc.SetCursor(ctx, awareness.CursorState{Name: c.options.Name, Cursor: len([]rune(doc.Text()))}); err != nil {
				return fmt.Errorf("failed to publish presence: %w", err)
			}
		}

		if err := doc.Run(ctx); err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
		return nil
	})
}

func (c *Cli) printText(text string) {
	c.io.Println("----")
	c.io.Println(text)
}
