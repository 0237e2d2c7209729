package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/notesync/internal/awareness"
	"github.com/iudanet/notesync/internal/client/iocli"
	"github.com/iudanet/notesync/internal/client/replica"
	"github.com/iudanet/notesync/internal/client/storage"
	"github.com/iudanet/notesync/internal/crdt"
	"github.com/iudanet/notesync/internal/models"
)

//go:generate moq -out document_mock.go . Document

// Document is the replica API the commands work with.
type Document interface {
	DocumentID() string
	Actor() string
	Text() string
	Summary() models.VersionVector
	Pending() (inserts, deletes int)
	Insert(index int, text string) ([]models.Operation, error)
	Delete(index, length int) ([]models.Operation, error)
	SetText(text string) ([]models.Operation, error)
	Sync(ctx context.Context) (*replica.SyncResult, error)
	Run(ctx context.Context) error
	LastSync(ctx context.Context) (time.Time, error)
	Subscribe(fn func(crdt.Change)) (unsubscribe func())
	SubscribePresence(fn func(awareness.Event)) (unsubscribe func())
	SetCursor(ctx context.Context, cursor awareness.CursorState) error
	Close()
}

// Opener открывает реплику документа
type Opener func(ctx context.Context, docID string) (Document, error)

// Options общие параметры команд
type Options struct {
	// Name отображаемое имя в присутствии (watch)
	Name string
	// SyncTimeout ограничивает команду sync
	SyncTimeout time.Duration
}

type Cli struct {
	io      iocli.IO
	docs    storage.DocumentStorage
	open    Opener
	options Options
}

func New(io iocli.IO, docs storage.DocumentStorage, open Opener, options Options) *Cli {
	if options.SyncTimeout <= 0 {
		options.SyncTimeout = 10 * time.Second
	}
	return &Cli{
		io:      io,
		docs:    docs,
		open:    open,
		options: options,
	}
}

// withDocument открывает документ на время выполнения fn
func (c *Cli) withDocument(ctx context.Context, docID string, fn func(doc Document) error) error {
	doc, err := c.open(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to open document %q: %w", docID, err)
	}
	defer doc.Close()

	return fn(doc)
}

func PrintUsage() {
	fmt.Println("notesync client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  notesync [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version                    Show version information")
	fmt.Println("  --server URL                 Sync server URL (default: ws://localhost:8080)")
	fmt.Println("  --db PATH                    Path to local database (default: notesync.db)")
	fmt.Println("  --name NAME                  Name shown to other editors (watch)")
	fmt.Println("  --timeout DURATION           Sync timeout (default: 10s)")
	fmt.Println("  --log-level LEVEL            debug, info, warn or error (default: warn)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list                         List local documents")
	fmt.Println("  show <doc>                   Print document text")
	fmt.Println("  status <doc>                 Show replica state")
	fmt.Println("  insert <doc> <index> <text>  Insert text at a character offset")
	fmt.Println("  delete <doc> <index> <count> Delete characters")
	fmt.Println("  set <doc> [text]             Replace the whole text (reads stdin without text)")
	fmt.Println("  sync <doc>                   Exchange changes with the server once")
	fmt.Println("  watch <doc>                  Stay connected and print every change")
	fmt.Println("  remove <doc>                 Delete the local copy of a document")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  notesync insert notes 0 'hello'")
	fmt.Println("  notesync --server wss://notes.example.com sync notes")
	fmt.Println("  notesync --name Alice watch notes")
}
