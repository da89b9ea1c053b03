package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"notchpanel/internal/core/model"
)

const (
	noteExtension  = ".md"
	watchDebounce  = 300 * time.Millisecond
	notesDirectory = "notes"
	minStampDigits = 16
)

// ErrNoteNotFound indicates an unknown note id.
var ErrNoteNotFound = errors.New("note not found")

// FileNotes keeps one Markdown file per note. The file name without extension
// is the durable id. Ids carry a creation stamp so listing is newest created
// first; files written by other tools fall back to their modification time.
type FileNotes struct {
	dir       string
	now       func() time.Time
	mu        sync.Mutex
	lastStamp int64
}

// NewFileNotes stores notes in dir, creating it on first write.
func NewFileNotes(dir string) *FileNotes {
	return &FileNotes{dir: dir, now: time.Now}
}

// DefaultNotesDir returns the notes directory inside a config directory.
func DefaultNotesDir(configDir string) string {
	return filepath.Join(configDir, notesDirectory)
}

// Dir returns the notes directory.
func (notes *FileNotes) Dir() string {
	return notes.dir
}

// List returns every note, newest first.
func (notes *FileNotes) List(ctx context.Context) ([]model.Note, error) {
	notes.mu.Lock()
	defer notes.mu.Unlock()

	entries, err := os.ReadDir(notes.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list notes: %w", err)
	}

	type stamped struct {
		note    model.Note
		created int64
	}
	found := make([]stamped, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != noteExtension {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		content, err := os.ReadFile(filepath.Join(notes.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read note %s: %w", entry.Name(), err)
		}
		id := strings.TrimSuffix(entry.Name(), noteExtension)
		created, ok := creationStamp(id)
		if !ok {
			created = info.ModTime().UnixNano()
		}
		found = append(found, stamped{
			note:    model.Note{ID: id, Content: string(content)},
			created: created,
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].created == found[j].created {
			return found[i].note.ID > found[j].note.ID
		}
		return found[i].created > found[j].created
	})
	result := make([]model.Note, 0, len(found))
	for _, entry := range found {
		result = append(result, entry.note)
	}
	return result, nil
}

// Create writes a new note and returns its id.
func (notes *FileNotes) Create(_ context.Context, content string) (string, error) {
	notes.mu.Lock()
	defer notes.mu.Unlock()

	if err := os.MkdirAll(notes.dir, 0o755); err != nil {
		return "", fmt.Errorf("create notes directory: %w", err)
	}
	stamp := notes.now().UnixNano()
	if stamp <= notes.lastStamp {
		stamp = notes.lastStamp + 1
	}
	notes.lastStamp = stamp
	id := fmt.Sprintf("%d-%s", stamp, uuid.NewString())
	if err := os.WriteFile(notes.path(id), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}
	return id, nil
}

// Update replaces the content of an existing note.
func (notes *FileNotes) Update(_ context.Context, id, content string) error {
	notes.mu.Lock()
	defer notes.mu.Unlock()

	path, err := notes.existing(id)
	if err != nil {
		return fmt.Errorf("update note %s: %w", id, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("update note %s: %w", id, err)
	}
	return nil
}

// Delete removes a note.
func (notes *FileNotes) Delete(_ context.Context, id string) error {
	notes.mu.Lock()
	defer notes.mu.Unlock()

	path, err := notes.existing(id)
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

// Watch calls onChange, debounced, whenever a note file is written, created,
// renamed or removed. It blocks until ctx is done.
func (notes *FileNotes) Watch(ctx context.Context, logger *slog.Logger, onChange func()) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(notes.dir, 0o755); err != nil {
		return fmt.Errorf("create notes directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create notes watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(notes.dir); err != nil {
		return fmt.Errorf("watch notes directory: %w", err)
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != noteExtension {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, onChange)
			timerMu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("notes watcher error", "error", err)
		}
	}
}

// creationStamp reads the nanosecond prefix Create puts in front of the uuid.
func creationStamp(id string) (int64, bool) {
	prefix, _, found := strings.Cut(id, "-")
	if !found || len(prefix) < minStampDigits {
		return 0, false
	}
	stamp, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, false
	}
	return stamp, true
}

func (notes *FileNotes) path(id string) string {
	return filepath.Join(notes.dir, id+noteExtension)
}

func (notes *FileNotes) existing(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id != filepath.Base(id) {
		return "", ErrNoteNotFound
	}
	path := notes.path(id)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoteNotFound
		}
		return "", err
	}
	return path, nil
}
