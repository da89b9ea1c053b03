// Package notes keeps a local, optimistically edited copy of the external
// notes store and reconciles it by wholesale refresh.
package notes

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"notchpanel/internal/core/loop"
	"notchpanel/internal/core/model"
)

// Store is the external source of truth.
type Store interface {
	List(ctx context.Context) ([]model.Note, error)
	Create(ctx context.Context, content string) (string, error)
	Update(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// Hooks are optional callbacks run on the owning goroutine.
type Hooks struct {
	OnShow   func()
	OnChange func()
}

// Options configure a Reconciler.
type Options struct {
	Context context.Context
	Logger  *slog.Logger
	// Run executes blocking store calls off the owning goroutine. Defaults to
	// starting a goroutine per call.
	Run func(job func())
}

// pendingNote tracks operations issued against a note whose create call has
// not returned yet.
type pendingNote struct {
	content *string
	deleted bool
}

// Reconciler owns the local notes list. Methods run on the owning goroutine.
type Reconciler struct {
	store  Store
	post   loop.Poster
	hooks  Hooks
	ctx    context.Context
	logger *slog.Logger
	run    func(func())

	notes    []model.Note
	pending  map[string]*pendingNote
	// remapped holds notes whose create resolved, keyed by durable id, with
	// the last refresh sequence issued before the remap. Refreshes at or
	// below that sequence may predate the create.
	remapped   map[string]uint64
	inflight   int
	refreshSeq uint64
	appliedSeq uint64
}

// New creates a reconciler with an empty list. Call Refresh to load it.
func New(store Store, post loop.Poster, hooks Hooks, options Options) *Reconciler {
	if options.Context == nil {
		options.Context = context.Background()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Run == nil {
		options.Run = func(job func()) { go job() }
	}
	return &Reconciler{
		store:   store,
		post:    post,
		hooks:   hooks,
		ctx:     options.Context,
		logger:  options.Logger,
		run:     options.Run,
		pending:  make(map[string]*pendingNote),
		remapped: make(map[string]uint64),
	}
}

// Notes returns a copy of the local list, newest first.
func (reconciler *Reconciler) Notes() []model.Note {
	return append([]model.Note(nil), reconciler.notes...)
}

// Syncing reports whether a refresh is in flight.
func (reconciler *Reconciler) Syncing() bool {
	return reconciler.inflight > 0
}

// Refresh fetches the full external list and replaces the local one.
// Results of a refresh started before the last applied one are discarded.
func (reconciler *Reconciler) Refresh() {
	reconciler.refreshSeq++
	seq := reconciler.refreshSeq
	reconciler.inflight++
	reconciler.changed()

	reconciler.run(func() {
		fetched, err := reconciler.store.List(reconciler.ctx)
		reconciler.post.Post(func() {
			reconciler.inflight--
			switch {
			case err != nil:
				reconciler.logger.Debug("notes refresh failed", "error", err)
			case seq > reconciler.appliedSeq:
				reconciler.appliedSeq = seq
				reconciler.replace(fetched, seq)
			}
			reconciler.changed()
		})
	})
}

// Add inserts a placeholder note at the top and creates it externally.
// It returns the temporary id.
func (reconciler *Reconciler) Add(content string) string {
	tempID := model.TempNotePrefix + uuid.NewString()
	reconciler.notes = append([]model.Note{{ID: tempID, Content: content}}, reconciler.notes...)
	reconciler.pending[tempID] = &pendingNote{}
	if reconciler.hooks.OnShow != nil {
		reconciler.hooks.OnShow()
	}
	reconciler.changed()

	reconciler.run(func() {
		id, err := reconciler.store.Create(reconciler.ctx, content)
		reconciler.post.Post(func() {
			reconciler.resolveCreate(tempID, id, err)
		})
	})
	return tempID
}

// Delete removes the note at index locally and externally.
func (reconciler *Reconciler) Delete(index int) {
	if index < 0 || index >= len(reconciler.notes) {
		return
	}
	note := reconciler.notes[index]
	reconciler.notes = append(reconciler.notes[:index], reconciler.notes[index+1:]...)
	delete(reconciler.remapped, note.ID)
	reconciler.changed()

	if pending, ok := reconciler.pending[note.ID]; ok {
		pending.deleted = true
		return
	}
	reconciler.deleteExternal(note.ID)
}

// Save updates the note at index. Edits to a note still being created are
// queued until its durable id is known.
func (reconciler *Reconciler) Save(index int, content string) {
	if index < 0 || index >= len(reconciler.notes) {
		return
	}
	note := reconciler.notes[index]
	reconciler.notes[index].Content = content
	reconciler.changed()

	if pending, ok := reconciler.pending[note.ID]; ok {
		pending.content = &content
		return
	}
	reconciler.updateExternal(note.ID, content)
}

func (reconciler *Reconciler) resolveCreate(tempID, id string, err error) {
	pending := reconciler.pending[tempID]
	delete(reconciler.pending, tempID)

	if err != nil {
		reconciler.logger.Debug("note create failed", "error", err)
		reconciler.Refresh()
		return
	}

	for index := range reconciler.notes {
		if reconciler.notes[index].ID == tempID {
			reconciler.notes[index].ID = id
			if pending == nil || !pending.deleted {
				reconciler.remapped[id] = reconciler.refreshSeq
			}
		}
	}

	switch {
	case pending != nil && pending.deleted:
		reconciler.deleteExternal(id)
	case pending != nil && pending.content != nil:
		reconciler.updateExternal(id, *pending.content)
	default:
		reconciler.Refresh()
	}
}

func (reconciler *Reconciler) deleteExternal(id string) {
	reconciler.run(func() {
		err := reconciler.store.Delete(reconciler.ctx, id)
		reconciler.post.Post(func() {
			if err != nil {
				reconciler.logger.Debug("note delete failed", "id", id, "error", err)
			}
			reconciler.Refresh()
		})
	})
}

func (reconciler *Reconciler) updateExternal(id, content string) {
	reconciler.run(func() {
		err := reconciler.store.Update(reconciler.ctx, id, content)
		reconciler.post.Post(func() {
			if err != nil {
				reconciler.logger.Debug("note update failed", "id", id, "error", err)
			}
			reconciler.Refresh()
		})
	})
}

// replace swaps in the fetched list, keeping placeholders whose create is
// still outstanding on top. Freshly created notes missing from a refresh
// that started before their create resolved are kept as well.
func (reconciler *Reconciler) replace(fetched []model.Note, seq uint64) {
	listed := make(map[string]bool, len(fetched))
	for _, note := range fetched {
		listed[note.ID] = true
	}

	next := make([]model.Note, 0, len(fetched)+len(reconciler.pending)+len(reconciler.remapped))
	for _, note := range reconciler.notes {
		if pending, ok := reconciler.pending[note.ID]; ok && !pending.deleted {
			next = append(next, note)
			continue
		}
		barrier, ok := reconciler.remapped[note.ID]
		if !ok {
			continue
		}
		if seq > barrier {
			delete(reconciler.remapped, note.ID)
			continue
		}
		if !listed[note.ID] {
			next = append(next, note)
		}
	}
	reconciler.notes = append(next, fetched...)
}

func (reconciler *Reconciler) changed() {
	if reconciler.hooks.OnChange != nil {
		reconciler.hooks.OnChange()
	}
}
