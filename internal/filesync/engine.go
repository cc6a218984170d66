// Package filesync reconciles the persistent store against a user-chosen
// snapshot file and keeps the two converged with a debounced write-through.
// The engine never owns data: it reads snapshots to compare and replaces
// the store's collections wholesale only on an explicit resolution.
package filesync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/boazmichaely/JobHuntAI/internal/store"
)

// State is the sync engine's connection state.
type State string

const (
	StateUnconnected    State = "unconnected"
	StateReconciling    State = "reconciling"
	StateConverged      State = "converged"
	StateAwaitingChoice State = "awaiting-choice"
)

// Resolution is the user's answer to a reconciliation conflict.
type Resolution int

const (
	// KeepLocal discards the file's content in favor of in-memory state.
	KeepLocal Resolution = iota
	// ImportFile replaces all three collections with the file's content.
	ImportFile
	// CancelConnect aborts the connection attempt entirely.
	CancelConnect
)

var (
	ErrNotAwaitingChoice = errors.New("no conflict awaiting resolution")
	ErrNotConnected      = errors.New("no sync file connected")
)

// Logger receives diagnostic output from the engine. A nil logger is silent.
type Logger interface {
	Printf(format string, args ...any)
}

// Options configures an Engine.
type Options struct {
	// Debounce is the coalescing window for continuous-sync writes.
	// Zero means the default of one second.
	Debounce time.Duration
	Logger   Logger
	// OnWriteError is invoked when a scheduled write fails. In-memory
	// state stays authoritative and future writes are still attempted.
	OnWriteError func(error)
}

const defaultDebounce = time.Second

// Engine reconciles the store with a connected snapshot file.
type Engine struct {
	store *store.Store

	mu        sync.Mutex
	state     State
	path      string
	live      bool
	debounce  time.Duration
	timer     *time.Timer
	pending   bool
	applying  bool
	fileHash  string // content hash of the file as last read or written
	conflict  Snapshot
	localSide Stats
	fileSide  Stats

	logger       Logger
	onWriteError func(error)
}

// New creates an engine bound to st and subscribes to its commits.
func New(st *store.Store, opts Options) *Engine {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	e := &Engine{
		store:        st,
		state:        StateUnconnected,
		debounce:     debounce,
		logger:       opts.Logger,
		onWriteError: opts.OnWriteError,
	}
	st.OnCommit(e.handleCommit)
	return e
}

// State returns the current connection state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Path returns the connected file path, empty when unconnected.
func (e *Engine) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

// Live reports whether continuous sync was requested for the connection.
func (e *Engine) Live() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live
}

// ConflictStats returns the per-side record counts surfaced while the
// engine is awaiting a user choice.
func (e *Engine) ConflictStats() (local, file Stats) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.localSide, e.fileSide
}

// Connect selects path as the sync target and runs reconciliation.
// live requests continuous sync afterwards; live=false is the one-shot
// import fallback, which runs the identical algorithm but never writes.
func (e *Engine) Connect(path string, live bool) (State, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil && !errors.Is(readErr, os.ErrNotExist) {
		return e.State(), fmt.Errorf("failed to read sync file: %w", readErr)
	}
	snap := ParseSnapshot(data)

	e.mu.Lock()
	e.state = StateReconciling
	e.path = path
	e.live = live
	e.mu.Unlock()

	local, err := e.snapshotFromStore()
	if err != nil {
		e.mu.Lock()
		e.state = StateUnconnected
		e.path = ""
		e.mu.Unlock()
		return StateUnconnected, err
	}

	// Store emptiness is judged by opportunities alone; the file counts
	// as empty only when it carries no records of any kind.
	if len(local.Opportunities) == 0 {
		if snap.IsEmpty() {
			e.mu.Lock()
			e.state = StateConverged
			e.fileHash = hashBytes(data)
			e.mu.Unlock()
			return StateConverged, nil
		}
		if err := e.applySnapshot(snap); err != nil {
			e.mu.Lock()
			e.state = StateUnconnected
			e.path = ""
			e.mu.Unlock()
			return StateUnconnected, err
		}
		e.mu.Lock()
		e.state = StateConverged
		e.fileHash = hashBytes(data)
		e.mu.Unlock()
		e.logf("adopted %d opportunities from %s", len(snap.Opportunities), path)
		return StateConverged, nil
	}

	// Non-empty local state never auto-merges, even when both sides are
	// identical. The user decides.
	e.mu.Lock()
	e.state = StateAwaitingChoice
	e.conflict = snap
	e.localSide = local.Stats()
	e.fileSide = snap.Stats()
	e.fileHash = hashBytes(data)
	e.mu.Unlock()
	return StateAwaitingChoice, nil
}

// Resolve answers a pending conflict. It is only valid in the
// awaiting-choice state.
func (e *Engine) Resolve(choice Resolution) (State, error) {
	e.mu.Lock()
	if e.state != StateAwaitingChoice {
		e.mu.Unlock()
		return e.state, ErrNotAwaitingChoice
	}
	snap := e.conflict
	live := e.live
	e.conflict = Snapshot{}
	e.mu.Unlock()

	switch choice {
	case KeepLocal:
		if !live {
			e.mu.Lock()
			e.state = StateUnconnected
			e.path = ""
			e.mu.Unlock()
			return StateUnconnected, nil
		}
		// Converged means the file is known consistent with memory, so
		// the discarded file content is overwritten right away.
		e.mu.Lock()
		e.state = StateConverged
		e.mu.Unlock()
		if err := e.Flush(); err != nil {
			return StateConverged, err
		}
		return StateConverged, nil
	case ImportFile:
		if err := e.applySnapshot(snap); err != nil {
			e.mu.Lock()
			e.state = StateAwaitingChoice
			e.conflict = snap
			e.mu.Unlock()
			return StateAwaitingChoice, err
		}
		e.mu.Lock()
		e.state = StateConverged
		e.mu.Unlock()
		return StateConverged, nil
	case CancelConnect:
		e.mu.Lock()
		e.state = StateUnconnected
		e.path = ""
		e.live = false
		e.mu.Unlock()
		return StateUnconnected, nil
	default:
		e.mu.Lock()
		e.state = StateAwaitingChoice
		e.conflict = snap
		e.mu.Unlock()
		return StateAwaitingChoice, fmt.Errorf("unknown resolution %d", choice)
	}
}

// Resume re-attaches to a previously converged sync file without running
// reconciliation. Reconciliation happens only on explicit file selection.
func (e *Engine) Resume(path string, live bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateConverged
	e.path = path
	e.live = live
}

// Disconnect drops the connection. In-memory state is untouched.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.pending = false
	e.state = StateUnconnected
	e.path = ""
	e.live = false
}

// Close flushes a pending debounced write and detaches. Called on process
// exit so a burst of edits right before exit still lands in the file.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	pending := e.pending
	e.pending = false
	e.mu.Unlock()
	if pending {
		return e.Flush()
	}
	return nil
}

// handleCommit reacts to a store commit. Writes are only scheduled for a
// live converged connection, and a newer schedule supersedes a pending
// one rather than queueing behind it.
func (e *Engine) handleCommit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.applying || !e.live || e.state != StateConverged {
		return
	}
	e.pending = true
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, func() {
		e.mu.Lock()
		e.pending = false
		e.mu.Unlock()
		if err := e.Flush(); err != nil {
			e.logf("sync write failed: %v", err)
			if e.onWriteError != nil {
				e.onWriteError(err)
			}
		}
	})
}

// Flush writes the full current snapshot to the connected file now.
func (e *Engine) Flush() error {
	e.mu.Lock()
	path := e.path
	e.mu.Unlock()
	if path == "" {
		return ErrNotConnected
	}
	snap, err := e.snapshotFromStore()
	if err != nil {
		return err
	}
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sync file: %w", err)
	}
	e.mu.Lock()
	e.fileHash = hashBytes(data)
	e.mu.Unlock()
	return nil
}

// ExportTo writes a one-shot snapshot to path, regardless of connection
// state. This is the always-available download action.
func (e *Engine) ExportTo(path string) error {
	snap, err := e.snapshotFromStore()
	if err != nil {
		return err
	}
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0644)
}

// Watch observes the connected file for external edits and re-runs
// reconciliation when one lands. The engine's own write-through is
// recognized by content hash and ignored. onChange fires after every
// state transition caused by an external edit; a conflict leaves the
// engine awaiting a Resolve call, exactly as with Connect.
func (e *Engine) Watch(ctx context.Context, onChange func(State)) error {
	e.mu.Lock()
	path := e.path
	live := e.live
	e.mu.Unlock()
	if path == "" || !live {
		return ErrNotConnected
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// The write-through replaces the file by rename, so the directory is
	// watched and events filtered by name.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				continue
			}
			e.mu.Lock()
			echo := hashBytes(data) == e.fileHash
			e.mu.Unlock()
			if echo {
				continue
			}
			e.logf("external change detected in %s", path)
			state, connErr := e.Connect(path, live)
			if connErr != nil {
				e.logf("reconcile after external change failed: %v", connErr)
				continue
			}
			if onChange != nil {
				onChange(state)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logf("watch error: %v", werr)
		}
	}
}

// snapshotFromStore reads all three collections into one snapshot.
func (e *Engine) snapshotFromStore() (Snapshot, error) {
	opps, err := e.store.Opportunities()
	if err != nil {
		return Snapshot{}, err
	}
	acts, err := e.store.Activities()
	if err != nil {
		return Snapshot{}, err
	}
	contacts, err := e.store.Contacts()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Opportunities: opps, Activities: acts, Contacts: contacts}, nil
}

// applySnapshot replaces the store's collections with snap. The applying
// flag keeps the resulting commits from scheduling a write-back: adopting
// or importing file content leaves the connection clean.
func (e *Engine) applySnapshot(snap Snapshot) error {
	e.mu.Lock()
	e.applying = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.applying = false
		e.mu.Unlock()
	}()

	if err := e.store.SetOpportunities(snap.Opportunities); err != nil {
		return err
	}
	if err := e.store.SetContacts(snap.Contacts); err != nil {
		return err
	}
	return e.store.SetActivities(snap.Activities)
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Printf(format, args...)
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Chmod(mode); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
