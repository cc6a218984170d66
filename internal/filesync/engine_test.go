package filesync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boazmichaely/JobHuntAI/internal/store"
	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

func newTestEngine(t *testing.T, opts Options) (*Engine, *store.Store) {
	t.Helper()
	st, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	e := New(st, opts)
	t.Cleanup(func() { e.Close() })
	return e, st
}

func writeSnapshotFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func seedOpportunity(t *testing.T, st *store.Store, id, company string) {
	t.Helper()
	opps, err := st.Opportunities()
	if err != nil {
		t.Fatalf("Opportunities: %v", err)
	}
	opps = append(opps, models.Opportunity{
		ID: id, Company: company, Position: "Engineer",
		Status: models.StatusIdentified, CreatedAt: models.Now(), UpdatedAt: models.Now(),
	})
	if err := st.SetOpportunities(opps); err != nil {
		t.Fatalf("SetOpportunities: %v", err)
	}
}

func TestConnectEmptyStoreAdoptsFile(t *testing.T) {
	e, st := newTestEngine(t, Options{})
	path := filepath.Join(t.TempDir(), "jobs.json")
	writeSnapshotFile(t, path, `{"opportunities":[{"id":"o1","company":"Acme","position":"SRE"}]}`)

	state, err := e.Connect(path, true)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if state != StateConverged {
		t.Fatalf("expected converged, got %s", state)
	}

	opps, err := st.Opportunities()
	if err != nil {
		t.Fatalf("Opportunities: %v", err)
	}
	if len(opps) != 1 || opps[0].ID != "o1" || opps[0].Company != "Acme" {
		t.Errorf("file not adopted: %+v", opps)
	}
}

func TestConnectAdoptionDoesNotWriteBack(t *testing.T) {
	e, _ := newTestEngine(t, Options{Debounce: 10 * time.Millisecond})
	path := filepath.Join(t.TempDir(), "jobs.json")
	original := `{"opportunities":[{"id":"o1","company":"Acme","position":"SRE"}]}`
	writeSnapshotFile(t, path, original)

	if _, err := e.Connect(path, true); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	// A connection that merely adopted file content is already clean;
	// the commits from applying it must not schedule a write.
	time.Sleep(100 * time.Millisecond)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != original {
		t.Errorf("file was rewritten after adoption:\n%s", data)
	}
}

func TestConnectEmptyBothSidesConverges(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	path := filepath.Join(t.TempDir(), "jobs.json")

	// Missing file counts as empty.
	state, err := e.Connect(path, true)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if state != StateConverged {
		t.Errorf("expected converged for missing file, got %s", state)
	}
}

func TestConnectContactsOnlyFileStillAdopts(t *testing.T) {
	e, st := newTestEngine(t, Options{})
	path := filepath.Join(t.TempDir(), "jobs.json")
	writeSnapshotFile(t, path, `{"contacts":[{"id":"c1","name":"Sarah"}]}`)

	state, err := e.Connect(path, false)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if state != StateConverged {
		t.Fatalf("expected converged, got %s", state)
	}
	contacts, err := st.Contacts()
	if err != nil {
		t.Fatalf("Contacts: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Name != "Sarah" {
		t.Errorf("contacts-only file not adopted: %+v", contacts)
	}
}

func TestConnectNonEmptyStoreAlwaysConflicts(t *testing.T) {
	e, st := newTestEngine(t, Options{})
	seedOpportunity(t, st, "o1", "Acme")

	path := filepath.Join(t.TempDir(), "jobs.json")
	writeSnapshotFile(t, path, `{
		"opportunities":[{"id":"o2","company":"Globex","position":"Dev"}],
		"activities":[{"id":"a1","opportunityId":"o2","title":"Intro","type":"Other","date":"2026-01-05"}]
	}`)

	state, err := e.Connect(path, true)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if state != StateAwaitingChoice {
		t.Fatalf("expected awaiting-choice, got %s", state)
	}

	local, file := e.ConflictStats()
	if local.Opportunities != 1 || local.Activities != 0 {
		t.Errorf("unexpected local stats: %+v", local)
	}
	if file.Opportunities != 1 || file.Activities != 1 {
		t.Errorf("unexpected file stats: %+v", file)
	}

	// Nothing applied while the choice is pending.
	opps, _ := st.Opportunities()
	if len(opps) != 1 || opps[0].Company != "Acme" {
		t.Errorf("store changed before resolution: %+v", opps)
	}
}

func TestConnectIdenticalContentStillConflicts(t *testing.T) {
	e, st := newTestEngine(t, Options{})
	seedOpportunity(t, st, "o1", "Acme")

	snap, err := (&Engine{store: st}).snapshotFromStore()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	data, err := EncodeSnapshot(snap)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	path := filepath.Join(t.TempDir(), "jobs.json")
	writeSnapshotFile(t, path, string(data))

	state, err := e.Connect(path, true)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if state != StateAwaitingChoice {
		t.Errorf("identical content must still prompt, got %s", state)
	}
}

func TestResolveImportFileReplacesStore(t *testing.T) {
	e, st := newTestEngine(t, Options{})
	seedOpportunity(t, st, "o1", "Acme")

	path := filepath.Join(t.TempDir(), "jobs.json")
	writeSnapshotFile(t, path, `{"opportunities":[{"id":"o2","company":"Globex","position":"Dev"}]}`)

	if _, err := e.Connect(path, true); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	state, err := e.Resolve(ImportFile)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if state != StateConverged {
		t.Fatalf("expected converged, got %s", state)
	}

	opps, _ := st.Opportunities()
	if len(opps) != 1 || opps[0].ID != "o2" {
		t.Errorf("import did not replace local data: %+v", opps)
	}
}

func TestResolveKeepLocalLiveOverwritesFile(t *testing.T) {
	e, st := newTestEngine(t, Options{})
	seedOpportunity(t, st, "o1", "Acme")

	path := filepath.Join(t.TempDir(), "jobs.json")
	writeSnapshotFile(t, path, `{"opportunities":[{"id":"o2","company":"Globex","position":"Dev"}]}`)

	if _, err := e.Connect(path, true); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	state, err := e.Resolve(KeepLocal)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if state != StateConverged {
		t.Fatalf("expected converged, got %s", state)
	}

	// Local data untouched, file rewritten from local.
	opps, _ := st.Opportunities()
	if len(opps) != 1 || opps[0].ID != "o1" {
		t.Errorf("keep-local changed the store: %+v", opps)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	snap := ParseSnapshot(data)
	if len(snap.Opportunities) != 1 || snap.Opportunities[0].ID != "o1" {
		t.Errorf("file not overwritten with local data: %+v", snap.Opportunities)
	}
}

func TestResolveKeepLocalOneShotDisconnects(t *testing.T) {
	e, st := newTestEngine(t, Options{})
	seedOpportunity(t, st, "o1", "Acme")

	path := filepath.Join(t.TempDir(), "jobs.json")
	content := `{"opportunities":[{"id":"o2","company":"Globex","position":"Dev"}]}`
	writeSnapshotFile(t, path, content)

	if _, err := e.Connect(path, false); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	state, err := e.Resolve(KeepLocal)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if state != StateUnconnected {
		t.Errorf("one-shot keep-local should end unconnected, got %s", state)
	}
	if e.Path() != "" {
		t.Errorf("path should be cleared, got %q", e.Path())
	}

	// One-shot mode never writes.
	data, _ := os.ReadFile(path)
	if string(data) != content {
		t.Errorf("one-shot keep-local rewrote the file:\n%s", data)
	}
}

func TestResolveCancelLeavesEverythingUntouched(t *testing.T) {
	e, st := newTestEngine(t, Options{})
	seedOpportunity(t, st, "o1", "Acme")

	path := filepath.Join(t.TempDir(), "jobs.json")
	content := `{"opportunities":[{"id":"o2","company":"Globex","position":"Dev"}]}`
	writeSnapshotFile(t, path, content)

	if _, err := e.Connect(path, true); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	state, err := e.Resolve(CancelConnect)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if state != StateUnconnected {
		t.Errorf("expected unconnected, got %s", state)
	}

	opps, _ := st.Opportunities()
	if len(opps) != 1 || opps[0].ID != "o1" {
		t.Errorf("cancel changed the store: %+v", opps)
	}
	data, _ := os.ReadFile(path)
	if string(data) != content {
		t.Errorf("cancel changed the file:\n%s", data)
	}
}

func TestResolveOutsideConflictErrors(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	if _, err := e.Resolve(KeepLocal); err != ErrNotAwaitingChoice {
		t.Errorf("expected ErrNotAwaitingChoice, got %v", err)
	}
}

func TestDebouncedWriteThroughCoalesces(t *testing.T) {
	e, st := newTestEngine(t, Options{Debounce: 50 * time.Millisecond})
	path := filepath.Join(t.TempDir(), "jobs.json")

	if _, err := e.Connect(path, true); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	// Three rapid commits inside one window land as the final state.
	seedOpportunity(t, st, "o1", "Acme")
	seedOpportunity(t, st, "o2", "Globex")
	seedOpportunity(t, st, "o3", "Initech")

	time.Sleep(300 * time.Millisecond)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file never written: %v", err)
	}
	snap := ParseSnapshot(data)
	if len(snap.Opportunities) != 3 {
		t.Errorf("expected full final state in file, got %d opportunities", len(snap.Opportunities))
	}
}

func TestCloseFlushesPendingWrite(t *testing.T) {
	e, st := newTestEngine(t, Options{Debounce: 10 * time.Second})
	path := filepath.Join(t.TempDir(), "jobs.json")

	if _, err := e.Connect(path, true); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	seedOpportunity(t, st, "o1", "Acme")

	// Debounce window is far away; Close must not lose the edit.
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("pending write lost on close: %v", err)
	}
	snap := ParseSnapshot(data)
	if len(snap.Opportunities) != 1 {
		t.Errorf("expected flushed state, got %+v", snap)
	}
}

func TestWriteFailureIsSurfacedNotFatal(t *testing.T) {
	errs := make(chan error, 1)
	e, st := newTestEngine(t, Options{
		Debounce:     10 * time.Millisecond,
		OnWriteError: func(err error) { errs <- err },
	})

	dir := filepath.Join(t.TempDir(), "gone")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	path := filepath.Join(dir, "jobs.json")

	if _, err := e.Connect(path, true); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	// Yank the directory so the next write-through fails.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	seedOpportunity(t, st, "o1", "Acme")

	select {
	case <-errs:
	case <-time.After(2 * time.Second):
		t.Fatal("write error never surfaced")
	}

	// In-memory state stays authoritative.
	opps, err := st.Opportunities()
	if err != nil {
		t.Fatalf("Opportunities: %v", err)
	}
	if len(opps) != 1 {
		t.Errorf("store lost data after write failure: %+v", opps)
	}
}

func TestNoWritesWhenNotLive(t *testing.T) {
	e, st := newTestEngine(t, Options{Debounce: 10 * time.Millisecond})
	path := filepath.Join(t.TempDir(), "jobs.json")

	if _, err := e.Connect(path, false); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	seedOpportunity(t, st, "o1", "Acme")

	time.Sleep(100 * time.Millisecond)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("one-shot connection must not write, stat err = %v", err)
	}
}

func TestExportTo(t *testing.T) {
	e, st := newTestEngine(t, Options{})
	seedOpportunity(t, st, "o1", "Acme")

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := e.ExportTo(path); err != nil {
		t.Fatalf("ExportTo: %v", err)
	}

	snap := ParseSnapshot(readFile(t, path))
	if len(snap.Opportunities) != 1 || snap.Opportunities[0].Company != "Acme" {
		t.Errorf("unexpected export content: %+v", snap)
	}
}

func TestResumeSkipsReconciliation(t *testing.T) {
	e, st := newTestEngine(t, Options{})
	seedOpportunity(t, st, "o1", "Acme")

	path := filepath.Join(t.TempDir(), "jobs.json")
	writeSnapshotFile(t, path, `{"opportunities":[{"id":"o2","company":"Globex","position":"Dev"}]}`)

	e.Resume(path, true)
	if e.State() != StateConverged {
		t.Errorf("resume should report converged, got %s", e.State())
	}

	// No adoption, no conflict: the store is untouched.
	opps, _ := st.Opportunities()
	if len(opps) != 1 || opps[0].ID != "o1" {
		t.Errorf("resume must not reconcile: %+v", opps)
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile %s: %v", path, err)
	}
	return data
}
