package entity

import (
	"errors"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T, opts ...Option) (*Store[note, notePatch], *memoryPersister) {
	t.Helper()

	persister := &memoryPersister{}
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	store, err := Open[note, notePatch](noteSchema{}, persister, opts...)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return store, persister
}

func TestStore_AddAssignsIDAndDefaults(t *testing.T) {
	store, persister := newTestStore(t)

	created, err := store.Add(note{Title: "  buy milk  "})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an id")
	}
	if created.Title != "buy milk" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected created timestamp")
	}
	if persister.saves != 1 {
		t.Errorf("expected 1 save, got %d", persister.saves)
	}
	if len(persister.records) != 1 || persister.records[0].ID != created.ID {
		t.Errorf("expected persisted record, got %+v", persister.records)
	}
}

func TestStore_AddIgnoresCallerID(t *testing.T) {
	store, _ := newTestStore(t, WithIDGenerator(sequentialIDs("n")))

	created, err := store.Add(note{ID: "mine", Title: "a"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID != "n1" {
		t.Fatalf("expected generated id n1, got %q", created.ID)
	}
}

func TestStore_AddValidationFailure(t *testing.T) {
	store, persister := newTestStore(t)
	notified := 0
	store.Subscribe(func() { notified++ })

	_, err := store.Add(note{Title: "   "})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("expected error to match ErrValidation")
	}
	if verr.Fields["title"] == "" {
		t.Errorf("expected title message, got %v", verr.Fields)
	}
	if store.Len() != 0 || persister.saves != 0 || notified != 0 {
		t.Fatalf("expected no mutation, got len=%d saves=%d notified=%d", store.Len(), persister.saves, notified)
	}
	if store.Version() != 0 {
		t.Errorf("expected version 0, got %d", store.Version())
	}
}

func TestStore_IDsAreNeverReused(t *testing.T) {
	draws := []string{"a", "a", "b", "a", "b", "c"}
	gen := func() string {
		id := draws[0]
		draws = draws[1:]
		return id
	}
	store, _ := newTestStore(t, WithIDGenerator(gen))

	first, err := store.Add(note{Title: "one"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Remove(first.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, err := store.Add(note{Title: "two"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	third, err := store.Add(note{Title: "three"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got := []string{first.ID, second.ID, third.ID}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected ids %v, got %v", want, got)
	}
}

func TestStore_IDsUniqueAcrossInterleavedOperations(t *testing.T) {
	store, _ := newTestStore(t)
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		created, err := store.Add(note{Title: string(rune('a'+i%26)) + string(rune('a'+i/26))})
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		if seen[created.ID] {
			t.Fatalf("id %q issued twice", created.ID)
		}
		seen[created.ID] = true
		if i%3 == 0 {
			if err := store.Remove(created.ID); err != nil {
				t.Fatalf("remove: %v", err)
			}
		}
	}
}

func TestStore_IDGeneratorExhausted(t *testing.T) {
	store, _ := newTestStore(t, WithIDGenerator(func() string { return "same" }))

	if _, err := store.Add(note{Title: "one"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := store.Add(note{Title: "two"})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", store.Len())
	}
}

func TestStore_InsertFront(t *testing.T) {
	store, _ := newTestStore(t, WithInsertFront(), WithIDGenerator(sequentialIDs("n")))

	for _, title := range []string{"first", "second", "third"} {
		if _, err := store.Add(note{Title: title}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if got, want := store.IDs(), []string{"n3", "n2", "n1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	got, err := store.Get("n1")
	if err != nil || got.Title != "first" {
		t.Fatalf("expected index to follow insertion, got %+v, %v", got, err)
	}
}

func TestStore_UpdateMergesPatch(t *testing.T) {
	store, _ := newTestStore(t)
	created, _ := store.Add(note{Title: "draft", Tags: []string{"x"}})

	updated, err := store.Update(created.ID, notePatch{Title: strPtr("final")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "final" {
		t.Errorf("expected title final, got %q", updated.Title)
	}
	if !reflect.DeepEqual(updated.Tags, []string{"x"}) {
		t.Errorf("expected tags kept, got %v", updated.Tags)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("expected id and created timestamp kept, got %+v", updated)
	}
}

func TestStore_UpdateEmptyPatchOnlyTouchesTimestamp(t *testing.T) {
	store, _ := newTestStore(t)
	created, _ := store.Add(note{Title: "same", Tags: []string{"a", "b"}})

	updated, err := store.Update(created.ID, notePatch{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("expected updated timestamp to advance")
	}
	updated.UpdatedAt = created.UpdatedAt
	if !reflect.DeepEqual(updated, created) {
		t.Fatalf("expected unchanged record, got %+v want %+v", updated, created)
	}
}

func TestStore_UpdateRejectsDuplicate(t *testing.T) {
	store, _ := newTestStore(t)
	first, _ := store.Add(note{Title: "one"})
	_, _ = store.Add(note{Title: "two"})

	_, err := store.Update(first.ID, notePatch{Title: strPtr("two")})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, _ := store.Get(first.ID)
	if got.Title != "one" {
		t.Fatalf("expected no partial update, got %q", got.Title)
	}
}

func TestStore_UpdateUnchangedUniqueFieldAllowed(t *testing.T) {
	store, _ := newTestStore(t)
	created, _ := store.Add(note{Title: "one"})

	if _, err := store.Update(created.ID, notePatch{Title: strPtr("one")}); err != nil {
		t.Fatalf("expected update with unchanged title to succeed, got %v", err)
	}
}

func TestStore_NotFound(t *testing.T) {
	store, persister := newTestStore(t)
	created, _ := store.Add(note{Title: "keep"})
	before := store.Snapshot()
	saves := persister.saves

	tests := []struct {
		name string
		run  func() error
	}{
		{"get", func() error { _, err := store.Get("missing"); return err }},
		{"update", func() error { _, err := store.Update("missing", notePatch{}); return err }},
		{"toggle", func() error { _, err := store.Toggle("missing", "done"); return err }},
		{"remove", func() error { return store.Remove("missing") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("expected NotFoundError, got %v", err)
			}
			if nf.ID != "missing" || !errors.Is(err, ErrNotFound) {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}

	if !reflect.DeepEqual(store.Snapshot(), before) {
		t.Fatal("expected collection unchanged")
	}
	if persister.saves != saves {
		t.Fatalf("expected no saves, got %d", persister.saves-saves)
	}
	if _, err := store.Get(created.ID); err != nil {
		t.Fatalf("expected record to remain: %v", err)
	}
}

func TestStore_RemoveTwice(t *testing.T) {
	store, _ := newTestStore(t)
	created, _ := store.Add(note{Title: "gone"})

	if err := store.Remove(created.ID); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := store.Remove(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestStore_Toggle(t *testing.T) {
	store, _ := newTestStore(t)
	created, _ := store.Add(note{Title: "flip"})

	toggled, err := store.Toggle(created.ID, "done")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Done {
		t.Fatal("expected done after toggle")
	}
	toggled, _ = store.Toggle(created.ID, "done")
	if toggled.Done {
		t.Fatal("expected not done after second toggle")
	}

	_, err = store.Toggle(created.ID, "archived")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unknown field, got %v", err)
	}
}

func TestStore_SnapshotIsDefensiveCopy(t *testing.T) {
	store, _ := newTestStore(t)
	created, _ := store.Add(note{Title: "tagged", Tags: []string{"a"}})

	snapshot := store.Snapshot()
	snapshot[0].Title = "mutated"
	snapshot[0].Tags[0] = "mutated"
	created.Tags[0] = "mutated"

	got, _ := store.Get(created.ID)
	if got.Title != "tagged" || got.Tags[0] != "a" {
		t.Fatalf("store state changed through a copy: %+v", got)
	}
}

func TestStore_MutationPersistsThenNotifiesOnce(t *testing.T) {
	store, persister := newTestStore(t)
	var savesAtNotify []int
	store.Subscribe(func() { savesAtNotify = append(savesAtNotify, persister.saves) })

	created, _ := store.Add(note{Title: "a"})
	_, _ = store.Update(created.ID, notePatch{Title: strPtr("b")})
	_, _ = store.Toggle(created.ID, "done")
	_ = store.Remove(created.ID)

	if want := []int{1, 2, 3, 4}; !reflect.DeepEqual(savesAtNotify, want) {
		t.Fatalf("expected one save before each notification %v, got %v", want, savesAtNotify)
	}
	if store.Version() != 4 {
		t.Fatalf("expected version 4, got %d", store.Version())
	}
}

func TestStore_ObserverCanReadAndMutate(t *testing.T) {
	store, _ := newTestStore(t)
	var seen []int
	store.Subscribe(func() {
		seen = append(seen, len(store.Snapshot()))
		if len(seen) == 1 {
			if _, err := store.Add(note{Title: "from observer"}); err != nil {
				t.Errorf("add from observer: %v", err)
			}
		}
	})

	if _, err := store.Add(note{Title: "first"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if want := []int{1, 2}; !reflect.DeepEqual(seen, want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
}

func TestStore_PersistenceFailureKeepsMutation(t *testing.T) {
	store, persister := newTestStore(t)
	persister.saveErr = errDiskFull
	notified := 0
	store.Subscribe(func() { notified++ })

	created, err := store.Add(note{Title: "fragile"})
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if !errors.Is(err, errDiskFull) || !errors.Is(err, ErrPersistence) || !IsDurabilityWarning(err) {
		t.Fatalf("expected wrapped disk error, got %v", err)
	}
	if created.ID == "" || store.Len() != 1 {
		t.Fatalf("expected mutation applied in memory, got %+v len=%d", created, store.Len())
	}
	if notified != 1 {
		t.Fatalf("expected observers notified, got %d", notified)
	}

	_, err = store.Add(note{Title: "fragile 2"})
	if !errors.As(err, &perr) || perr.Failures != 2 {
		t.Fatalf("expected 2 consecutive failures, got %v", err)
	}
	if status := store.Durability(); status.Failures != 2 || !errors.Is(status.LastError, errDiskFull) {
		t.Fatalf("unexpected durability status %+v", status)
	}

	persister.saveErr = nil
	if _, err := store.Add(note{Title: "fine"}); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if status := store.Durability(); status.Failures != 0 || status.LastError != nil {
		t.Fatalf("expected healthy durability, got %+v", status)
	}
	if len(persister.records) != 3 {
		t.Fatalf("expected full collection persisted after recovery, got %d", len(persister.records))
	}
}

func TestOpen_LoadsPersistedRecords(t *testing.T) {
	persister := &memoryPersister{records: []note{{ID: "a", Title: "one"}, {ID: "b", Title: "two"}}}
	store, err := Open[note, notePatch](noteSchema{}, persister, WithIDGenerator(sequentialIDs("")))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := store.IDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected loaded ids, got %v", got)
	}
	if _, err := store.Get("b"); err != nil {
		t.Fatalf("get loaded record: %v", err)
	}
}

func TestOpen_LoadFailure(t *testing.T) {
	persister := &memoryPersister{loadErr: errDiskFull}
	_, err := Open[note, notePatch](noteSchema{}, persister)
	var perr *PersistenceError
	if !errors.As(err, &perr) || perr.Op != "load" {
		t.Fatalf("expected load PersistenceError, got %v", err)
	}
	if IsDurabilityWarning(err) {
		t.Fatal("load failures are not durability warnings")
	}
}

func TestOpen_DuplicateIDs(t *testing.T) {
	persister := &memoryPersister{records: []note{{ID: "a", Title: "one"}, {ID: "a", Title: "two"}}}
	_, err := Open[note, notePatch](noteSchema{}, persister)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestOpen_NilPersister(t *testing.T) {
	store, err := Open[note, notePatch](noteSchema{}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Add(note{Title: "ephemeral"}); err != nil {
		t.Fatalf("add: %v", err)
	}
}

func TestStore_ValidateIsSpeculative(t *testing.T) {
	store, persister := newTestStore(t)
	created, _ := store.Add(note{Title: "taken"})

	if errs := store.Validate(note{Title: "taken"}); errs["title"] == "" {
		t.Fatalf("expected duplicate title error, got %v", errs)
	}
	if errs := store.Validate(note{Title: "free"}); !errs.Empty() {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs, err := store.ValidateUpdate(created.ID, notePatch{Title: strPtr("")})
	if err != nil || errs["title"] == "" {
		t.Fatalf("expected required error, got %v, %v", errs, err)
	}
	if _, err := store.ValidateUpdate("missing", notePatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if store.Len() != 1 || persister.saves != 1 || store.Version() != 1 {
		t.Fatal("expected validation to leave the store untouched")
	}
}

func TestStore_Close(t *testing.T) {
	store, _ := newTestStore(t)
	created, _ := store.Add(note{Title: "kept"})
	notified := 0
	store.Subscribe(func() { notified++ })

	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := store.Add(note{Title: "late"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := store.Get(created.ID); err != nil {
		t.Fatalf("expected reads after close, got %v", err)
	}
	if notified != 0 {
		t.Fatalf("expected no notifications, got %d", notified)
	}
}

func TestStore_IndependentInstances(t *testing.T) {
	a, _ := newTestStore(t)
	b, _ := newTestStore(t)

	if _, err := a.Add(note{Title: "only in a"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("expected stores to be independent, b has %d records", b.Len())
	}
}
