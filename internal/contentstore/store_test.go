package contentstore

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGet(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()

	doc := []byte(`{"sourceId":"front-page","data":{"title":"Hello"}}`)
	if err := store.Put(ctx, "front-page", doc); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "front-page")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("Get = %s, want %s", got, doc)
	}
}

func TestPutReplaces(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()

	if err := store.Put(ctx, "page", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, "page", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Put replace: %v", err)
	}

	got, err := store.Get(ctx, "page")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("Get = %s, want replaced body", got)
	}
}

func TestPutRejectsInvalidJSON(t *testing.T) {
	store := openTemp(t)
	if err := store.Put(context.Background(), "bad", []byte(`{broken`)); err == nil {
		t.Error("Put accepted invalid JSON")
	}
}

func TestGetMissing(t *testing.T) {
	store := openTemp(t)
	if _, err := store.Get(context.Background(), "absent"); err == nil {
		t.Error("Get of missing document succeeded")
	}
}

func TestList(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		if err := store.Put(ctx, id, []byte(`{}`)); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"c", "a", "b"}) {
		t.Errorf("List = %v, want insertion order", ids)
	}
}
