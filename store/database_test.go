package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	kvstore "github.com/onlyati/kvstore"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New("root")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return db
}

func TestSetGetRoundTrip(t *testing.T) {
	db := newTestDB(t)
	if err := db.Set("/root/network", "ok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := db.Get("/root/network")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.Kind != Record || v.Record != "ok" {
		t.Fatalf("Get = %+v", v)
	}
}

func TestSetOverwrite(t *testing.T) {
	db := newTestDB(t)
	_ = db.Set("/root/k", "v1")
	_ = db.Set("/root/k", "v2")
	v, err := db.Get("/root/k")
	if err != nil || v.Record != "v2" {
		t.Fatalf("Get after overwrite = %+v, %v", v, err)
	}
}

func TestDeleteKey(t *testing.T) {
	db := newTestDB(t)
	_ = db.Set("/root/k", "v")
	if err := db.DeleteKey("/root/k"); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	if _, err := db.Get("/root/k"); err == nil {
		t.Fatalf("expected error getting deleted key")
	}
}

func TestDeleteTableDropsSubtree(t *testing.T) {
	db := newTestDB(t)
	_ = db.Set("/root/status/sub1", "a")
	_ = db.Set("/root/status/sub2", "b")
	_ = db.Set("/root/node_name", "n1")

	if err := db.DeleteTable("/root/status"); err != nil {
		t.Fatalf("DeleteTable: %v", err)
	}
	if _, err := db.Get("/root/status/sub1"); err == nil {
		t.Fatalf("expected descendant to be gone")
	}
	entries, err := db.ListKeys("/root", All)
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	want := []ListEntry{{Path: "/root/node_name", Kind: Record}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("ListKeys mismatch (-want +got):\n%s", diff)
	}
}

func TestListKeysAllOrder(t *testing.T) {
	db := newTestDB(t)
	_ = db.Set("/root/status/sub1", "a")
	_ = db.Set("/root/status/sub2", "b")
	_ = db.Set("/root/node_name", "n1")

	entries, err := db.ListKeys("/root", All)
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	want := []ListEntry{
		{Path: "/root/node_name", Kind: Record},
		{Path: "/root/status/sub1", Kind: Record},
		{Path: "/root/status/sub2", Kind: Record},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("ListKeys mismatch (-want +got):\n%s", diff)
	}
}

func TestListKeysOneLevelSkipsSubtables(t *testing.T) {
	db := newTestDB(t)
	_ = db.Set("/root/status/sub1", "a")
	_ = db.Set("/root/node_name", "n1")

	entries, err := db.ListKeys("/root", OneLevel)
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	want := []ListEntry{{Path: "/root/node_name", Kind: Record}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("ListKeys mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidRootRejected(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Get("/other/k")
	var keyErr *kvstore.InvalidKeyError
	if !errors.As(err, &keyErr) {
		t.Fatalf("Get with wrong root = %v, want InvalidKeyError", err)
	}
}

func TestKeyMustStartWithSlash(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Get("root/k")
	if err == nil {
		t.Fatalf("expected error for key without leading slash")
	}
}
