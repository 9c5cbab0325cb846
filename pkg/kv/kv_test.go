package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		is := is.New(t)
		_, err := s.Get(ctx, "tasks")
		is.Equal(err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		is := is.New(t)
		is.NoErr(s.Set(ctx, "tasks", []byte(`[1]`)))
		got, err := s.Get(ctx, "tasks")
		is.NoErr(err)
		is.Equal(string(got), `[1]`)
	})

	t.Run("set overwrites", func(t *testing.T) {
		is := is.New(t)
		is.NoErr(s.Set(ctx, "tasks", []byte(`[1,2]`)))
		is.NoErr(s.Set(ctx, "tasks", []byte(`[]`)))
		got, err := s.Get(ctx, "tasks")
		is.NoErr(err)
		is.Equal(string(got), `[]`)
	})

	t.Run("keys are independent", func(t *testing.T) {
		is := is.New(t)
		is.NoErr(s.Set(ctx, "other", []byte(`x`)))
		got, err := s.Get(ctx, "tasks")
		is.NoErr(err)
		is.Equal(string(got), `[]`)
	})
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	testStore(t, s)

	t.Run("values are copied", func(t *testing.T) {
		is := is.New(t)
		v := []byte("abc")
		is.NoErr(s.Set(context.Background(), "k", v))
		v[0] = 'z'
		got, _ := s.Get(context.Background(), "k")
		is.Equal(string(got), "abc")
	})
}

func TestFile(t *testing.T) {
	is := is.New(t)
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewFile(dir)
	is.NoErr(err)
	testStore(t, s)

	t.Run("one file per key, no temp files left", func(t *testing.T) {
		is := is.New(t)
		entries, err := os.ReadDir(dir)
		is.NoErr(err)
		names := []string{}
		for _, e := range entries {
			names = append(names, e.Name())
		}
		is.Equal(names, []string{"other.json", "tasks.json"})
	})

	t.Run("rejects keys that escape the directory", func(t *testing.T) {
		is := is.New(t)
		is.True(s.Set(context.Background(), "../evil", []byte("x")) != nil)
		_, err := s.Get(context.Background(), "a/b")
		is.True(err != nil)
	})
}

func TestSQLite(t *testing.T) {
	is := is.New(t)
	s, err := NewSQLite(":memory:")
	is.NoErr(err)
	defer s.Close()
	testStore(t, s)

	t.Run("persists across reopen", func(t *testing.T) {
		is := is.New(t)
		path := filepath.Join(t.TempDir(), "tasks.db")
		a, err := NewSQLite(path)
		is.NoErr(err)
		is.NoErr(a.Set(context.Background(), "tasks", []byte(`[3]`)))
		is.NoErr(a.Close())

		b, err := NewSQLite(path)
		is.NoErr(err)
		defer b.Close()
		got, err := b.Get(context.Background(), "tasks")
		is.NoErr(err)
		is.Equal(string(got), `[3]`)
	})
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TASKMAN_REDIS_ADDR")
	if addr == "" {
		t.Skip("TASKMAN_REDIS_ADDR not set")
	}
	is := is.New(t)
	s, err := NewRedis(context.Background(), addr, "", 15)
	is.NoErr(err)
	defer s.Close()
	is.NoErr(s.client.Del(context.Background(), "tasks", "other").Err())
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: BackendMemory})
	is.NoErr(err)
	_, ok := s.(*Memory)
	is.True(ok)

	s, err = Open(ctx, Options{Path: t.TempDir()})
	is.NoErr(err)
	_, ok = s.(*File)
	is.True(ok) // file is the default backend

	_, err = Open(ctx, Options{Backend: "etcd"})
	is.True(err != nil)

	_, err = Open(ctx, Options{Backend: BackendRedis})
	is.True(err != nil) // redis needs an address
}
