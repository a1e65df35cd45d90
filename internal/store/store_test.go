package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStorePutGet(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "abc123.html", []byte("<h1>hi</h1>")))

	value, err := s.Get(ctx, "abc123.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("<h1>hi</h1>"), value)
}

func TestFSStoreMissingKey(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(context.Background(), "nope")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.Key)
}

func TestFSStoreRejectsPathEscape(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for _, key := range []string{"", "../evil", "a/b", `a\b`} {
		assert.Error(t, s.Put(ctx, key, []byte("x")), "key %q must be rejected", key)
	}
}

func TestFSStoreNamespacesAreDisjoint(t *testing.T) {
	base := t.TempDir()
	a, err := NewFSStore(base)
	require.NoError(t, err)
	defer a.Close()
	b, err := NewFSStore(base)
	require.NoError(t, err)
	defer b.Close()

	assert.NotEqual(t, a.Root(), b.Root())
	assert.True(t, strings.HasPrefix(filepath.Base(a.Root()), "inspiredoc-"))

	ctx := context.Background()
	require.NoError(t, a.Put(ctx, "k", []byte("from-a")))
	_, err = b.Get(ctx, "k")
	assert.Error(t, err)
}

func TestFSStoreCloseRemovesDirectory(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), "k", []byte("v")))

	require.NoError(t, s.Close())
	_, err = os.Stat(s.Root())
	assert.True(t, os.IsNotExist(err))
}

func TestSQLiteStorePutGet(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "artifacts.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	key := ArtifactKey("deadbeef", "pdf")
	require.NoError(t, s.Put(ctx, key, []byte("%PDF-1.7")))

	value, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), value)
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "k", []byte("v1")))
	require.NoError(t, s.Put(ctx, "k", []byte("v2")))

	value, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)
}

func TestSQLiteStoreMissingKey(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(context.Background(), "absent")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestArtifactKey(t *testing.T) {
	assert.Equal(t, "abc.docx", ArtifactKey("abc", "docx"))
}
