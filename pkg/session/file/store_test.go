package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazor-kit/wallet-client/pkg/session"
	"github.com/lazor-kit/wallet-client/pkg/session/tests"
)

func TestSessionFileStore(t *testing.T) {
	testStore := New(filepath.Join(t.TempDir(), "nested", "session.json"))
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}

func TestSessionFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := New(path).Get(context.Background(), session.StorageKey)
	assert.Error(t, err)
	assert.NotEqual(t, session.ErrSessionNotFound, err)
}
