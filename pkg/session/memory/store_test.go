package memory

import (
	"testing"

	"github.com/lazor-kit/wallet-client/pkg/session/tests"
)

func TestSessionMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
