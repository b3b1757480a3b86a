package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/audioscript/component"
)

// Start starts c and registers a cleanup that stops it when the test ends.
func Start(t testing.TB, c component.Component) {
	t.Helper()
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start %s: %v", c.Name(), err)
	}
	t.Cleanup(func() {
		if err := c.Stop(ctx); err != nil {
			t.Errorf("stop %s: %v", c.Name(), err)
		}
	})
}
