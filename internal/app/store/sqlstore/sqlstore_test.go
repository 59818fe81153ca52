package sqlstore_test

import (
	"testing"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/store/storetest"
	"github.com/dalemusser/yatube/internal/testutil"
)

func TestSQLStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Backend {
		return testutil.SetupSQLStore(t)
	})
}

func TestName(t *testing.T) {
	if got := testutil.SetupSQLStore(t).Name(); got != "sqlite" {
		t.Errorf("Name = %q", got)
	}
}
