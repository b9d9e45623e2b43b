package solver

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetWatch_WarnsOnOverrun(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	stop := budgetWatch(log, "glpk", 5*time.Millisecond)
	defer stop()

	require.Eventually(t, func() bool { return hook.LastEntry() != nil },
		2*time.Second, 5*time.Millisecond)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "glpk", entry.Data["backend"])
}

func TestBudgetWatch_QuietWhenStopped(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	stop := budgetWatch(log, "glpk", time.Hour)
	stop()
	stop() // idempotent

	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, hook.LastEntry())
}
