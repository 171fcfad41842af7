package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIDFileAcquireLookupRelease(t *testing.T) {
	p := PIDFile(filepath.Join(t.TempDir(), "run", "adpulsed.pid"))

	_, err := p.Lookup()
	require.ErrorIs(t, err, ErrNotRunning)

	rt := Runtime{PID: os.Getpid(), Addr: "127.0.0.1:9999", StartedAt: time.Now(), Range: "Last 30 days"}
	require.NoError(t, p.Acquire(rt))

	got, err := p.Lookup()
	require.NoError(t, err)
	assert.Equal(t, rt.PID, got.PID)
	assert.Equal(t, "127.0.0.1:9999", got.Addr)

	err = p.Acquire(rt)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	p.Release()
	_, err = p.Lookup()
	require.ErrorIs(t, err, ErrNotRunning)
}

func TestPIDFileStaleAndGarbage(t *testing.T) {
	dir := t.TempDir()
	p := PIDFile(filepath.Join(dir, "adpulsed.pid"))

	// PIDs near the 32-bit limit are never live on a test host.
	require.NoError(t, os.WriteFile(string(p), []byte("2147483000\n"), 0o600))
	_, err := p.Lookup()
	require.ErrorIs(t, err, ErrNotRunning)
	_, statErr := os.Stat(string(p))
	assert.True(t, os.IsNotExist(statErr), "stale pid file should be removed")

	require.NoError(t, os.WriteFile(string(p), []byte("nope\n"), 0o600))
	_, err = p.Lookup()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotRunning)
}
