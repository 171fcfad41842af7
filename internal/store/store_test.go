package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "b", "1"))
	require.NoError(t, s.Set(ctx, "a", "2"))
	require.NoError(t, s.Set(ctx, "b", "3"))

	v, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "3", v)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

func TestSettingsDefaultsAndMerge(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	st, err := s.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), st)

	// Partial blobs merge over defaults.
	require.NoError(t, s.Set(ctx, SettingsKey, `{"themePreference":"dark","animationsEnabled":false}`))
	st, err = s.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", st.ThemePreference)
	assert.False(t, st.AnimationsEnabled)
	assert.True(t, st.AutoRefreshEnabled)
	assert.Equal(t, 10, st.AutoRefreshIntervalSec)

	st.DefaultDateRange = "lastYear"
	require.NoError(t, s.SaveSettings(ctx, st))
	got, err := s.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestCorruptSettingsFallBack(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Set(ctx, SettingsKey, "{not json"))
	st, err := s.LoadSettings(ctx)
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, DefaultSettings(), st)

	require.NoError(t, s.Set(ctx, SettingsKey, `{"defaultDateRange":"forever","autoRefreshIntervalSec":0}`))
	st, err = s.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "last6months", st.DefaultDateRange)
	assert.Equal(t, 10, st.AutoRefreshIntervalSec)
}

func TestSelection(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	ids, err := s.LoadSelection(ctx)
	require.NoError(t, err)
	assert.Nil(t, ids)

	require.NoError(t, s.SaveSelection(ctx, []string{"x", "y"}))
	ids, err = s.LoadSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids)

	require.NoError(t, s.SaveSelection(ctx, nil))
	ids, err = s.LoadSelection(ctx)
	require.NoError(t, err)
	assert.Nil(t, ids)
}
