package session

import (
	"testing"

	"auxbox/helpers/apierr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	engine := newTestEngine(t)
	registry := NewRegistry(engine)

	sess, err := registry.Create()
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	got, err := registry.Get(sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got.QueueItemID)
	assert.False(t, got.IsPlaying)
	assert.Zero(t, got.Sequence)
}

func TestGetUnknownSession(t *testing.T) {
	engine := newTestEngine(t)
	registry := NewRegistry(engine)

	_, err := registry.Get("no-such-session")
	require.Error(t, err)
	assert.Equal(t, 404, apierr.From(err).Code)
}

func TestSetCurrentItem(t *testing.T) {
	engine := newTestEngine(t)
	registry := NewRegistry(engine)
	store := NewStore(engine)

	sess, err := registry.Create()
	require.NoError(t, err)
	seedVideo(t, engine, "vidA", "first")
	entry, err := store.Append(sess.ID, "vidA", "")
	require.NoError(t, err)

	require.NoError(t, registry.SetCurrentItem(sess.ID, &entry.ID))
	got, err := registry.Get(sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got.QueueItemID)
	assert.Equal(t, entry.ID, *got.QueueItemID)

	// nil clears the reference when the queue runs out.
	require.NoError(t, registry.SetCurrentItem(sess.ID, nil))
	got, err = registry.Get(sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got.QueueItemID)
}

func TestSetPlayingAuthority(t *testing.T) {
	engine := newTestEngine(t)
	registry := NewRegistry(engine)

	sess, err := registry.Create()
	require.NoError(t, err)

	// A guest's request is not persisted.
	persisted, err := registry.SetPlaying(sess.ID, true, RankGuest)
	require.NoError(t, err)
	assert.False(t, persisted)

	got, err := registry.Get(sess.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPlaying)

	// The host's is.
	persisted, err = registry.SetPlaying(sess.ID, true, RankHost)
	require.NoError(t, err)
	assert.True(t, persisted)

	got, err = registry.Get(sess.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPlaying)
}

func TestDestroyCascadesQueue(t *testing.T) {
	engine := newTestEngine(t)
	registry := NewRegistry(engine)
	store := NewStore(engine)

	sess, err := registry.Create()
	require.NoError(t, err)
	seedVideo(t, engine, "vidA", "first")
	_, err = store.Append(sess.ID, "vidA", "")
	require.NoError(t, err)

	require.NoError(t, registry.Destroy(sess.ID))

	_, err = registry.Get(sess.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apierr.From(err).Code)

	var count int64
	_, err = engine.SQL("SELECT COUNT(*) FROM queue_items WHERE session_id = ?", sess.ID).Get(&count)
	require.NoError(t, err)
	assert.Zero(t, count, "queue rows should cascade with the session")
}
