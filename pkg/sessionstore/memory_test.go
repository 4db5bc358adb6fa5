package sessionstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/courseflow/pkg/designer"
	"github.com/openlms/courseflow/pkg/models"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	editor := designer.NewEditor("session-1", models.NewTemplate("Lifecycle", ""))

	require.NoError(t, store.Put(t.Context(), editor))

	loaded, err := store.Get(t.Context(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, editor, loaded)

	require.NoError(t, store.Delete(t.Context(), "session-1"))

	_, err = store.Get(t.Context(), "session-1")
	assert.True(t, IsSessionNotFound(err))

	// Deleting a missing session is not an error
	assert.NoError(t, store.Delete(t.Context(), "session-1"))
	assert.NoError(t, store.Close(t.Context()))
}

func TestMemoryStorePutOverwrites(t *testing.T) {
	store := NewMemoryStore()
	editor := designer.NewEditor("session-1", models.NewTemplate("v1", ""))

	require.NoError(t, store.Put(t.Context(), editor))

	editor.Name = "v2"
	require.NoError(t, store.Put(t.Context(), editor))

	loaded, err := store.Get(t.Context(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "v2", loaded.Name)
}
