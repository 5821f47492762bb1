package messaging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fowltyphoid/fowlmon/messaging"
	"github.com/stretchr/testify/require"
)

func TestAppendAndList(t *testing.T) {
	store, err := messaging.NewStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Append("conv-1", "farmer-1", "farmer", "Kuku wangu wanaharisha")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.False(t, first.SentAt.IsZero())

	second, err := store.Append("conv-1", "vet-1", "vet", "Tuma picha ya kinyesi")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	msgs := store.Messages("conv-1")
	require.Len(t, msgs, 2)
	require.Equal(t, "Kuku wangu wanaharisha", msgs[0].Body)
	require.Equal(t, "Tuma picha ya kinyesi", msgs[1].Body)

	require.Empty(t, store.Messages("conv-2"))
}

func TestConversationsSorted(t *testing.T) {
	store, err := messaging.NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Append("conv-b", "farmer-1", "farmer", "habari")
	require.NoError(t, err)
	_, err = store.Append("conv-a", "farmer-1", "farmer", "habari")
	require.NoError(t, err)

	require.Equal(t, []string{"conv-a", "conv-b"}, store.Conversations())
}

func TestUnreadAndMarkRead(t *testing.T) {
	store, err := messaging.NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Append("conv-1", "farmer-1", "farmer", "swali")
	require.NoError(t, err)
	_, err = store.Append("conv-1", "vet-1", "vet", "jibu")
	require.NoError(t, err)

	// Own messages never count as unread.
	require.Equal(t, 1, store.UnreadCount("conv-1", "farmer-1"))
	require.Equal(t, 1, store.UnreadCount("conv-1", "vet-1"))

	require.NoError(t, store.MarkRead("conv-1", "farmer-1"))
	require.Zero(t, store.UnreadCount("conv-1", "farmer-1"))
	require.Equal(t, 1, store.UnreadCount("conv-1", "vet-1"), "the sender's own message stays unread for them")
}

func TestStoreReload(t *testing.T) {
	dir := t.TempDir()

	store, err := messaging.NewStore(dir)
	require.NoError(t, err)
	_, err = store.Append("conv-1", "farmer-1", "farmer", "swali")
	require.NoError(t, err)

	reopened, err := messaging.NewStore(dir)
	require.NoError(t, err)
	msgs := reopened.Messages("conv-1")
	require.Len(t, msgs, 1)
	require.Equal(t, "swali", msgs[0].Body)
}

func TestCorruptStoreStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fowlmon_messages.json"), []byte("{oops"), 0o600))

	store, err := messaging.NewStore(dir)
	require.NoError(t, err)
	require.Empty(t, store.Conversations())
}
