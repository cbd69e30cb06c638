package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	domainerrors "preipo-sip.backend/internal/domain/errors"
)

func TestAttachmentStore_SaveOpenDelete(t *testing.T) {
	store, err := NewAttachmentStore(t.TempDir())
	require.NoError(t, err)

	ticketID := uuid.New()
	rel, err := store.Save(ticketID, "receipt.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	require.Contains(t, rel, "tickets/"+ticketID.String())
	require.Contains(t, rel, "receipt.pdf")

	rc, err := store.Open(rel)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "pdf-bytes", string(data))

	require.True(t, store.Exists(rel))

	require.NoError(t, store.Delete(rel))
	_, err = store.Open(rel)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	require.ErrorIs(t, store.Delete(rel), domainerrors.ErrNotFound)
	require.False(t, store.Exists(rel))
	require.False(t, store.Exists("../outside.txt"))
}

func TestAttachmentStore_SanitizesFilenames(t *testing.T) {
	store, err := NewAttachmentStore(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save(uuid.New(), "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	require.NotContains(t, rel, "..")

	rel, err = store.Save(uuid.New(), "weird name!@#.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.Contains(t, rel, "weird_name___.png")
}

func TestAttachmentStore_RejectsEscapingPaths(t *testing.T) {
	store, err := NewAttachmentStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("../outside.txt")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = store.Open("")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
