package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/blobstore"
	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/repository"
	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/logger"
)

func newBackupService() (*BackupService, *repository.LocalContentRepository) {
	local := repository.NewLocalContentRepository(blobstore.NewMemoryStore())
	return NewBackupService(local, logger.NewNop()), local
}

func TestBackupService_ExportFilenameIsDateStamped(t *testing.T) {
	svc, _ := newBackupService()
	svc.WithClock(func() time.Time {
		return time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	})

	_, filename, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "studio-backup-2026-03-15.json", filename)
}

func TestBackupService_ExportImportRoundtrip(t *testing.T) {
	svc, local := newBackupService()
	ctx := context.Background()

	_, err := local.AddPhoto(ctx, entities.Photo{URL: "a.jpg", Alt: "a", Category: "retrato"})
	require.NoError(t, err)
	_, err = local.SaveSettings(ctx, entities.Settings{HeroTitle: "Bem-vindo"})
	require.NoError(t, err)

	doc, _, err := svc.Export(ctx)
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	// Importing into a fresh store reproduces the document.
	other, otherLocal := newBackupService()
	imported, err := other.Import(ctx, raw)
	require.NoError(t, err)

	assert.Equal(t, doc.Photos, imported.Photos)
	assert.Equal(t, doc.Settings, imported.Settings)

	photos := otherLocal.GetPhotos(ctx)
	require.Len(t, photos, 1)
	assert.Equal(t, "a.jpg", photos[0].URL)
}

func TestBackupService_ImportReplacesWholesale(t *testing.T) {
	svc, local := newBackupService()
	ctx := context.Background()

	_, err := local.AddPhoto(ctx, entities.Photo{URL: "old.jpg", Alt: "old", Category: "retrato"})
	require.NoError(t, err)
	_, err = local.SaveAbout(ctx, entities.About{Title: "Old about"})
	require.NoError(t, err)

	raw := []byte(`{"photos":[{"id":5,"url":"new.jpg","alt":"new","category":"evento","title":null}]}`)
	_, err = svc.Import(ctx, raw)
	require.NoError(t, err)

	photos := local.GetPhotos(ctx)
	require.Len(t, photos, 1)
	assert.Equal(t, "new.jpg", photos[0].URL)
	assert.Nil(t, local.GetAbout(ctx), "import replaces the document, it does not merge")
}

func TestBackupService_ImportAcceptsSettingsOnlyDocument(t *testing.T) {
	svc, local := newBackupService()
	ctx := context.Background()

	raw := []byte(`{"settings":{"heroTitle":"Novo","email":"contato@estudio.com"}}`)
	_, err := svc.Import(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "Novo", local.GetSettings(ctx).HeroTitle)
}

func TestBackupService_ImportRejectsUnrecognizedDocument(t *testing.T) {
	svc, local := newBackupService()
	ctx := context.Background()

	_, err := local.AddPhoto(ctx, entities.Photo{URL: "keep.jpg", Alt: "keep", Category: "retrato"})
	require.NoError(t, err)

	_, err = svc.Import(ctx, []byte(`{"services":[]}`))
	assert.ErrorIs(t, err, entities.ErrInvalidDocument)

	_, err = svc.Import(ctx, []byte(`not json at all`))
	assert.Error(t, err)

	// Rejected imports leave the stored document untouched.
	photos := local.GetPhotos(ctx)
	require.Len(t, photos, 1)
	assert.Equal(t, "keep.jpg", photos[0].URL)
}
