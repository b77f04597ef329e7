package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/blobstore"
	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/repository"
	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/logger"
)

var errRemoteDown = errors.New("connect: connection refused")

// stubTableClient scripts remote behavior per test. The zero value is an
// available client whose every call fails.
type stubTableClient struct {
	unavailable bool

	selectFn       func(table, order string, dest interface{}) error
	selectSingleFn func(table string, dest interface{}) error
	insertFn       func(table string, rows, dest interface{}) error
	updateFn       func(table string, id int64, row, dest interface{}) error
	deleteFn       func(table string, id int64) error
	deleteAllFn    func(table string) error
}

func (c *stubTableClient) Available() bool { return !c.unavailable }

func (c *stubTableClient) Select(ctx context.Context, table, order string, dest interface{}) error {
	if c.selectFn == nil {
		return errRemoteDown
	}
	return c.selectFn(table, order, dest)
}

func (c *stubTableClient) SelectSingle(ctx context.Context, table string, dest interface{}) error {
	if c.selectSingleFn == nil {
		return errRemoteDown
	}
	return c.selectSingleFn(table, dest)
}

func (c *stubTableClient) Insert(ctx context.Context, table string, rows, dest interface{}) error {
	if c.insertFn == nil {
		return errRemoteDown
	}
	return c.insertFn(table, rows, dest)
}

func (c *stubTableClient) Update(ctx context.Context, table string, id int64, row, dest interface{}) error {
	if c.updateFn == nil {
		return errRemoteDown
	}
	return c.updateFn(table, id, row, dest)
}

func (c *stubTableClient) Delete(ctx context.Context, table string, id int64) error {
	if c.deleteFn == nil {
		return errRemoteDown
	}
	return c.deleteFn(table, id)
}

func (c *stubTableClient) DeleteAll(ctx context.Context, table string) error {
	if c.deleteAllFn == nil {
		return errRemoteDown
	}
	return c.deleteAllFn(table)
}

func decodeInto(t *testing.T, src, dest interface{}) {
	t.Helper()
	raw, err := json.Marshal(src)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest))
}

func newContentService(remote *stubTableClient) (*ContentService, *repository.LocalContentRepository) {
	local := repository.NewLocalContentRepository(blobstore.NewMemoryStore())
	return NewContentService(remote, local, logger.NewNop()), local
}

func TestContentService_RemoteFailureFallsBackToLocal(t *testing.T) {
	svc, local := newContentService(&stubTableClient{})
	ctx := context.Background()

	_, err := local.AddPhoto(ctx, entities.Photo{URL: "local.jpg", Alt: "local", Category: "retrato"})
	require.NoError(t, err)

	// Every remote call fails; the caller never sees the remote error.
	photos, err := svc.GetPhotos(ctx)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "local.jpg", photos[0].URL)

	added, err := svc.AddPhoto(ctx, entities.Photo{URL: "b.jpg", Alt: "b", Category: "evento"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), added.ID)
}

func TestContentService_RemoteUnavailableUsesLocal(t *testing.T) {
	svc, local := newContentService(&stubTableClient{unavailable: true})
	ctx := context.Background()

	_, err := local.AddService(ctx, entities.Service{Title: "Ensaio", Price: "R$ 300"})
	require.NoError(t, err)

	services, err := svc.GetServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Ensaio", services[0].Title)
}

func TestContentService_GetPhotosPrefersRemote(t *testing.T) {
	remote := &stubTableClient{
		selectFn: func(table, order string, dest interface{}) error {
			assert.Equal(t, "photos", table)
			assert.Equal(t, "id.desc", order)
			decodeInto(t, []entities.Photo{{ID: 10, URL: "remote.jpg"}}, dest)
			return nil
		},
	}
	svc, local := newContentService(remote)
	ctx := context.Background()

	_, err := local.AddPhoto(ctx, entities.Photo{URL: "local.jpg", Alt: "l", Category: "retrato"})
	require.NoError(t, err)

	photos, err := svc.GetPhotos(ctx)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "remote.jpg", photos[0].URL)
}

func TestContentService_SaveWorkCardsRemoteReplacesSequence(t *testing.T) {
	var deletedAll bool
	var sentRows []map[string]interface{}

	remote := &stubTableClient{
		deleteAllFn: func(table string) error {
			assert.Equal(t, "work_cards", table)
			deletedAll = true
			return nil
		},
		insertFn: func(table string, rows, dest interface{}) error {
			require.True(t, deletedAll, "insert must follow the wholesale delete")
			decodeInto(t, rows, &sentRows)
			decodeInto(t, rows, dest)
			return nil
		},
	}
	svc, _ := newContentService(remote)

	cards := []entities.WorkCard{
		{Image: "1.jpg", Title: "One", Category: "casamento", OrderIndex: 9},
		{Image: "2.jpg", Title: "Two", Category: "retrato", OrderIndex: 4},
	}
	saved, err := svc.SaveWorkCards(context.Background(), cards)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	// Order indices are assigned by position, ignoring what came in, and
	// the payload never carries ids.
	require.Len(t, sentRows, 2)
	assert.Equal(t, float64(0), sentRows[0]["order_index"])
	assert.Equal(t, float64(1), sentRows[1]["order_index"])
	assert.NotContains(t, sentRows[0], "id")
}

func TestContentService_GetAboutEmptyRemoteIsNotFallback(t *testing.T) {
	remote := &stubTableClient{
		selectSingleFn: func(table string, dest interface{}) error {
			return entities.ErrNoRows
		},
	}
	svc, local := newContentService(remote)
	ctx := context.Background()

	_, err := local.SaveAbout(ctx, entities.About{Title: "Local about"})
	require.NoError(t, err)

	about, err := svc.GetAbout(ctx)
	require.NoError(t, err)
	assert.Nil(t, about, "empty remote table is a normal empty result")
}

func TestContentService_SaveAboutInsertsWhenAbsent(t *testing.T) {
	remote := &stubTableClient{
		selectSingleFn: func(table string, dest interface{}) error {
			return entities.ErrNoRows
		},
		insertFn: func(table string, rows, dest interface{}) error {
			assert.Equal(t, "about", table)
			decodeInto(t, []entities.About{{ID: 1, Title: "Sobre"}}, dest)
			return nil
		},
	}
	svc, _ := newContentService(remote)

	about, err := svc.SaveAbout(context.Background(), entities.About{Title: "Sobre"})
	require.NoError(t, err)
	require.NotNil(t, about)
	assert.Equal(t, int64(1), about.ID)
}

func TestContentService_SaveSettingsUpdatesWhenPresent(t *testing.T) {
	var updatedID int64
	remote := &stubTableClient{
		selectSingleFn: func(table string, dest interface{}) error {
			decodeInto(t, entities.Settings{ID: 5, HeroTitle: "Old"}, dest)
			return nil
		},
		updateFn: func(table string, id int64, row, dest interface{}) error {
			updatedID = id
			decodeInto(t, entities.Settings{ID: 5, HeroTitle: "New"}, dest)
			return nil
		},
	}
	svc, _ := newContentService(remote)

	settings, err := svc.SaveSettings(context.Background(), entities.Settings{HeroTitle: "New"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), updatedID)
	assert.Equal(t, "New", settings.HeroTitle)
}

func TestContentService_DeletePhotoAtIsLocalOnly(t *testing.T) {
	remote := &stubTableClient{
		deleteFn: func(table string, id int64) error {
			t.Fatal("positional delete must never reach the remote")
			return nil
		},
	}
	svc, local := newContentService(remote)
	ctx := context.Background()

	for _, url := range []string{"a.jpg", "b.jpg"} {
		_, err := local.AddPhoto(ctx, entities.Photo{URL: url, Alt: url, Category: "retrato"})
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeletePhotoAt(ctx, 0))
	doc := local.Document(ctx)
	require.Len(t, doc.Photos, 1)
	assert.Equal(t, "b.jpg", doc.Photos[0].URL)
}
