package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// LocalContentRepository is the local fallback path of the content store.
// The whole document lives under one key and every mutation is a full
// read-modify-write. A document that fails to parse is treated as absent.
type LocalContentRepository struct {
	store ports.BlobStore
}

// NewLocalContentRepository creates a content repository over a blob store.
func NewLocalContentRepository(store ports.BlobStore) *LocalContentRepository {
	return &LocalContentRepository{store: store}
}

func (r *LocalContentRepository) load(ctx context.Context) *entities.Document {
	raw, ok, err := r.store.Get(ctx, ports.ContentKey)
	if err != nil || !ok {
		return &entities.Document{}
	}

	var doc entities.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Corrupt document reads as empty, never as an error.
		return &entities.Document{}
	}
	return &doc
}

func (r *LocalContentRepository) save(ctx context.Context, doc *entities.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := r.store.Set(ctx, ports.ContentKey, raw); err != nil {
		return fmt.Errorf("persist document: %w", err)
	}
	return nil
}

// Document returns the whole stored document.
func (r *LocalContentRepository) Document(ctx context.Context) *entities.Document {
	return r.load(ctx)
}

// ReplaceDocument overwrites the whole stored document.
func (r *LocalContentRepository) ReplaceDocument(ctx context.Context, doc *entities.Document) error {
	return r.save(ctx, doc)
}

// GetPhotos returns photos newest first.
func (r *LocalContentRepository) GetPhotos(ctx context.Context) []entities.Photo {
	photos := r.load(ctx).Photos
	out := make([]entities.Photo, len(photos))
	copy(out, photos)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// AddPhoto appends a photo, assigning id max(existing)+1, or 1 when the
// collection is empty.
func (r *LocalContentRepository) AddPhoto(ctx context.Context, photo entities.Photo) (*entities.Photo, error) {
	doc := r.load(ctx)

	var maxID int64
	for _, p := range doc.Photos {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	photo.ID = maxID + 1

	doc.Photos = append(doc.Photos, photo)
	if err := r.save(ctx, doc); err != nil {
		return nil, err
	}
	return &photo, nil
}

// UpdatePhoto replaces the stored photo with the given id in place.
func (r *LocalContentRepository) UpdatePhoto(ctx context.Context, id int64, photo entities.Photo) (*entities.Photo, error) {
	doc := r.load(ctx)

	for i := range doc.Photos {
		if doc.Photos[i].ID == id {
			photo.ID = id
			doc.Photos[i] = photo
			if err := r.save(ctx, doc); err != nil {
				return nil, err
			}
			return &photo, nil
		}
	}
	return nil, entities.ErrPhotoNotFound
}

// DeletePhoto removes the photo with the given id.
func (r *LocalContentRepository) DeletePhoto(ctx context.Context, id int64) error {
	doc := r.load(ctx)

	kept := doc.Photos[:0]
	for _, p := range doc.Photos {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	doc.Photos = kept
	return r.save(ctx, doc)
}

// DeletePhotoAt removes the photo at the given position of the stored
// document order. The rest of the collection keeps its order.
func (r *LocalContentRepository) DeletePhotoAt(ctx context.Context, index int) error {
	doc := r.load(ctx)

	if index < 0 || index >= len(doc.Photos) {
		return entities.ErrPhotoNotFound
	}
	doc.Photos = append(doc.Photos[:index], doc.Photos[index+1:]...)
	return r.save(ctx, doc)
}

// GetWorkCards returns work cards in explicit order.
func (r *LocalContentRepository) GetWorkCards(ctx context.Context) []entities.WorkCard {
	cards := r.load(ctx).WorkCards
	out := make([]entities.WorkCard, len(cards))
	copy(out, cards)
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

// SaveWorkCards discards the stored sequence and writes the new one with
// order indices assigned by position.
func (r *LocalContentRepository) SaveWorkCards(ctx context.Context, cards []entities.WorkCard) ([]entities.WorkCard, error) {
	doc := r.load(ctx)

	replaced := make([]entities.WorkCard, len(cards))
	for i, card := range cards {
		card.OrderIndex = i
		replaced[i] = card
	}
	doc.WorkCards = replaced

	if err := r.save(ctx, doc); err != nil {
		return nil, err
	}
	return replaced, nil
}

// GetServices returns services newest first.
func (r *LocalContentRepository) GetServices(ctx context.Context) []entities.Service {
	services := r.load(ctx).Services
	out := make([]entities.Service, len(services))
	copy(out, services)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// AddService appends a service with id max(existing)+1.
func (r *LocalContentRepository) AddService(ctx context.Context, svc entities.Service) (*entities.Service, error) {
	doc := r.load(ctx)

	var maxID int64
	for _, s := range doc.Services {
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	svc.ID = maxID + 1

	doc.Services = append(doc.Services, svc)
	if err := r.save(ctx, doc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// UpdateService replaces the stored service with the given id.
func (r *LocalContentRepository) UpdateService(ctx context.Context, id int64, svc entities.Service) (*entities.Service, error) {
	doc := r.load(ctx)

	for i := range doc.Services {
		if doc.Services[i].ID == id {
			svc.ID = id
			doc.Services[i] = svc
			if err := r.save(ctx, doc); err != nil {
				return nil, err
			}
			return &svc, nil
		}
	}
	return nil, entities.ErrServiceNotFound
}

// DeleteService removes the service with the given id.
func (r *LocalContentRepository) DeleteService(ctx context.Context, id int64) error {
	doc := r.load(ctx)

	kept := doc.Services[:0]
	for _, s := range doc.Services {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	doc.Services = kept
	return r.save(ctx, doc)
}

// GetAbout returns the singleton about record, or nil when absent.
func (r *LocalContentRepository) GetAbout(ctx context.Context) *entities.About {
	return r.load(ctx).About
}

// SaveAbout overwrites the singleton about record.
func (r *LocalContentRepository) SaveAbout(ctx context.Context, about entities.About) (*entities.About, error) {
	doc := r.load(ctx)
	doc.About = &about
	if err := r.save(ctx, doc); err != nil {
		return nil, err
	}
	return &about, nil
}

// GetSettings returns the singleton settings record, or nil when absent.
func (r *LocalContentRepository) GetSettings(ctx context.Context) *entities.Settings {
	return r.load(ctx).Settings
}

// SaveSettings overwrites the singleton settings record.
func (r *LocalContentRepository) SaveSettings(ctx context.Context, settings entities.Settings) (*entities.Settings, error) {
	doc := r.load(ctx)
	doc.Settings = &settings
	if err := r.save(ctx, doc); err != nil {
		return nil, err
	}
	return &settings, nil
}
