package services

import (
	"context"
	"errors"

	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/remote"
	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/repository"
	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/logger"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// ContentService is the accessor layer over the five content domains. Every
// accessor tries the remote table service first; any remote error is logged
// and the call degrades to the local document. Errors returned to callers
// only ever come from the local persistence path.
type ContentService struct {
	remote ports.TableClient
	local  *repository.LocalContentRepository
	logger *logger.Logger
}

// NewContentService creates a content service.
func NewContentService(remoteClient ports.TableClient, local *repository.LocalContentRepository, logger *logger.Logger) *ContentService {
	return &ContentService{
		remote: remoteClient,
		local:  local,
		logger: logger,
	}
}

var _ ports.ContentService = (*ContentService)(nil)

// withFallback runs the remote function when remote access is available and
// degrades to the local function on any remote error. This is the single
// place the remote-or-local branching lives.
func withFallback[T any](s *ContentService, ctx context.Context, op, table string, remoteFn func(context.Context) (T, error), localFn func(context.Context) (T, error)) (T, error) {
	if s.remote != nil && s.remote.Available() {
		value, err := remoteFn(ctx)
		if err == nil {
			return value, nil
		}
		s.logger.LogRemoteFallback(op, table, err)
	}
	return localFn(ctx)
}

// Insert/update payloads sent to the table service. Ids are never sent; the
// backend assigns them.
type photoRow struct {
	URL      string  `json:"url"`
	Alt      string  `json:"alt"`
	Category string  `json:"category"`
	Title    *string `json:"title"`
}

type workCardRow struct {
	Image      string `json:"image"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	OrderIndex int    `json:"order_index"`
}

type serviceRow struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

type aboutRow struct {
	Title        string `json:"title"`
	Description1 string `json:"description1"`
	Description2 string `json:"description2"`
	Description3 string `json:"description3"`
	Image        string `json:"image"`
}

type settingsRow struct {
	HeroTitle    string `json:"heroTitle"`
	HeroSubtitle string `json:"heroSubtitle"`
	HeroImage    string `json:"heroImage"`
	Phone1       string `json:"phone1"`
	Phone2       string `json:"phone2"`
	Email        string `json:"email"`
}

// GetPhotos returns all photos, newest first.
func (s *ContentService) GetPhotos(ctx context.Context) ([]entities.Photo, error) {
	return withFallback(s, ctx, "get_photos", remote.TablePhotos,
		func(ctx context.Context) ([]entities.Photo, error) {
			var photos []entities.Photo
			if err := s.remote.Select(ctx, remote.TablePhotos, "id.desc", &photos); err != nil {
				return nil, err
			}
			return photos, nil
		},
		func(ctx context.Context) ([]entities.Photo, error) {
			return s.local.GetPhotos(ctx), nil
		},
	)
}

// AddPhoto inserts a photo. The remote path lets the backend assign the id;
// the local path assigns max(existing)+1.
func (s *ContentService) AddPhoto(ctx context.Context, photo entities.Photo) (*entities.Photo, error) {
	return withFallback(s, ctx, "add_photo", remote.TablePhotos,
		func(ctx context.Context) (*entities.Photo, error) {
			row := photoRow{URL: photo.URL, Alt: photo.Alt, Category: photo.Category, Title: photo.Title}
			var inserted []entities.Photo
			if err := s.remote.Insert(ctx, remote.TablePhotos, []photoRow{row}, &inserted); err != nil {
				return nil, err
			}
			if len(inserted) == 0 {
				return nil, entities.ErrNoRows
			}
			return &inserted[0], nil
		},
		func(ctx context.Context) (*entities.Photo, error) {
			return s.local.AddPhoto(ctx, photo)
		},
	)
}

// UpdatePhoto updates the photo with the given id.
func (s *ContentService) UpdatePhoto(ctx context.Context, id int64, photo entities.Photo) (*entities.Photo, error) {
	return withFallback(s, ctx, "update_photo", remote.TablePhotos,
		func(ctx context.Context) (*entities.Photo, error) {
			row := photoRow{URL: photo.URL, Alt: photo.Alt, Category: photo.Category, Title: photo.Title}
			var updated entities.Photo
			if err := s.remote.Update(ctx, remote.TablePhotos, id, row, &updated); err != nil {
				return nil, err
			}
			return &updated, nil
		},
		func(ctx context.Context) (*entities.Photo, error) {
			return s.local.UpdatePhoto(ctx, id, photo)
		},
	)
}

// DeletePhoto removes the photo with the given id.
func (s *ContentService) DeletePhoto(ctx context.Context, id int64) error {
	_, err := withFallback(s, ctx, "delete_photo", remote.TablePhotos,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.remote.Delete(ctx, remote.TablePhotos, id)
		},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.local.DeletePhoto(ctx, id)
		},
	)
	return err
}

// DeletePhotoAt removes the photo at the given position of the stored local
// document. Positional deletion is a local-document concept; the remote
// path always deletes by id.
func (s *ContentService) DeletePhotoAt(ctx context.Context, index int) error {
	return s.local.DeletePhotoAt(ctx, index)
}

// GetWorkCards returns the ordered work card sequence.
func (s *ContentService) GetWorkCards(ctx context.Context) ([]entities.WorkCard, error) {
	return withFallback(s, ctx, "get_work_cards", remote.TableWorkCards,
		func(ctx context.Context) ([]entities.WorkCard, error) {
			var cards []entities.WorkCard
			if err := s.remote.Select(ctx, remote.TableWorkCards, "order_index.asc", &cards); err != nil {
				return nil, err
			}
			return cards, nil
		},
		func(ctx context.Context) ([]entities.WorkCard, error) {
			return s.local.GetWorkCards(ctx), nil
		},
	)
}

// SaveWorkCards replaces the whole sequence. Existing entries are discarded
// and the new cards get order indices 0..n-1 by position.
func (s *ContentService) SaveWorkCards(ctx context.Context, cards []entities.WorkCard) ([]entities.WorkCard, error) {
	return withFallback(s, ctx, "save_work_cards", remote.TableWorkCards,
		func(ctx context.Context) ([]entities.WorkCard, error) {
			if err := s.remote.DeleteAll(ctx, remote.TableWorkCards); err != nil {
				return nil, err
			}
			rows := make([]workCardRow, len(cards))
			for i, card := range cards {
				rows[i] = workCardRow{Image: card.Image, Title: card.Title, Category: card.Category, OrderIndex: i}
			}
			var inserted []entities.WorkCard
			if err := s.remote.Insert(ctx, remote.TableWorkCards, rows, &inserted); err != nil {
				return nil, err
			}
			return inserted, nil
		},
		func(ctx context.Context) ([]entities.WorkCard, error) {
			return s.local.SaveWorkCards(ctx, cards)
		},
	)
}

// GetServices returns all services, newest first.
func (s *ContentService) GetServices(ctx context.Context) ([]entities.Service, error) {
	return withFallback(s, ctx, "get_services", remote.TableServices,
		func(ctx context.Context) ([]entities.Service, error) {
			var services []entities.Service
			if err := s.remote.Select(ctx, remote.TableServices, "id.desc", &services); err != nil {
				return nil, err
			}
			return services, nil
		},
		func(ctx context.Context) ([]entities.Service, error) {
			return s.local.GetServices(ctx), nil
		},
	)
}

// AddService inserts a service.
func (s *ContentService) AddService(ctx context.Context, svc entities.Service) (*entities.Service, error) {
	return withFallback(s, ctx, "add_service", remote.TableServices,
		func(ctx context.Context) (*entities.Service, error) {
			row := serviceRow{Title: svc.Title, Description: svc.Description, Price: svc.Price, Image: svc.Image}
			var inserted []entities.Service
			if err := s.remote.Insert(ctx, remote.TableServices, []serviceRow{row}, &inserted); err != nil {
				return nil, err
			}
			if len(inserted) == 0 {
				return nil, entities.ErrNoRows
			}
			return &inserted[0], nil
		},
		func(ctx context.Context) (*entities.Service, error) {
			return s.local.AddService(ctx, svc)
		},
	)
}

// UpdateService updates the service with the given id.
func (s *ContentService) UpdateService(ctx context.Context, id int64, svc entities.Service) (*entities.Service, error) {
	return withFallback(s, ctx, "update_service", remote.TableServices,
		func(ctx context.Context) (*entities.Service, error) {
			row := serviceRow{Title: svc.Title, Description: svc.Description, Price: svc.Price, Image: svc.Image}
			var updated entities.Service
			if err := s.remote.Update(ctx, remote.TableServices, id, row, &updated); err != nil {
				return nil, err
			}
			return &updated, nil
		},
		func(ctx context.Context) (*entities.Service, error) {
			return s.local.UpdateService(ctx, id, svc)
		},
	)
}

// DeleteService removes the service with the given id.
func (s *ContentService) DeleteService(ctx context.Context, id int64) error {
	_, err := withFallback(s, ctx, "delete_service", remote.TableServices,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.remote.Delete(ctx, remote.TableServices, id)
		},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.local.DeleteService(ctx, id)
		},
	)
	return err
}

// GetAbout returns the singleton about record, nil when none exists. An
// empty remote table is a normal result, never a fallback trigger.
func (s *ContentService) GetAbout(ctx context.Context) (*entities.About, error) {
	return withFallback(s, ctx, "get_about", remote.TableAbout,
		func(ctx context.Context) (*entities.About, error) {
			var about entities.About
			err := s.remote.SelectSingle(ctx, remote.TableAbout, &about)
			if errors.Is(err, entities.ErrNoRows) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return &about, nil
		},
		func(ctx context.Context) (*entities.About, error) {
			return s.local.GetAbout(ctx), nil
		},
	)
}

// SaveAbout upserts the singleton about record: update when one exists,
// insert otherwise.
func (s *ContentService) SaveAbout(ctx context.Context, about entities.About) (*entities.About, error) {
	return withFallback(s, ctx, "save_about", remote.TableAbout,
		func(ctx context.Context) (*entities.About, error) {
			row := aboutRow{
				Title:        about.Title,
				Description1: about.Description1,
				Description2: about.Description2,
				Description3: about.Description3,
				Image:        about.Image,
			}

			var existing entities.About
			err := s.remote.SelectSingle(ctx, remote.TableAbout, &existing)
			switch {
			case err == nil:
				var updated entities.About
				if err := s.remote.Update(ctx, remote.TableAbout, existing.ID, row, &updated); err != nil {
					return nil, err
				}
				return &updated, nil
			case errors.Is(err, entities.ErrNoRows):
				var inserted []entities.About
				if err := s.remote.Insert(ctx, remote.TableAbout, []aboutRow{row}, &inserted); err != nil {
					return nil, err
				}
				if len(inserted) == 0 {
					return nil, entities.ErrNoRows
				}
				return &inserted[0], nil
			default:
				return nil, err
			}
		},
		func(ctx context.Context) (*entities.About, error) {
			return s.local.SaveAbout(ctx, about)
		},
	)
}

// GetSettings returns the singleton settings record, nil when none exists.
func (s *ContentService) GetSettings(ctx context.Context) (*entities.Settings, error) {
	return withFallback(s, ctx, "get_settings", remote.TableSettings,
		func(ctx context.Context) (*entities.Settings, error) {
			var settings entities.Settings
			err := s.remote.SelectSingle(ctx, remote.TableSettings, &settings)
			if errors.Is(err, entities.ErrNoRows) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return &settings, nil
		},
		func(ctx context.Context) (*entities.Settings, error) {
			return s.local.GetSettings(ctx), nil
		},
	)
}

// SaveSettings upserts the singleton settings record.
func (s *ContentService) SaveSettings(ctx context.Context, settings entities.Settings) (*entities.Settings, error) {
	return withFallback(s, ctx, "save_settings", remote.TableSettings,
		func(ctx context.Context) (*entities.Settings, error) {
			row := settingsRow{
				HeroTitle:    settings.HeroTitle,
				HeroSubtitle: settings.HeroSubtitle,
				HeroImage:    settings.HeroImage,
				Phone1:       settings.Phone1,
				Phone2:       settings.Phone2,
				Email:        settings.Email,
			}

			var existing entities.Settings
			err := s.remote.SelectSingle(ctx, remote.TableSettings, &existing)
			switch {
			case err == nil:
				var updated entities.Settings
				if err := s.remote.Update(ctx, remote.TableSettings, existing.ID, row, &updated); err != nil {
					return nil, err
				}
				return &updated, nil
			case errors.Is(err, entities.ErrNoRows):
				var inserted []entities.Settings
				if err := s.remote.Insert(ctx, remote.TableSettings, []settingsRow{row}, &inserted); err != nil {
					return nil, err
				}
				if len(inserted) == 0 {
					return nil, entities.ErrNoRows
				}
				return &inserted[0], nil
			default:
				return nil, err
			}
		},
		func(ctx context.Context) (*entities.Settings, error) {
			return s.local.SaveSettings(ctx, settings)
		},
	)
}
