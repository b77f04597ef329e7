package ports

import (
	"context"

	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
)

// ContentService is the accessor layer over the five content domains. Every
// accessor tries the remote table service first and degrades to the local
// document on any remote failure; remote errors are logged, never returned.
// The returned error is only ever a local persistence failure.
type ContentService interface {
	GetPhotos(ctx context.Context) ([]entities.Photo, error)
	AddPhoto(ctx context.Context, photo entities.Photo) (*entities.Photo, error)
	UpdatePhoto(ctx context.Context, id int64, photo entities.Photo) (*entities.Photo, error)
	DeletePhoto(ctx context.Context, id int64) error
	DeletePhotoAt(ctx context.Context, index int) error

	GetWorkCards(ctx context.Context) ([]entities.WorkCard, error)
	SaveWorkCards(ctx context.Context, cards []entities.WorkCard) ([]entities.WorkCard, error)

	GetServices(ctx context.Context) ([]entities.Service, error)
	AddService(ctx context.Context, svc entities.Service) (*entities.Service, error)
	UpdateService(ctx context.Context, id int64, svc entities.Service) (*entities.Service, error)
	DeleteService(ctx context.Context, id int64) error

	GetAbout(ctx context.Context) (*entities.About, error)
	SaveAbout(ctx context.Context, about entities.About) (*entities.About, error)

	GetSettings(ctx context.Context) (*entities.Settings, error)
	SaveSettings(ctx context.Context, settings entities.Settings) (*entities.Settings, error)
}

// SessionService is the login/session gate for the admin surface.
type SessionService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*entities.Session, error)
	GetUsers(ctx context.Context) ([]entities.User, error)
	VerifyPassword(ctx context.Context, username, password string) (bool, *entities.User)
	HasAnyPasswordSet(ctx context.Context) bool
	CreateSession(ctx context.Context, user *entities.User) (*entities.Session, error)
	CheckSession(ctx context.Context) bool
	CurrentUser(ctx context.Context) (*entities.User, error)
	ClearSession(ctx context.Context) error
	ToggleUser(ctx context.Context, id int64) (*entities.User, error)
	EditUserName(ctx context.Context, id int64, name string) (*entities.User, error)
	EditUserPassword(ctx context.Context, id int64, password, confirm string) error
}

// BackupService exports and imports the whole local document.
type BackupService interface {
	Export(ctx context.Context) (*entities.Document, string, error)
	Import(ctx context.Context, raw []byte) (*entities.Document, error)
}

// Request/Response Types

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	User        *entities.User `json:"user"`
}

type AddPhotoRequest struct {
	URL      string  `json:"url" validate:"required,url"`
	Alt      string  `json:"alt" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Title    *string `json:"title"`
}

type UpdatePhotoRequest struct {
	URL      string  `json:"url" validate:"required,url"`
	Alt      string  `json:"alt" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Title    *string `json:"title"`
}

type SaveWorkCardsRequest struct {
	Cards []WorkCardInput `json:"cards" validate:"required,dive"`
}

type WorkCardInput struct {
	Image    string `json:"image" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Category string `json:"category"`
}

type ServiceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

type SaveAboutRequest struct {
	Title        string `json:"title" validate:"required"`
	Description1 string `json:"description1"`
	Description2 string `json:"description2"`
	Description3 string `json:"description3"`
	Image        string `json:"image"`
}

type SaveSettingsRequest struct {
	HeroTitle    string `json:"heroTitle"`
	HeroSubtitle string `json:"heroSubtitle"`
	HeroImage    string `json:"heroImage"`
	Phone1       string `json:"phone1"`
	Phone2       string `json:"phone2"`
	Email        string `json:"email" validate:"omitempty,email"`
}

type EditUserNameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type EditUserPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
	Confirm  string `json:"confirm" validate:"required"`
}
