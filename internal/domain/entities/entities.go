package entities

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrNoRows             = errors.New("no rows found")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrServiceNotFound    = errors.New("service not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoPasswordsSet     = errors.New("no passwords configured")
	ErrLastActiveUser     = errors.New("at least one user must remain active")
	ErrSessionInvalid     = errors.New("session is missing, expired or revoked")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidDocument    = errors.New("document must contain photos or settings")
)

// Photo is a portfolio image shown in the public gallery.
type Photo struct {
	ID       int64   `json:"id" db:"id"`
	URL      string  `json:"url" db:"url"`
	Alt      string  `json:"alt" db:"alt"`
	Category string  `json:"category" db:"category"`
	Title    *string `json:"title" db:"title"`
}

// WorkCard is one entry of the ordered "work" strip on the home page.
// Order is significant; the whole sequence is rewritten on every save.
type WorkCard struct {
	ID         int64  `json:"id,omitempty" db:"id"`
	Image      string `json:"image" db:"image"`
	Title      string `json:"title" db:"title"`
	Category   string `json:"category" db:"category"`
	OrderIndex int    `json:"order_index" db:"order_index"`
}

// Service is a bookable offering on the services page.
type Service struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Price       string `json:"price" db:"price"`
	Image       string `json:"image" db:"image"`
}

// About is the singleton about-page record.
type About struct {
	ID           int64  `json:"id,omitempty" db:"id"`
	Title        string `json:"title" db:"title"`
	Description1 string `json:"description1" db:"description1"`
	Description2 string `json:"description2" db:"description2"`
	Description3 string `json:"description3" db:"description3"`
	Image        string `json:"image" db:"image"`
}

// Settings is the singleton site-settings record (hero text and contacts).
type Settings struct {
	ID           int64  `json:"id,omitempty" db:"id"`
	HeroTitle    string `json:"heroTitle" db:"hero_title"`
	HeroSubtitle string `json:"heroSubtitle" db:"hero_subtitle"`
	HeroImage    string `json:"heroImage" db:"hero_image"`
	Phone1       string `json:"phone1" db:"phone1"`
	Phone2       string `json:"phone2" db:"phone2"`
	Email        string `json:"email" db:"email"`
}

// Document is the whole local content document, persisted as a single JSON
// blob under one storage key and rewritten wholesale on every mutation.
type Document struct {
	Photos    []Photo    `json:"photos"`
	WorkCards []WorkCard `json:"workCards"`
	Services  []Service  `json:"services"`
	About     *About     `json:"about,omitempty"`
	Settings  *Settings  `json:"settings,omitempty"`
}

// HasContent reports whether the document carries at least one of the keys
// an import is accepted on.
func (d *Document) HasContent() bool {
	return d.Photos != nil || d.Settings != nil
}

// User is one of the three fixed admin accounts.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Name         string `json:"name"`
	Active       bool   `json:"active"`
}

// HasPassword reports whether the account has a password hash configured.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Session is the single admin session persisted under its own storage key.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
	Expires   time.Time `json:"expires"`
}

// IsExpired reports whether the session has outlived its expiry at the
// given instant.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.Expires)
}
