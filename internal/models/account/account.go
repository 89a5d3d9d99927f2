package account

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmailEmpty   = errors.New("email не может быть пустым")
	ErrEmailInvalid = errors.New("email должен содержать «@»")
	ErrNameRequired = errors.New("нужно хотя бы одно из firstName или lastName")
)

// Email — проверенный при создании адрес, значение всегда обрезано по краям
type Email struct {
	value string
}

func NewEmail(v string) (Email, error) {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return Email{}, ErrEmailEmpty
	}
	if !strings.Contains(trimmed, "@") {
		return Email{}, ErrEmailInvalid
	}
	return Email{value: trimmed}, nil
}

func (e Email) String() string {
	return e.value
}

func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// Account — учётная запись. Создаётся при первом входе через OAuth,
// при каждом следующем входе обновляются профиль и lastLoginAt.
// Жёсткого удаления нет.
type Account struct {
	ID                uuid.UUID
	Email             Email
	FirstName         string
	LastName          string
	IsActive          bool
	Provider          string
	ProviderAccountID string
	Thumbnail         *string
	LastLoginAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func New(id uuid.UUID, email Email, firstName, lastName, provider, providerAccountID string, thumbnail *string) (Account, error) {
	if firstName == "" && lastName == "" {
		return Account{}, ErrNameRequired
	}
	now := time.Now()
	return Account{
		ID:                id,
		Email:             email,
		FirstName:         firstName,
		LastName:          lastName,
		IsActive:          true,
		Provider:          provider,
		ProviderAccountID: providerAccountID,
		Thumbnail:         thumbnail,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// UpdateOnLogin обновляет профиль и время последнего входа
func (a Account) UpdateOnLogin(firstName, lastName string, thumbnail *string) Account {
	now := time.Now()
	if firstName != "" {
		a.FirstName = firstName
	}
	if lastName != "" {
		a.LastName = lastName
	}
	if thumbnail != nil {
		a.Thumbnail = thumbnail
	}
	a.LastLoginAt = &now
	a.UpdatedAt = now
	return a
}

func (a Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// SplitName делит отображаемое имя по первому пробельному блоку:
// первая часть — firstName, остальное — lastName
func SplitName(name string) (firstName, lastName string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
