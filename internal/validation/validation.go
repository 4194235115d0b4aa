package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("invalid value")

// CacheVersionPattern определяет допустимый формат версии кэша.
// Версия входит в имя bucket, поэтому двоеточие запрещено.
var CacheVersionPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// SubjectPattern определяет допустимый формат subject токена разработчика
// Только латинские буквы, цифры, нижнее подчеркивание; длина 3-32 символа
var SubjectPattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinSubjectLen минимальная длина subject
	MinSubjectLen = 3
	// MaxSubjectLen максимальная длина subject
	MaxSubjectLen = 32
)

// ValidateCacheVersion проверяет имя поколения кэша
func ValidateCacheVersion(version string) error {
	if version == "" {
		return fmt.Errorf("%w: cache version cannot be empty", ErrInvalid)
	}

	if !CacheVersionPattern.MatchString(version) {
		return fmt.Errorf("%w: cache version %q may only contain letters, numbers, '.', '_' and '-' (max 64)", ErrInvalid, version)
	}

	return nil
}

// ValidateServerURL проверяет адрес upstream сервера: http или https, с хостом
func ValidateServerURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: server url cannot be empty", ErrInvalid)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: server url: %w", ErrInvalid, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: server url must use http or https, got %q", ErrInvalid, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: server url must include a host", ErrInvalid)
	}

	return nil
}

// ValidateSubject проверяет subject, для которого выпускается токен
func ValidateSubject(subject string) error {
	if subject == "" {
		return fmt.Errorf("%w: subject cannot be empty", ErrInvalid)
	}

	if len(subject) < MinSubjectLen {
		return fmt.Errorf("%w: subject must be at least %d characters long", ErrInvalid, MinSubjectLen)
	}

	if len(subject) > MaxSubjectLen {
		return fmt.Errorf("%w: subject must not exceed %d characters", ErrInvalid, MaxSubjectLen)
	}

	if !SubjectPattern.MatchString(subject) {
		return fmt.Errorf("%w: subject can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)", ErrInvalid)
	}

	return nil
}
