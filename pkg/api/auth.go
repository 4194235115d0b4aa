package api

// CSRFTokenResponse представляет ответ с anti-forgery токеном
type CSRFTokenResponse struct {
	Token     string `json:"token"`      // значение для заголовка X-CSRF-Token
	ExpiresIn int64  `json:"expires_in"` // время жизни токена в секундах
}

// DevTokenRequest представляет запрос на выпуск тестового bearer токена
type DevTokenRequest struct {
	Subject    string `json:"subject"`               // идентификатор пользователя (sub)
	TTLSeconds int64  `json:"ttl_seconds,omitempty"` // время жизни, 0 - значение сервера по умолчанию
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	ExpiresIn   int64  `json:"expires_in"`   // время жизни access token в секундах
}

// SetTokenRequest передает агенту bearer токен, полученный вне courtside
type SetTokenRequest struct {
	AccessToken string `json:"access_token"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // код ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
