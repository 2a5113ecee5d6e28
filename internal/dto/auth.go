package dto

type RegisterRequest struct {
	ChatID    int64  `json:"chat_id"`
	PIN       string `json:"pin"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

type VerifyPINRequest struct {
	ChatID int64  `json:"chat_id"`
	PIN    string `json:"pin"`
}

type ChangePINRequest struct {
	OldPIN string `json:"old_pin"`
	NewPIN string `json:"new_pin"`
}

type SafeModeRequest struct {
	Enabled bool `json:"enabled"`
}

type UserResponse struct {
	ID        string `json:"id"`
	ChatID    int64  `json:"chat_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}
