package auth

// Claims es lo que sabemos del llamador después de verificar su token.
// AccountID es la cuenta a nombre de la cual se ejecutan las operaciones del registro.
type Claims struct {
	AccountID string
	Email     string
}
