package auth

import "golang.org/x/crypto/bcrypt"

// HashPIN hashes a PIN with bcrypt. PINs are only ever hashed, never
// encrypted.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPIN verifies a PIN against a stored hash. A malformed hash fails
// closed: the answer is false, never an error escaping to the caller.
func CheckPIN(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
