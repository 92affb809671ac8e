package auth

import "golang.org/x/crypto/bcrypt"

// HashPassphrase securely hashes a vault passphrase using bcrypt
func HashPassphrase(passphrase string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyPassphrase checks if the provided passphrase matches the stored hash
func VerifyPassphrase(hashedPassphrase, passphrase string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassphrase), []byte(passphrase))
	return err == nil
}
