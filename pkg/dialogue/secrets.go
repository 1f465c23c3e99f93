package dialogue

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	OneTimeCodeLength = 6
	CredentialLength  = 15

	credentialAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// CryptoSecrets draws from crypto/rand.
type CryptoSecrets struct{}

func (CryptoSecrets) OneTimeCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate one-time code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (CryptoSecrets) Credential() (string, error) {
	max := big.NewInt(int64(len(credentialAlphabet)))
	out := make([]byte, CredentialLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate credential: %w", err)
		}
		out[i] = credentialAlphabet[n.Int64()]
	}
	return string(out), nil
}
