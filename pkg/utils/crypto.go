package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

// EncryptSecret seals a credential secret with AES-GCM and returns
// base64(nonce || ciphertext).
func EncryptSecret(secret string, key []byte) (string, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		logging.GetLogger().Info("nonce generation failed", zap.Error(err))
		return "", err
	}

	sealed := aesGCM.Seal(nonce, nonce, []byte(secret), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptSecret reverses EncryptSecret.
func DecryptSecret(encoded string, key []byte) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		logging.GetLogger().Info("secret is not valid base64", zap.Error(err))
		return "", err
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonceSize := aesGCM.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		logging.GetLogger().Info("secret decryption failed", zap.Error(err))
		return "", err
	}

	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		logging.GetLogger().Info("invalid encryption key", zap.Error(err))
		return nil, err
	}
	return cipher.NewGCM(block)
}
