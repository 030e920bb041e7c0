package configs

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gorilla/securecookie"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
	CSRFKey []byte
}

// LoadSessionKeys decodes the base64 session and CSRF keys. Outside production
// missing keys are replaced by random ones, which invalidates sessions on restart.
func LoadSessionKeys(env ENV) (*SessionKeys, error) {
	authKey, err := decodeKey("APP_AUTH_KEY", env.AppAuthKey, 64, env.IsProduction())
	if err != nil {
		return nil, err
	}
	encKey, err := decodeKey("APP_ENC_KEY", env.AppEncKey, 32, env.IsProduction())
	if err != nil {
		return nil, err
	}
	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
	}
	csrfKey, err := decodeKey("CSRF_KEY", env.CSRFKey, 32, env.IsProduction())
	if err != nil {
		return nil, err
	}
	if len(csrfKey) != 32 {
		return nil, fmt.Errorf("CSRF_KEY must decode to 32 bytes, got %d", len(csrfKey))
	}

	return &SessionKeys{AuthKey: authKey, EncKey: encKey, CSRFKey: csrfKey}, nil
}

func decodeKey(name, encoded string, size int, required bool) ([]byte, error) {
	if encoded == "" {
		if required {
			return nil, fmt.Errorf("%s environment variable not set", name)
		}
		return securecookie.GenerateRandomKey(size), nil
	}
	key, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from Base64: %w", name, err)
	}
	return key, nil
}

func GenerateAndPrintSessionKeys(envFilePath string) error {
	keys := map[string]int{"APP_AUTH_KEY": 64, "APP_ENC_KEY": 32, "CSRF_KEY": 32}
	order := []string{"APP_AUTH_KEY", "APP_ENC_KEY", "CSRF_KEY"}

	file, err := os.Create(envFilePath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", envFilePath, err)
	}
	defer file.Close()

	fmt.Println("Generated keys:")
	for _, name := range order {
		raw := securecookie.GenerateRandomKey(keys[name])
		if raw == nil {
			return fmt.Errorf("could not generate %s", name)
		}
		line := fmt.Sprintf("%s=%s", name, base64.URLEncoding.EncodeToString(raw))
		fmt.Println(line)
		if _, err := fmt.Fprintln(file, line); err != nil {
			return fmt.Errorf("failed to write keys to file %s: %w", envFilePath, err)
		}
	}

	fullPath, err := filepath.Abs(envFilePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", envFilePath, err)
	}
	fmt.Printf("Keys have been written to %s. Regenerating invalidates existing sessions.\n", fullPath)
	return nil
}
