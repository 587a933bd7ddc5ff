// Package secrets keeps service API keys out of the plain-text config
// file: a per-user 0600 JSON file with AES-GCM obfuscation keyed off the
// user and host. Not a replacement for an OS keychain.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const fileName = "keys.json"

type keyFile struct {
	Services map[string]string `json:"services"` // service -> base64(ciphertext)
}

// Store saves an API key for a named service (e.g. "bank").
func Store(service, key string) error {
	if service = norm(service); service == "" {
		return fmt.Errorf("service name required")
	}
	path, err := storePath()
	if err != nil {
		return err
	}
	kf, _ := load(path)
	if kf.Services == nil {
		kf.Services = map[string]string{}
	}
	ct, err := seal([]byte(key))
	if err != nil {
		return err
	}
	kf.Services[service] = base64.StdEncoding.EncodeToString(ct)
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Fetch returns the stored API key for a service.
func Fetch(service string) (string, error) {
	path, err := storePath()
	if err != nil {
		return "", err
	}
	kf, err := load(path)
	if err != nil {
		return "", err
	}
	enc, ok := kf.Services[norm(service)]
	if !ok {
		return "", fmt.Errorf("no key stored for %q", service)
	}
	ct, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	pt, err := open(ct)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func storePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "duet")
	// owner-only: this directory holds key material
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func load(path string) (keyFile, error) {
	var kf keyFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return kf, nil
		}
		return kf, err
	}
	if err := json.Unmarshal(data, &kf); err != nil {
		return keyFile{}, err
	}
	return kf, nil
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// deviceKey derives a stable obfuscation key from user and host. This only
// raises the bar over plain text; the threat model is a synced or shared
// config directory, not a local attacker.
func deviceKey() []byte {
	host, _ := os.Hostname()
	sum := sha256.Sum256([]byte("duet:" + os.Getenv("USER") + "@" + host))
	return sum[:]
}

func seal(plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(deviceKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func open(ct []byte) ([]byte, error) {
	block, err := aes.NewCipher(deviceKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ct) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, body := ct[:gcm.NonceSize()], ct[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
