package internal

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var storePath = filepath.Join(os.Getenv("HOME"), ".aimsctl", "sessions.json")

// StoredSession is an authenticated AIMS session persisted between CLI
// invocations. Tokens never expire in this model; CreatedAt is recorded so
// status can show the session age.
type StoredSession struct {
	Profile        string    `json:"profile"`
	Token          string    `json:"token"`
	AccountID      string    `json:"account_id"`
	AccountName    string    `json:"account_name"`
	GlobalEndpoint string    `json:"global_endpoint"`
	Residency      string    `json:"residency"`
	CreatedAt      time.Time `json:"created_at"`
}

// SaveSession encrypts and stores an AIMS session under a profile name.
func SaveSession(profile string, sess *StoredSession, key string) error {
	if err := os.MkdirAll(filepath.Dir(storePath), 0700); err != nil {
		return err
	}

	fields := map[string]string{
		"Token":          sess.Token,
		"AccountID":      sess.AccountID,
		"AccountName":    sess.AccountName,
		"GlobalEndpoint": sess.GlobalEndpoint,
		"Residency":      sess.Residency,
		"CreatedAt":      sess.CreatedAt.Format(time.RFC3339),
	}

	encrypted := make(map[string]string, len(fields))
	for name, value := range fields {
		enc, err := Encrypt([]byte(value), []byte(key))
		if err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", name, err)
		}
		encrypted[name] = base64.StdEncoding.EncodeToString(enc)
	}

	// load existing data
	data := make(map[string]map[string]string)
	if b, err := os.ReadFile(storePath); err == nil {
		if err := json.Unmarshal(b, &data); err != nil {
			return fmt.Errorf("failed to parse session store: %w", err)
		}
	}

	data[profile] = encrypted

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(storePath, b, 0600)
}

// LoadSession decrypts the stored AIMS session for a profile.
func LoadSession(profile, key string) (*StoredSession, error) {
	b, err := os.ReadFile(storePath)
	if err != nil {
		return nil, err
	}

	var data map[string]map[string]string
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session store: %w", err)
	}

	enc, ok := data[profile]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not found", profile)
	}
	return decodeSession(profile, enc, key)
}

func decodeSession(profile string, enc map[string]string, key string) (*StoredSession, error) {
	decryptField := func(field string) (string, error) {
		raw, err := base64.StdEncoding.DecodeString(enc[field])
		if err != nil {
			return "", fmt.Errorf("corrupt field %s: %w", field, err)
		}
		decrypted, err := Decrypt(raw, []byte(key))
		if err != nil {
			return "", fmt.Errorf("failed to decrypt %s: %w", field, err)
		}
		return string(decrypted), nil
	}

	sess := &StoredSession{Profile: profile}
	for field, dst := range map[string]*string{
		"Token":          &sess.Token,
		"AccountID":      &sess.AccountID,
		"AccountName":    &sess.AccountName,
		"GlobalEndpoint": &sess.GlobalEndpoint,
		"Residency":      &sess.Residency,
	} {
		value, err := decryptField(field)
		if err != nil {
			return nil, err
		}
		*dst = value
	}

	createdStr, err := decryptField("CreatedAt")
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt CreatedAt: %w", err)
	}
	sess.CreatedAt = created

	return sess, nil
}

// RemoveProfile deletes a stored profile.
func RemoveProfile(profile string) error {
	b, err := os.ReadFile(storePath)
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	var data map[string]map[string]string
	if err := json.Unmarshal(b, &data); err != nil {
		return fmt.Errorf("failed to parse session store: %w", err)
	}

	if _, ok := data[profile]; !ok {
		return fmt.Errorf("profile '%s' not found", profile)
	}

	delete(data, profile)

	if len(data) == 0 {
		return os.Remove(storePath)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(storePath, out, 0600)
}

// ClearAllSessions removes every stored session.
func ClearAllSessions() error {
	return os.Remove(storePath)
}

// ListAllSessions decrypts and returns all stored sessions.
func ListAllSessions(key string) ([]*StoredSession, error) {
	b, err := os.ReadFile(storePath)
	if err != nil {
		return []*StoredSession{}, nil
	}

	var data map[string]map[string]string
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}

	sessions := []*StoredSession{}
	for profile, enc := range data {
		sess, err := decodeSession(profile, enc, key)
		if err != nil {
			return nil, fmt.Errorf("profile '%s': %w", profile, err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// ListProfiles returns the stored profile names without decrypting anything.
func ListProfiles() ([]string, error) {
	b, err := os.ReadFile(storePath)
	if err != nil {
		return []string{}, nil
	}
	var data map[string]interface{}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	return keys, nil
}
