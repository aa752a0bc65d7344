package config

import (
	"os"
	"path/filepath"
)

const (
	defaultAPIURL = "http://localhost:3000/api/v1"
	tokenFileName = ".poectl_token"
)

// APIURL returns the base URL for the POE Manager API.
// It can be overridden with the POECTL_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("POECTL_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

func SaveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0600)
}

func LoadToken() (string, error) {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func RemoveToken() error {
	path := tokenPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path)
}

func tokenPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}
