// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API keys and contact addresses. A value set in
// the process environment wins; a .env file is loaded into the environment
// first (without overriding variables already set), and a directory of
// plain-text files is the last fallback. In that directory the filename is
// the key name in lower-kebab form (SPRINGER_API_KEY is springer-api-key)
// and the trimmed file contents are the value.
//
// Supported keys: CROSSREF_MAILTO, PUBMED_API_KEY, SPRINGER_API_KEY, WILEY_API_KEY.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Credential names, as environment variables.
const (
	CrossrefMailto = "CROSSREF_MAILTO"
	PubMedAPIKey   = "PUBMED_API_KEY"
	SpringerAPIKey = "SPRINGER_API_KEY"
	WileyAPIKey    = "WILEY_API_KEY"
)

// Store looks credentials up in the environment and then in the files read
// from the secrets directory.
type Store struct {
	files  map[string]string
	getenv func(string) string
}

// Open loads envFile (when it exists) into the process environment and
// reads the secrets directory dir. Neither needs to exist.
func Open(envFile, dir string) (*Store, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("loading %s: %w", envFile, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("checking %s: %w", envFile, err)
		}
	}
	files, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return &Store{files: files, getenv: os.Getenv}, nil
}

// Lookup returns the value of the credential name and whether one was found.
func (s *Store) Lookup(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	getenv := s.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(name)); v != "" {
		return v, true
	}
	if v, ok := s.files[FileName(name)]; ok {
		return v, true
	}
	return "", false
}

// Get is Lookup without the found flag.
func (s *Store) Get(name string) string {
	v, _ := s.Lookup(name)
	return v
}

// FileName returns the secrets-directory file name for an environment
// variable name.
func FileName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
