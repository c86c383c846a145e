// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords loads the flat keyword list that drives a harvest run.
package keywords

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoKeywords is returned when the keyword file holds no usable terms.
var ErrNoKeywords = errors.New("no keywords found")

// Load reads the keyword file at path. Each non-blank line, trimmed, is one
// keyword; order is preserved and duplicates are kept. A missing file or a
// file without keywords is an error.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("keyword file %s not found: %w", path, err)
		}
		return nil, fmt.Errorf("opening keyword file %s: %w", path, err)
	}
	defer f.Close()

	kws, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading keyword file %s: %w", path, err)
	}
	return kws, nil
}

// Read parses keywords from r using the same rules as Load.
func Read(r io.Reader) ([]string, error) {
	var kws []string
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if kw := strings.TrimSpace(line); kw != "" {
			kws = append(kws, kw)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(kws) == 0 {
		return nil, ErrNoKeywords
	}
	return kws, nil
}
