// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package history

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/pdf-ocr/internal/converter"
)

// Decision says whether a document needs converting
type Decision struct {
	DocumentPath  string
	DocumentHash  string
	ShouldProcess bool
	Reason        string
}

// Decide checks a document against its last recorded run. Only a fully
// successful run of identical content whose output was saved is skipped.
func (s *Store) Decide(documentPath string) (*Decision, error) {
	decision := &Decision{DocumentPath: documentPath}

	info, err := os.Stat(documentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() == 0 {
		decision.Reason = "File is empty"
		return decision, nil
	}

	hash, err := HashFile(documentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}
	decision.DocumentHash = hash

	last, err := s.LastRun(documentPath)
	if err != nil {
		return nil, err
	}

	switch {
	case last == nil:
		decision.ShouldProcess = true
		decision.Reason = "New document"
	case last.DocumentHash != hash:
		decision.ShouldProcess = true
		decision.Reason = fmt.Sprintf("Document changed (old hash: %s, new hash: %s)", last.DocumentHash, hash)
	case last.Status != converter.StatusOK:
		decision.ShouldProcess = true
		decision.Reason = fmt.Sprintf("Previous run ended with status %s", last.Status)
	case last.OutputPath != "" && !last.Persisted:
		decision.ShouldProcess = true
		decision.Reason = fmt.Sprintf("Previous output was not written to %s", last.OutputPath)
	default:
		decision.Reason = "Document unchanged (hash matches)"
	}

	return decision, nil
}

// HashFile calculates the SHA-256 hash of a file's content
func HashFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
