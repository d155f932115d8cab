package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UniqueFilename builds a UUID-based filename preserving the (lowercased)
// extension of the uploaded original, so stored submissions never collide.
func UniqueFilename(originalFilename string) (string, error) {
	fileUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID for filename: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return fileUUID.String() + ext, nil
}
