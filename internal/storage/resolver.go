// Package storage persists file bytes on a local disk root and keeps the
// metadata records that describe them. All placement goes through the
// path resolver, which scopes every file under its owner's ID so users
// can't collide with each other by construction.
package storage

import (
	"fmt"
	"os"
	"path"
	"strings"

	"mmvds/files-api/internal/apperr"
)

// Resolve maps a logical, user-supplied path to the concrete location on
// disk and makes sure the intermediate directories exist. A trailing
// separator marks a directory upload, in which case the original file
// name becomes the final segment. The returned logical path is what gets
// persisted on the metadata record.
func (s *Service) Resolve(userID, logicalPath, fallbackFilename string) (concretePath, adjustedPath string, err error) {
	if strings.HasSuffix(logicalPath, "/") {
		logicalPath += fallbackFilename
	}

	// A ".." segment could climb out of the user's segment and into
	// another user's files. User isolation holds by construction only
	// when every resolved path stays under root/userID.
	for _, segment := range strings.Split(logicalPath, "/") {
		if segment == ".." {
			return "", "", apperr.ErrForbidden
		}
	}

	concretePath = s.diskPath(userID, logicalPath)

	if !strings.HasPrefix(concretePath, s.diskPath(userID, "/")) {
		return "", "", apperr.ErrForbidden
	}

	if err := os.MkdirAll(path.Dir(concretePath), 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create storage directories, %w", err)
	}

	return concretePath, logicalPath, nil
}

// diskPath joins the storage root, the owner's ID and the logical path,
// collapsing any doubled separators the concatenation produced.
func (s *Service) diskPath(userID, logicalPath string) string {
	p := s.root + "/" + userID + "/" + logicalPath

	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}

	return p
}
