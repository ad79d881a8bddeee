package crewfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg/errno"
	"github.com/kiosk404/andalem/pkg/logger"
)

// Store keeps crew files in a single directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. The directory is created lazily.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory holding the crew files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path of the crew saved under the normalized name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+Extension)
}

// Save writes the configuration of sess under the normalized form of name.
// The file is written to a temporary sibling and renamed into place.
func (s *Store) Save(_ context.Context, sess *entity.Session, name string, overwrite bool) (string, error) {
	normalized := FormatFilename(name)
	if normalized == "" {
		return "", errno.ErrEmptyName
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", &IOError{Op: opSave, Path: s.dir, Err: err}
	}

	path := s.Path(normalized)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s", errno.ErrDuplicateName, normalized)
		}
	}

	data, err := encode(sess)
	if err != nil {
		return "", &IOError{Op: opSave, Path: path, Err: err}
	}
	tmp, err := os.CreateTemp(s.dir, "."+normalized+"-*")
	if err != nil {
		return "", &IOError{Op: opSave, Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", &IOError{Op: opSave, Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &IOError{Op: opSave, Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", &IOError{Op: opSave, Path: path, Err: err}
	}

	logger.InfoX(pkg.ModuleName, "[CrewFile] saved crew %q to %s", normalized, path)
	return normalized, nil
}

// Load reads the crew saved under name into a fresh session.
func (s *Store) Load(_ context.Context, name string) (*entity.Session, error) {
	normalized := FormatFilename(name)
	if normalized == "" {
		return nil, errno.ErrCrewFileNotFound
	}
	path := s.Path(normalized)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errno.ErrCrewFileNotFound, normalized)
	}
	if err != nil {
		return nil, &IOError{Op: opLoad, Path: path, Err: err}
	}
	sess, err := decode(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	sess.CurrentCrew = normalized
	return sess, nil
}

// List returns the names of the saved crews, creating the directory if absent.
func (s *Store) List(_ context.Context) ([]string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, &IOError{Op: opList, Path: s.dir, Err: err}
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &IOError{Op: opList, Path: s.dir, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Extension))
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes the crew saved under name.
func (s *Store) Remove(_ context.Context, name string) error {
	normalized := FormatFilename(name)
	if normalized == "" {
		return errno.ErrCrewFileNotFound
	}
	path := s.Path(normalized)
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", errno.ErrCrewFileNotFound, normalized)
	}
	if err != nil {
		return &IOError{Op: opRemove, Path: path, Err: err}
	}
	logger.InfoX(pkg.ModuleName, "[CrewFile] removed crew %q", normalized)
	return nil
}

// ReadFile parses a crew file at an arbitrary path.
func ReadFile(path string) (*entity.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: opLoad, Path: path, Err: err}
	}
	sess, err := decode(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	sess.CurrentCrew = FormatFilename(strings.TrimSuffix(filepath.Base(path), Extension))
	return sess, nil
}

// WriteFile writes the configuration of sess to an arbitrary path.
func WriteFile(path string, sess *entity.Session) error {
	data, err := encode(sess)
	if err != nil {
		return &IOError{Op: opSave, Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &IOError{Op: opSave, Path: path, Err: err}
	}
	return nil
}
