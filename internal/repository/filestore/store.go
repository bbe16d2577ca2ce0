// Package filestore persists entities as one JSON document per id
// under {dir}/{entity}/{id}.json. Writes go to a temp file which is
// fsynced and renamed into place, so a crash never leaves a partially
// written document behind.
package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"

	ierr "github.com/tierforge/tierforge/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type docStore[T any] struct {
	dir    string
	entity string
}

func newDocStore[T any](baseDir, entity string) (*docStore[T], error) {
	dir := filepath.Join(baseDir, entity)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to create storage directory for %s", entity).
			WithReportableDetails(map[string]interface{}{"dir": dir}).
			Mark(ierr.ErrDatabase)
	}
	return &docStore[T]{dir: dir, entity: entity}, nil
}

func (s *docStore[T]) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *docStore[T]) exists(id string) bool {
	_, err := os.Stat(s.path(id))
	return err == nil
}

// write serializes the document and atomically replaces the target
// file with a temp-write plus rename.
func (s *docStore[T]) write(ctx context.Context, id string, doc *T) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to serialize %s document", s.entity).
			Mark(ierr.ErrInternal)
	}

	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return storageErr(err, s.entity, id)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storageErr(err, s.entity, id)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return storageErr(err, s.entity, id)
	}
	if err := tmp.Close(); err != nil {
		return storageErr(err, s.entity, id)
	}
	if err := os.Rename(tmpName, s.path(id)); err != nil {
		return storageErr(err, s.entity, id)
	}
	return nil
}

func (s *docStore[T]) read(ctx context.Context, id string) (*T, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ierr.NewErrorf("%s %s not found", s.entity, id).
				WithReportableDetails(map[string]interface{}{"id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, storageErr(err, s.entity, id)
	}
	var doc T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Corrupt %s document on disk", s.entity).
			WithReportableDetails(map[string]interface{}{"id": id}).
			Mark(ierr.ErrDatabase)
	}
	return &doc, nil
}

func (s *docStore[T]) readAll(ctx context.Context) ([]*T, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, storageErr(err, s.entity, "")
	}
	out := make([]*T, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		doc, err := s.read(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *docStore[T]) remove(ctx context.Context, id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return ierr.NewErrorf("%s %s not found", s.entity, id).
				WithReportableDetails(map[string]interface{}{"id": id}).
				Mark(ierr.ErrNotFound)
		}
		return storageErr(err, s.entity, id)
	}
	return nil
}

func storageErr(err error, entity, id string) error {
	details := map[string]interface{}{"entity": entity}
	if id != "" {
		details["id"] = id
	}
	return ierr.WithError(err).
		WithHint("File storage operation failed").
		WithReportableDetails(details).
		Mark(ierr.ErrDatabase)
}
