package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/fluxtree/model/run"
	"github.com/viant/fluxtree/service/dao"
	"github.com/viant/fluxtree/service/dao/criteria"
)

// Service stores run records as JSON files under a base URL
type Service struct {
	basePath string
	fs       afs.Service
	logger   *slog.Logger
	mu       sync.RWMutex
}

var _ dao.Service[string, run.Record] = (*Service)(nil)

func (s *Service) Save(ctx context.Context, record *run.Record) error {
	if record == nil {
		return dao.ErrNilEntity
	}
	if record.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run %v: %w", record.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.recordPath(record.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save run to %s: %w", filePath, err)
	}
	return nil
}

func (s *Service) Load(ctx context.Context, id string) (*run.Record, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	filePath := s.recordPath(id)
	if ok, _ := s.fs.Exists(ctx, filePath); !ok {
		return nil, fmt.Errorf("run %v: %w", id, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read run %v: %w", id, err)
	}
	record := &run.Record{}
	if err = json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %v: %w", id, err)
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.recordPath(id)
	if ok, _ := s.fs.Exists(ctx, filePath); !ok {
		return fmt.Errorf("run %v: %w", id, dao.ErrNotFound)
	}
	return s.fs.Delete(ctx, filePath)
}

// List returns stored runs, unreadable files are logged and skipped
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*run.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	var records []*run.Record
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn("failed to read run", "url", object.URL(), "error", err)
			continue
		}
		record := &run.Record{}
		if err = json.Unmarshal(data, record); err != nil {
			s.logger.Warn("failed to unmarshal run", "url", object.URL(), "error", err)
			continue
		}
		if !criteria.FilterByStatus(string(record.Status), parameters) {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Service) recordPath(id string) string {
	return url.Join(s.basePath, path.Base(id)+".json")
}

// New creates a service rooted at basePath, creating it when missing
func New(ctx context.Context, basePath string, fs afs.Service, logger *slog.Logger) (*Service, error) {
	if basePath == "" {
		return nil, errors.New("base path cannot be empty")
	}
	if fs == nil {
		fs = afs.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	basePath = url.Normalize(basePath, file.Scheme)
	if exists, _ := fs.Exists(ctx, basePath); !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	return &Service{basePath: basePath, fs: fs, logger: logger}, nil
}
