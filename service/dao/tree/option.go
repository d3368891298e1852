package tree

import (
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

type Option func(s *Service)

// WithFs sets the storage service used to load trees
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithFsOptions sets storage options, for example an embed.FS
func WithFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.fsOptions = options
	}
}

// WithBaseURL sets the location relative URLs are resolved against
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

// WithExtension sets the default extension appended to URLs without one
func WithExtension(ext string) Option {
	return func(s *Service) {
		s.extension = ext
	}
}
