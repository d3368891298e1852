package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/fluxtree/extension"
	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/service/event"
	"gopkg.in/yaml.v3"
)

const name = "system/storage"

// Event types emitted by storage tasks
const (
	EventDownloaded = "downloaded"
	EventUploaded   = "uploaded"
)

// Service moves the state between the state cell and afs locations
type Service struct {
	fs afs.Service
}

// Input represents download and upload parameters
type Input struct {
	URL string `json:"url"`
	// Format is one of json, yaml, text or raw, the URL extension decides when empty
	Format string `json:"format,omitempty"`
}

// New creates a storage service, nil fs means afs.New()
func New(fs afs.Service) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() map[string]graph.Task {
	return map[string]graph.Task{
		"download": extension.TypedTask[Input](s.download),
		"upload":   extension.TypedTask[Input](s.upload),
	}
}

// download replaces the state with the decoded content of input.URL
func (s *Service) download(ctx context.Context, input *Input, st state.Handle) error {
	if input.URL == "" {
		return fmt.Errorf("url was empty")
	}
	data, err := s.fs.DownloadWithURL(ctx, input.URL)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", input.URL, err)
	}
	kind := contentType(input.Format, url.Path(input.URL))
	var value interface{}
	switch kind {
	case contentJSON:
		err = json.Unmarshal(data, &value)
	case contentYAML:
		err = yaml.Unmarshal(data, &value)
	case contentText:
		value = string(data)
	default:
		value = data
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", input.URL, err)
	}
	st.Set(value)
	return s.emit(ctx, EventDownloaded, input.URL, kind)
}

// upload writes the encoded state to input.URL
func (s *Service) upload(ctx context.Context, input *Input, st state.Handle) error {
	if input.URL == "" {
		return fmt.Errorf("url was empty")
	}
	kind := contentType(input.Format, url.Path(input.URL))
	data, err := encode(kind, st.Get())
	if err != nil {
		return fmt.Errorf("failed to encode state for %s: %w", input.URL, err)
	}
	if err = s.fs.Upload(ctx, input.URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %s: %w", input.URL, err)
	}
	return s.emit(ctx, EventUploaded, input.URL, kind)
}

func encode(kind string, value interface{}) ([]byte, error) {
	switch kind {
	case contentJSON:
		return json.Marshal(value)
	case contentYAML:
		return yaml.Marshal(value)
	}
	switch actual := value.(type) {
	case nil:
		return []byte{}, nil
	case []byte:
		return actual, nil
	case string:
		return []byte(actual), nil
	}
	return []byte(fmt.Sprintf("%v", value)), nil
}

func (s *Service) emit(ctx context.Context, eventType, URL, kind string) error {
	object, err := s.fs.Object(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to get object for %s: %w", URL, err)
	}
	return event.Emit(ctx, eventType, newAsset(URL, kind, object))
}
