package storage

import (
	"path"
	"time"

	afsstorage "github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// Asset is the payload of downloaded and uploaded events.
type Asset struct {
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"modTime,omitempty"`
}

func newAsset(URL, contentType string, object afsstorage.Object) *Asset {
	ret := &Asset{URL: URL, Name: path.Base(url.Path(URL)), ContentType: contentType}
	if object != nil {
		ret.Size = object.Size()
		ret.ModTime = object.ModTime()
	}
	return ret
}
