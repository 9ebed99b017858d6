// Package artwork retrieves cover images for queue entries.
package artwork

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/tessro/emcee/internal/core"
	"github.com/tessro/emcee/internal/errors"
)

// Source is the slice of the daemon contract the fetcher needs.
type Source interface {
	AlbumArt(uri string) ([]byte, error)
	EmbeddedPicture(uri string) ([]byte, error)
}

// Fetcher pulls artwork for a track from the daemon.
type Fetcher struct {
	source Source
	log    *zap.Logger
}

// NewFetcher creates a fetcher backed by the given daemon connection.
func NewFetcher(source Source, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{source: source, log: log}
}

// Fetch tries both retrieval methods for uri: the cover file stored
// next to the track, then the picture embedded in its tags. A failing
// source simply contributes nothing; "no art" is not an error. The
// album-art result always precedes the embedded picture.
func (f *Fetcher) Fetch(uri string) []core.Attachment {
	var result errors.PartialResult[[]core.Attachment]

	if data, err := f.source.AlbumArt(uri); err != nil {
		result.AddError(fmt.Errorf("albumart: %w", err))
	} else if len(data) > 0 {
		result.Data = append(result.Data, attachment(data))
	}

	if data, err := f.source.EmbeddedPicture(uri); err != nil {
		result.AddError(fmt.Errorf("readpicture: %w", err))
	} else if len(data) > 0 {
		result.Data = append(result.Data, attachment(data))
	}

	if result.HasErrors() {
		f.log.Debug("artwork sources unavailable",
			zap.String("uri", uri),
			zap.String("detail", result.ErrorSummary()))
	}

	return result.Data
}

func attachment(data []byte) core.Attachment {
	return core.Attachment{
		Data: data,
		MIME: http.DetectContentType(data),
	}
}
