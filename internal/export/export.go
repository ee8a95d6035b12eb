package export

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cx-miguel-neiva/cwv-audit/plugins"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// Uploader copies a written file somewhere else.
type Uploader interface {
	Upload(ctx context.Context, path string) error
}

// Written is a file produced by a Writer.
type Written struct {
	Path   string
	Format string
	Size   int64
}

// Writer runs every table through every configured exporter. A failing
// export is reported and skipped; it never stops the remaining ones.
type Writer struct {
	Exporters []plugins.Exporter
	// Mirror, when set, receives a copy of every written file.
	Mirror Uploader
	// OnError is called for every export or upload failure.
	OnError func(err error)
}

func (w *Writer) Write(ctx context.Context, exports ...plugins.Export) []Written {
	var written []Written
	seen := make(map[string]int)

	for _, e := range exports {
		if e.Dir != "" {
			if err := os.MkdirAll(e.Dir, 0755); err != nil {
				w.fail(fmt.Errorf("failed to create export directory: %w", err), "")
				return written
			}
		}

		for _, exp := range w.Exporters {
			path := exp.Path(e)
			if err := exp.Write(ctx, path, e); err != nil {
				w.fail(err, exp.Format())
				continue
			}

			var size int64
			if info, err := os.Stat(path); err == nil {
				size = info.Size()
			}
			if i, ok := seen[path]; ok {
				written[i].Size = size
				continue
			}
			seen[path] = len(written)
			written = append(written, Written{Path: path, Format: exp.Format(), Size: size})
		}
	}

	for _, f := range written {
		log.Info().Str("file", f.Path).Str("size", humanize.Bytes(uint64(f.Size))).Msg("Export saved")
		if w.Mirror == nil {
			continue
		}
		if err := w.Mirror.Upload(ctx, f.Path); err != nil {
			w.fail(fmt.Errorf("failed to upload %s: %w", f.Path, err), "")
		}
	}

	return written
}

func (w *Writer) fail(err error, format string) {
	notice := "EXPORT FAILED"
	if format != "" {
		notice = fmt.Sprintf("FAILED TO CREATE %s FILE", strings.ToUpper(format))
	}
	log.Error().Err(err).Msg(notice)
	if w.OnError != nil {
		w.OnError(err)
	}
}
