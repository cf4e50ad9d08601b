package index

import (
	"log/slog"

	"github.com/starford/wavemark/internal/library"
)

// Sync brings the cache in line with the library:
//   - rows whose file is gone are deleted
//   - rows whose file size changed are deleted so the next load re-probes
func Sync(db *DB, lib library.Provider, logger *slog.Logger) error {
	metas, err := lib.List("")
	if err != nil {
		return err
	}
	rows, err := db.ListTracks()
	if err != nil {
		return err
	}

	sizes := make(map[string]int64, len(metas))
	for _, m := range metas {
		sizes[m.Path] = m.Size
	}

	for _, r := range rows {
		size, ok := sizes[r.Path]
		if ok && size == r.Size {
			continue
		}
		if err := db.DeleteTrack(r.Path); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", r.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: removed stale", slog.String("path", r.Path))
	}
	return nil
}
