package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"robotadvisor/internal/core"
)

// ErrEmptyCatalog is returned when no usable robot definition was found.
var ErrEmptyCatalog = errors.New("no available robot definitions found")

const urdfSubdir = "urdfs"

// Load scans assetsDir/urdfs/*.urdf in name order and merges the financial
// metadata. Unparseable files are skipped; the first record for a robot name
// wins.
func Load(ctx context.Context, assetsDir string, logger *slog.Logger) ([]core.RobotRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	meta, metaPath, err := loadMetadata(assetsDir)
	if err != nil {
		logger.Warn("robot metadata unreadable, continuing without it", "path", metaPath, "err", err)
		meta = map[string]robotMetadata{}
	} else if metaPath != "" {
		logger.Debug("robot metadata loaded", "path", metaPath, "entries", len(meta))
	}

	paths, err := filepath.Glob(filepath.Join(assetsDir, urdfSubdir, "*.urdf"))
	if err != nil {
		return nil, fmt.Errorf("scan urdf directory: %w", err)
	}
	sort.Strings(paths)

	robots := make([]core.RobotRecord, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file := filepath.Base(path)
		record, err := ParseURDF(path)
		if err != nil {
			logger.Warn("skipping unparseable urdf", "file", file, "err", err)
			continue
		}
		record.URDFFilename = file
		if m, ok := meta[file]; ok {
			for _, field := range m.apply(&record) {
				logger.Warn("ignoring non-numeric robot metadata", "file", file, "field", field)
			}
		}
		if first, dup := seen[record.Name]; dup {
			logger.Warn("duplicate robot name, keeping first definition", "robot", record.Name, "file", file, "kept", first)
			continue
		}
		seen[record.Name] = file
		robots = append(robots, record)
	}

	if len(robots) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmptyCatalog, filepath.Join(assetsDir, urdfSubdir))
	}
	return robots, nil
}

type snapshot struct {
	robots   []core.RobotRecord
	byName   map[string]core.RobotRecord
	loadedAt time.Time
}

// Catalog serves the most recently loaded robot snapshot. Snapshots are
// replaced whole, so readers never observe a partial reload.
type Catalog struct {
	assetsDir string
	logger    *slog.Logger
	current   atomic.Pointer[snapshot]
}

// New returns a Catalog reading from assetsDir. Nothing is loaded until
// Reload or the first Robots call.
func New(assetsDir string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{assetsDir: assetsDir, logger: logger}
}

// Reload loads the catalog from disk and swaps it in. On failure the
// previous snapshot stays in place.
func (c *Catalog) Reload(ctx context.Context) error {
	robots, err := Load(ctx, c.assetsDir, c.logger)
	if err != nil {
		return err
	}
	byName := make(map[string]core.RobotRecord, len(robots))
	for _, r := range robots {
		byName[r.Name] = r
	}
	c.current.Store(&snapshot{robots: robots, byName: byName, loadedAt: time.Now().UTC()})
	c.logger.Info("robot catalog loaded", "robots", len(robots), "assets_dir", c.assetsDir)
	return nil
}

func (c *Catalog) snapshot(ctx context.Context) (*snapshot, error) {
	if s := c.current.Load(); s != nil {
		return s, nil
	}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c.current.Load(), nil
}

// Robots returns a copy of the current robot records.
func (c *Catalog) Robots(ctx context.Context) ([]core.RobotRecord, error) {
	s, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.RobotRecord, len(s.robots))
	copy(out, s.robots)
	return out, nil
}

// Robot looks up a single robot by name.
func (c *Catalog) Robot(ctx context.Context, name string) (core.RobotRecord, bool, error) {
	s, err := c.snapshot(ctx)
	if err != nil {
		return core.RobotRecord{}, false, err
	}
	r, ok := s.byName[name]
	return r, ok, nil
}

// LoadedAt reports when the current snapshot was loaded, or the zero time.
func (c *Catalog) LoadedAt() time.Time {
	if s := c.current.Load(); s != nil {
		return s.loadedAt
	}
	return time.Time{}
}
