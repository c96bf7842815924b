package data

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"tradein-valuation/internal/model"
)

// catalogFile is one YAML file in the profile directory, usually one brand.
type catalogFile struct {
	Devices []ProfileRecord `yaml:"devices"`
}

// FileStore serves profiles from a directory of YAML catalog files. Reload
// swaps the whole catalog atomically.
type FileStore struct {
	dir    string
	logger *zap.Logger

	mu       sync.RWMutex
	profiles map[string]*model.DeviceMarketProfile
}

// NewFileStore loads every *.yaml / *.yml file in dir.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	absDir, err := filepath.Abs(dir)
	if err == nil {
		dir = absDir
	}
	s := &FileStore{dir: dir, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the directory. On error the previous catalog stays live.
func (s *FileStore) Reload() error {
	profiles, err := LoadProfileDir(s.dir)
	if err != nil {
		return err
	}
	next := make(map[string]*model.DeviceMarketProfile, len(profiles))
	for _, p := range profiles {
		next[p.ID] = p
	}

	s.mu.Lock()
	s.profiles = next
	s.mu.Unlock()
	s.logger.Info("profile catalog loaded", zap.String("dir", s.dir), zap.Int("profiles", len(next)))
	return nil
}

func (s *FileStore) GetProfile(_ context.Context, deviceID string) (*model.DeviceMarketProfile, error) {
	s.mu.RLock()
	p, ok := s.profiles[deviceID]
	s.mu.RUnlock()
	if !ok || !p.Active {
		return nil, errors.Wrapf(model.ErrNotFound, "%q", deviceID)
	}
	return p, nil
}

func (s *FileStore) List(_ context.Context) ([]*model.DeviceMarketProfile, error) {
	s.mu.RLock()
	out := make([]*model.DeviceMarketProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if p.Active {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	sortProfiles(out)
	return out, nil
}

// LoadProfileDir parses every *.yaml / *.yml file in dir, inactive entries
// included. A device id may appear in only one file.
func LoadProfileDir(dir string) ([]*model.DeviceMarketProfile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read profile dir %s", dir)
	}
	seen := map[string]string{}
	var out []*model.DeviceMarketProfile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		profiles, err := LoadProfileFile(path)
		if err != nil {
			return nil, err
		}
		for _, p := range profiles {
			if prev, dup := seen[p.ID]; dup {
				return nil, errors.Errorf("%s: duplicate device id %q (also in %s)", path, p.ID, prev)
			}
			seen[p.ID] = path
			out = append(out, p)
		}
	}
	return out, nil
}

// LoadProfileFile parses one catalog file.
func LoadProfileFile(path string) ([]*model.DeviceMarketProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read profile file")
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, "failed to parse profile file %s", path)
	}
	out := make([]*model.DeviceMarketProfile, 0, len(f.Devices))
	for i, r := range f.Devices {
		p, err := r.ToModel()
		if err != nil {
			return nil, errors.Wrapf(err, "%s: device %d", path, i)
		}
		out = append(out, p)
	}
	return out, nil
}

// SaveProfileFile writes profiles in the catalog format.
func SaveProfileFile(path string, profiles []*model.DeviceMarketProfile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}
	f := catalogFile{Devices: make([]ProfileRecord, len(profiles))}
	for i, p := range profiles {
		f.Devices[i] = RecordFromModel(p)
	}
	raw, err := yaml.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "failed to marshal profiles")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrap(err, "failed to write profile file")
	}
	return nil
}
