package dictionary

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/domino14/wordformations/assets"
	"github.com/domino14/wordformations/cache"
	"github.com/domino14/wordformations/config"
)

const CacheKeyPrefix = "dictionary:"

// ResourceOpener resolves a word list name to a file under dataPath, falling
// back to the word lists bundled in the binary.
func ResourceOpener(dataPath string) OpenFunc {
	return func(name string) (io.ReadCloser, error) {
		if !fs.ValidPath(name) {
			return nil, fmt.Errorf("invalid resource name %q: %w", name, ErrResourceNotFound)
		}
		if dataPath != "" {
			f, err := os.Open(filepath.Join(dataPath, filepath.FromSlash(name)))
			if err == nil {
				return f, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
		f, err := assets.FS.Open(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%s: %w", name, ErrResourceNotFound)
			}
			return nil, err
		}
		return f, nil
	}
}

// Load starts loading the named word list using the configured data path
// and load timeout, and returns the handle at once.
func Load(cfg *config.Config, name string) *Dictionary {
	return LoadFrom(name, ResourceOpener(cfg.GetString(config.ConfigDataPath)),
		cfg.GetDuration(config.ConfigLoadTimeout))
}

// CacheLoadFunc is the function that loads a dictionary into the global cache.
func CacheLoadFunc(cfg *config.Config, key string) (any, error) {
	name := key[len(CacheKeyPrefix):]
	return Load(cfg, name), nil
}

// Get returns the process-wide handle for the named word list, starting its
// load the first time it is asked for. A handle whose load failed stays
// failed; use Reload to try again.
func Get(cfg *config.Config, name string) (*Dictionary, error) {
	obj, err := cache.Load(cfg, CacheKeyPrefix+name, CacheLoadFunc)
	if err != nil {
		return nil, err
	}
	d, ok := obj.(*Dictionary)
	if !ok {
		return nil, errors.New("cached object is not a dictionary")
	}
	return d, nil
}

// Reload discards the cached handle for name and starts a fresh load.
func Reload(cfg *config.Config, name string) (*Dictionary, error) {
	cache.Evict(CacheKeyPrefix + name)
	return Get(cfg, name)
}
