package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/wordformations/config"
)

// The cache holds large objects that should be built only once per process,
// such as loaded dictionaries. A server answering queries for several word
// lists keeps one handle per list here.

type cache struct {
	sync.Mutex
	objects map[string]any
}

type LoadFunc func(cfg *config.Config, key string) (any, error)

// GlobalObjectCache is the process-wide object cache.
var GlobalObjectCache *cache

var createOnce sync.Once

func (c *cache) get(cfg *config.Config, key string, loadFunc LoadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := loadFunc(cfg, key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

func (c *cache) set(key string, obj any) {
	c.Lock()
	defer c.Unlock()
	c.objects[key] = obj
}

func (c *cache) remove(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, key)
}

func CreateGlobalObjectCache() {
	createOnce.Do(func() {
		GlobalObjectCache = &cache{objects: make(map[string]any)}
	})
}

// Load returns the object stored under key, calling loadFunc to build it the
// first time. A failed load is not cached.
func Load(cfg *config.Config, key string, loadFunc LoadFunc) (any, error) {
	CreateGlobalObjectCache()
	return GlobalObjectCache.get(cfg, key, loadFunc)
}

// Populate stores obj under key, replacing whatever was there.
func Populate(key string, obj any) {
	CreateGlobalObjectCache()
	GlobalObjectCache.set(key, obj)
}

// Evict drops key from the cache, so that the next Load rebuilds it.
func Evict(key string) {
	CreateGlobalObjectCache()
	GlobalObjectCache.remove(key)
}
