package ownership

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// MetaConfigRef ссылка, обновление которой инвалидирует снимок конфигурации.
const MetaConfigRef = "refs/meta/config"

// Loader строит снимок конфигурации владения для проекта.
type Loader func(ctx context.Context, project string) (*Index, error)

// Cache кэш снимков конфигурации по проектам. Конкурентные запросы на
// построение одного проекта коалесцируются: одновременно выполняется не
// более одной сборки на ключ.
type Cache struct {
	load  Loader
	log   *logrus.Logger
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]*Index
	// gens растет при каждой инвалидации ключа; сборка, начатая до
	// инвалидации, свой снимок в entries не записывает.
	gens map[string]uint64
}

// NewCache создает новый экземпляр Cache.
func NewCache(load Loader, log *logrus.Logger) *Cache {
	return &Cache{
		load:    load,
		log:     log,
		entries: make(map[string]*Index),
		gens:    make(map[string]uint64),
	}
}

// Get возвращает снимок проекта, при необходимости строя его.
func (c *Cache) Get(ctx context.Context, project string) (*Index, error) {
	c.mu.RLock()
	idx, ok := c.entries[project]
	c.mu.RUnlock()
	if ok {
		return idx, nil
	}

	result, err, _ := c.group.Do(project, func() (interface{}, error) {
		c.mu.RLock()
		gen := c.gens[project]
		c.mu.RUnlock()

		idx, err := c.load(ctx, project)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gens[project] == gen {
			c.entries[project] = idx
		}
		c.mu.Unlock()
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Index), nil
}

// Invalidate сбрасывает снимок проекта; следующий Get построит его заново.
func (c *Cache) Invalidate(project string) {
	c.mu.Lock()
	delete(c.entries, project)
	c.gens[project]++
	c.mu.Unlock()
	c.group.Forget(project)
	c.log.WithField("project", project).Info("Module owner config invalidated")
}

// OnRefUpdated обрабатывает уведомление об обновлении ссылки: снимок
// сбрасывается только для конфигурационной ветки проекта.
func (c *Cache) OnRefUpdated(project, ref string) {
	if strings.TrimSpace(ref) != MetaConfigRef {
		return
	}
	c.Invalidate(project)
}
