/*
 * Copyright (C) 2020-2022, IrineSistiana
 *
 * This file is part of linked-list.
 *
 * linked-list is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * linked-list is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package seed_provider loads cache seed files from disk and keeps
// their consumers up to date. A seed file is a plain text list of
// entries that the daemon preloads into its cache at startup. If
// auto reload is enabled, the provider watches the file and pushes
// the new content to all listeners whenever it changes.
package seed_provider

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Vergil645/linked-list/mlog"
	"github.com/Vergil645/linked-list/pkg/safe_close"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SeedManager holds SeedProviders by their tags.
type SeedManager struct {
	pm sync.RWMutex
	ps map[string]*SeedProvider
}

// SeedListener receives the seed file content after every (re)load.
type SeedListener interface {
	Update(newData []byte) error
}

func NewSeedManager() *SeedManager {
	return &SeedManager{
		ps: make(map[string]*SeedProvider),
	}
}

func (m *SeedManager) AddProvider(tag string, p *SeedProvider) {
	m.pm.Lock()
	defer m.pm.Unlock()
	m.ps[tag] = p
}

// GetProvider returns nil if no provider was added with this tag.
func (m *SeedManager) GetProvider(tag string) *SeedProvider {
	m.pm.RLock()
	defer m.pm.RUnlock()
	return m.ps[tag]
}

type SeedProviderConfig struct {
	Tag        string `yaml:"tag"`
	File       string `yaml:"file"`
	AutoReload bool   `yaml:"auto_reload"`
}

type SeedProvider struct {
	logger     *zap.Logger
	file       string
	autoReload bool

	lm        sync.Mutex
	listeners map[SeedListener]struct{}

	sc *safe_close.SafeClose
}

// NewSeedProvider creates a provider for cfg.File. It reads the file
// once to make sure it is accessible.
func NewSeedProvider(lg *zap.Logger, cfg SeedProviderConfig) (*SeedProvider, error) {
	if lg == nil {
		lg = mlog.Nop()
	}
	sp := &SeedProvider{
		logger:     lg,
		file:       cfg.File,
		autoReload: cfg.AutoReload,
		listeners:  make(map[SeedListener]struct{}),
		sc:         safe_close.NewSafeClose(),
	}

	if err := sp.init(); err != nil {
		return nil, err
	}
	return sp, nil
}

func (sp *SeedProvider) init() error {
	if _, err := sp.loadFromDisk(); err != nil {
		return err
	}

	if sp.autoReload {
		if err := sp.startFsWatcher(); err != nil {
			return fmt.Errorf("failed to start fs watcher, %w", err)
		}
	}
	return nil
}

func (sp *SeedProvider) Close() {
	sp.sc.Done()
	sp.sc.CloseWait()
}

// LoadAndAddListener calls l.Update with the current seed data, then
// registers l for future reloads. If the first Update fails, l is not
// registered.
func (sp *SeedProvider) LoadAndAddListener(l SeedListener) error {
	b, err := sp.GetData()
	if err != nil {
		return err
	}

	if err := l.Update(b); err != nil {
		return err
	}

	sp.lm.Lock()
	sp.listeners[l] = struct{}{}
	sp.lm.Unlock()
	return nil
}

func (sp *SeedProvider) DeleteListener(l SeedListener) {
	sp.lm.Lock()
	delete(sp.listeners, l)
	sp.lm.Unlock()
}

func (sp *SeedProvider) GetData() ([]byte, error) {
	return sp.loadFromDisk()
}

// Reload reads the seed file and pushes its content to all listeners.
func (sp *SeedProvider) Reload() error {
	b, err := sp.loadFromDisk()
	if err != nil {
		return err
	}
	sp.pushData(b)
	return nil
}

// pushData triggers all listeners.
func (sp *SeedProvider) pushData(newData []byte) {
	sp.lm.Lock()
	ls := make([]SeedListener, 0, len(sp.listeners))
	for l := range sp.listeners {
		ls = append(ls, l)
	}
	sp.lm.Unlock()

	for _, l := range ls {
		if err := l.Update(newData); err != nil {
			sp.logger.Error(
				"failed to update seed listener",
				zap.String("file", sp.file),
				zap.Error(err),
			)
		}
	}
}

func (sp *SeedProvider) loadFromDisk() ([]byte, error) {
	return os.ReadFile(sp.file)
}

func (sp *SeedProvider) startFsWatcher() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(sp.file); err != nil {
		return err
	}

	go func() {
		defer w.Close()

		// Editors usually fire multiple events per save. Wait until
		// the file settles before reloading.
		var delayReloadTimer *time.Timer
		for {
			select {
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				sp.logger.Info(
					"fs event",
					zap.Stringer("event", e.Op),
					zap.String("file", e.Name),
				)

				if delayReloadTimer != nil {
					delayReloadTimer.Stop()
				}
				delayReloadTimer = time.AfterFunc(time.Second, func() {
					if hasOp(e, fsnotify.Remove) {
						_ = w.Remove(sp.file)
						if err := w.Add(sp.file); err != nil {
							sp.logger.Error(
								"failed to re-watch file, auto reload may not work anymore",
								zap.String("file", sp.file),
								zap.Error(err),
							)
						}
					}

					if v, err := sp.loadFromDisk(); err != nil {
						sp.logger.Error(
							"failed to reload file",
							zap.String("file", sp.file),
							zap.Error(err),
						)
					} else {
						sp.logger.Info(
							"seed file reloaded",
							zap.String("file", sp.file),
							zap.Int("length", len(v)),
						)
						sp.pushData(v)
					}
				})

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				sp.logger.Error("fs notify error", zap.Error(err))
			case <-sp.sc.ReceiveCloseSignal():
				return
			}
		}
	}()
	return nil
}

func hasOp(e fsnotify.Event, op fsnotify.Op) bool {
	return e.Op&op == op
}
