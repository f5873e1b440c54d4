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

package coremain

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"
	"strings"
	"sync"
	"time"

	"github.com/Vergil645/linked-list/mlog"
	"github.com/Vergil645/linked-list/pkg/cache"
	"github.com/Vergil645/linked-list/pkg/cache/mem_cache"
	"github.com/Vergil645/linked-list/pkg/cache/redis_cache"
	"github.com/Vergil645/linked-list/pkg/safe_close"
	"github.com/Vergil645/linked-list/pkg/seed_provider"
	"github.com/Vergil645/linked-list/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

const (
	defaultCacheSize    = 1024
	defaultEntryTTL     = time.Hour * 24
	defaultDumpInterval = time.Minute * 10
)

type Listd struct {
	logger *zap.Logger // non-nil logger.

	backend       cache.Backend
	seeds         *seed_provider.SeedManager
	seedProviders []*seed_provider.SeedProvider

	httpMux    *chi.Mux
	metricsReg *prometheus.Registry
	sc         *safe_close.SafeClose

	dumpMu sync.Mutex
}

// NewListd initializes a listd instance: the cache backend, seed
// providers, the cache api and the http server.
func NewListd(cfg *Config) (*Listd, error) {
	// Init logger.
	lg, err := mlog.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger, %w", err)
	}

	m := &Listd{
		logger:     lg,
		seeds:      seed_provider.NewSeedManager(),
		httpMux:    chi.NewRouter(),
		metricsReg: newMetricsReg(),
		sc:         safe_close.NewSafeClose(),
	}
	// This must be called after m.httpMux and m.metricsReg been set.
	m.initHttpMux()

	backend, err := newCacheBackend(lg, &cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to init cache backend, %w", err)
	}
	m.backend = backend

	// Shutdown sequence. Dump the cache a final time, then release the
	// seed watchers and the backend.
	m.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		m.logger.Info("starting shutdown sequences")
		if df := cfg.Cache.DumpFile; len(df) > 0 {
			m.dumpCache(df)
		}
		for _, sp := range m.seedProviders {
			sp.Close()
		}
		_ = m.backend.Close()
		m.logger.Info("cache backend closed")
	})

	// From here, call m.sc.SendCloseSignal() if any init step failed.

	if df := cfg.Cache.DumpFile; len(df) > 0 {
		m.loadDump(df)
		m.startDumpLoop(df, &cfg.Cache)
	}

	if err := m.loadSeeds(cfg); err != nil {
		m.sc.SendCloseSignal(err)
		return nil, err
	}

	m.regCacheAPI(&cfg.Cache)

	// Start http api server.
	if httpAddr := cfg.API.HTTP; len(httpAddr) > 0 {
		httpServer := &http.Server{
			Addr:              httpAddr,
			Handler:           m.httpMux,
			ReadHeaderTimeout: time.Second,
			IdleTimeout:       time.Second * 30,
		}
		if err := http2.ConfigureServer(httpServer, &http2.Server{
			IdleTimeout: time.Second * 30,
		}); err != nil {
			m.sc.SendCloseSignal(err)
			return nil, fmt.Errorf("failed to setup http2 server, %w", err)
		}

		cert, key := cfg.API.Cert, cfg.API.Key
		m.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			errChan := make(chan error, 1)
			go func() {
				m.logger.Info("starting api http server", zap.String("addr", httpAddr))
				if len(cert) > 0 || len(key) > 0 {
					errChan <- httpServer.ListenAndServeTLS(cert, key)
				} else {
					errChan <- httpServer.ListenAndServe()
				}
			}()
			select {
			case err := <-errChan:
				m.sc.SendCloseSignal(err)
			case <-closeSignal:
				_ = httpServer.Close()
			}
		})
	}

	return m, nil
}

// NewTestListd returns a listd instance for testing.
func NewTestListd(b cache.Backend) *Listd {
	m := &Listd{
		logger:     mlog.Nop(),
		backend:    b,
		seeds:      seed_provider.NewSeedManager(),
		httpMux:    chi.NewRouter(),
		metricsReg: newMetricsReg(),
		sc:         safe_close.NewSafeClose(),
	}
	m.initHttpMux()
	m.regCacheAPI(&CacheConfig{})
	return m
}

func (m *Listd) GetSafeClose() *safe_close.SafeClose {
	return m.sc
}

// CloseWithErr is a shortcut for m.sc.SendCloseSignal
func (m *Listd) CloseWithErr(err error) {
	m.sc.SendCloseSignal(err)
}

// WaitClosed blocks until the daemon is closed and all its goroutines
// exited. It returns the error the daemon was closed with, if any.
func (m *Listd) WaitClosed() error {
	<-m.sc.ReceiveCloseSignal()
	m.sc.Done()
	m.sc.CloseWait()
	return m.sc.Err()
}

// Logger returns a non-nil logger.
func (m *Listd) Logger() *zap.Logger {
	return m.logger
}

// GetBackend returns the cache backend.
func (m *Listd) GetBackend() cache.Backend {
	return m.backend
}

// GetMetricsReg returns a prometheus.Registerer with a prefix of "listd_"
func (m *Listd) GetMetricsReg() prometheus.Registerer {
	return prometheus.WrapRegistererWithPrefix("listd_", m.metricsReg)
}

func (m *Listd) GetAPIRouter() *chi.Mux {
	return m.httpMux
}

func newMetricsReg() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(collectors.NewGoCollector())
	return reg
}

// newCacheBackend initializes the configured backend: redis if a url
// is set, the in-memory cache otherwise.
func newCacheBackend(lg *zap.Logger, cfg *CacheConfig) (cache.Backend, error) {
	if len(cfg.Redis) != 0 {
		opt, err := redis.ParseURL(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url, %w", err)
		}
		opt.MaxRetries = -1
		r := redis.NewClient(opt)
		rcOpts := redis_cache.RedisCacheOpts{
			Client:        r,
			ClientCloser:  r,
			ClientTimeout: time.Duration(cfg.RedisTimeout) * time.Millisecond,
			Logger:        lg,
		}
		rc, err := redis_cache.NewRedisCache(rcOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis cache, %w", err)
		}
		return rc, nil
	}

	size := cfg.Size
	if size <= 0 {
		size = defaultCacheSize
	}
	return mem_cache.NewMemCache(size, time.Duration(cfg.CleanerInterval)*time.Second), nil
}

// initHttpMux initializes api entries. It MUST be called after m.metricsReg being initialized.
func (m *Listd) initHttpMux() {
	// Register metrics.
	m.httpMux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.metricsReg, promhttp.HandlerOpts{}))

	// Register pprof.
	m.httpMux.Route("/debug/pprof", func(r chi.Router) {
		r.Get("/*", pprof.Index)
		r.Get("/cmdline", pprof.Cmdline)
		r.Get("/profile", pprof.Profile)
		r.Get("/symbol", pprof.Symbol)
		r.Get("/trace", pprof.Trace)
	})

	// A helper page for invalid request.
	invalidApiReqHelper := func(w http.ResponseWriter, req *http.Request) {
		b := new(bytes.Buffer)
		_, _ = fmt.Fprintf(b, "Invalid request %s %s\n\n", req.Method, req.RequestURI)
		b.WriteString("Available api urls:\n")
		_ = chi.Walk(m.httpMux, func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			b.WriteString(method)
			b.WriteByte(' ')
			b.WriteString(route)
			b.WriteByte('\n')
			return nil
		})
		_, _ = w.Write(b.Bytes())
	}
	m.httpMux.NotFound(invalidApiReqHelper)
	m.httpMux.MethodNotAllowed(invalidApiReqHelper)
}

// loadDump restores the cache from the snapshot at path. A missing
// snapshot is not an error, a broken one is logged and skipped.
func (m *Listd) loadDump(path string) {
	entries, err := cache.LoadDumpFromFile(path, m.backend)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Info("no cache dump found", zap.String("file", path))
			return
		}
		m.logger.Error("failed to load cache dump", zap.String("file", path), zap.Error(err))
		return
	}
	m.logger.Info("cache dump loaded", zap.String("file", path), zap.Int("entries", entries))
}

func (m *Listd) startDumpLoop(path string, cfg *CacheConfig) {
	interval := time.Duration(cfg.DumpInterval) * time.Second
	if interval <= 0 {
		interval = defaultDumpInterval
	}
	m.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.dumpCache(path)
			case <-closeSignal:
				return
			}
		}
	})
}

// dumpCache writes a snapshot of the backend to path. Only backends
// that can be enumerated can be dumped.
func (m *Listd) dumpCache(path string) {
	r, ok := m.backend.(cache.Ranger)
	if !ok {
		m.logger.Warn("cache dump requires the in-memory backend")
		return
	}

	m.dumpMu.Lock()
	defer m.dumpMu.Unlock()
	start := time.Now()
	entries, err := cache.DumpToFile(path, r)
	if err != nil {
		m.logger.Error("failed to dump cache", zap.String("file", path), zap.Error(err))
		return
	}
	m.logger.Info(
		"cache dumped",
		zap.String("file", path),
		zap.Int("entries", entries),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// loadSeeds initializes all configured seed providers and feeds their
// entries into the cache backend.
func (m *Listd) loadSeeds(cfg *Config) error {
	ttl := time.Duration(cfg.Cache.EntryTTL) * time.Second
	if ttl <= 0 {
		ttl = defaultEntryTTL
	}

	for i, spCfg := range cfg.Seeds {
		if len(spCfg.Tag) == 0 || len(spCfg.File) == 0 {
			return fmt.Errorf("seed #%d, tag and file are required", i)
		}

		sp, err := seed_provider.NewSeedProvider(m.logger, spCfg)
		if err != nil {
			return fmt.Errorf("failed to init seed provider %s, %w", spCfg.Tag, err)
		}
		m.seeds.AddProvider(spCfg.Tag, sp)
		m.seedProviders = append(m.seedProviders, sp)

		seeder := &cacheSeeder{logger: m.logger, backend: m.backend, ttl: ttl}
		if err := sp.LoadAndAddListener(seeder); err != nil {
			return fmt.Errorf("failed to load seeds of %s, %w", spCfg.Tag, err)
		}
	}
	return nil
}

// cacheSeeder stores seed file entries into the cache backend.
// A seed file has one entry per line: <key> <value>. Empty lines and
// "#" comments are allowed. Lines without a value are skipped.
type cacheSeeder struct {
	logger  *zap.Logger
	backend cache.Backend
	ttl     time.Duration
}

func (s *cacheSeeder) Update(newData []byte) error {
	now := time.Now()
	expirationTime := now.Add(s.ttl)
	loaded := 0
	skipped := 0

	scanner := bufio.NewScanner(bytes.NewReader(newData))
	for scanner.Scan() {
		line := strings.TrimSpace(utils.RemoveComment(scanner.Text(), "#"))
		if len(line) == 0 {
			continue
		}
		key, v, ok := utils.SplitString2(line, " ")
		if !ok {
			skipped++
			continue
		}
		s.backend.Store(key, []byte(strings.TrimSpace(v)), now, expirationTime)
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan seed data, %w", err)
	}

	s.logger.Info("seed entries loaded", zap.Int("loaded", loaded), zap.Int("skipped", skipped))
	return nil
}
