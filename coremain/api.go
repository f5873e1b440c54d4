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
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Vergil645/linked-list/pkg/cache"
	"github.com/Vergil645/linked-list/pkg/seed_provider"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// maxValueSize limits the size of a single entry stored over the api.
const maxValueSize = 1 << 20

type cacheAPI struct {
	logger  *zap.Logger
	backend cache.Backend
	seeds   *seed_provider.SeedManager
	ttl     time.Duration

	sf singleflight.Group

	queryTotal prometheus.Counter
	hitTotal   prometheus.Counter
	size       prometheus.GaugeFunc
}

// regCacheAPI mounts the cache rest api at /api/v1 and registers its
// metrics.
func (m *Listd) regCacheAPI(cfg *CacheConfig) {
	ttl := time.Duration(cfg.EntryTTL) * time.Second
	if ttl <= 0 {
		ttl = defaultEntryTTL
	}

	a := &cacheAPI{
		logger:  m.logger,
		backend: m.backend,
		seeds:   m.seeds,
		ttl:     ttl,

		queryTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "query_total",
			Help: "The total number of processed lookups",
		}),
		hitTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hit_total",
			Help: "The total number of lookups that hit the cache",
		}),
		size: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size in records",
		}, func() float64 {
			return float64(m.backend.Len())
		}),
	}
	m.GetMetricsReg().MustRegister(a.queryTotal, a.hitTotal, a.size)

	r := chi.NewRouter()
	r.Get("/cache", a.handleStats)
	r.Get("/cache/{key}", a.handleGet)
	r.Put("/cache/{key}", a.handlePut)
	r.Delete("/cache/{key}", a.handleDelete)
	r.Post("/seeds/{tag}/reload", a.handleSeedReload)
	m.httpMux.Mount("/api/v1", r)
}

type cachedEntry struct {
	v              []byte
	storedTime     time.Time
	expirationTime time.Time
}

func (a *cacheAPI) handleGet(w http.ResponseWriter, req *http.Request) {
	a.queryTotal.Inc()
	key := chi.URLParam(req, "key")

	// Coalesce concurrent lookups of the same key. This mainly helps
	// the redis backend where every lookup is a network round trip.
	v, _, _ := a.sf.Do(key, func() (interface{}, error) {
		v, storedTime, expirationTime := a.backend.Get(key)
		return &cachedEntry{v: v, storedTime: storedTime, expirationTime: expirationTime}, nil
	})
	e := v.(*cachedEntry)

	if e.v == nil || time.Now().After(e.expirationTime) {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}

	a.hitTotal.Inc()
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Last-Modified", e.storedTime.UTC().Format(http.TimeFormat))
	w.Header().Set("Expires", e.expirationTime.UTC().Format(http.TimeFormat))
	_, _ = w.Write(e.v)
}

func (a *cacheAPI) handlePut(w http.ResponseWriter, req *http.Request) {
	key := chi.URLParam(req, "key")

	ttl := a.ttl
	if s := req.URL.Query().Get("ttl"); len(s) > 0 {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "invalid ttl", http.StatusBadRequest)
			return
		}
		ttl = time.Duration(n) * time.Second
	}

	v, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxValueSize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	now := time.Now()
	a.backend.Store(key, v, now, now.Add(ttl))
	w.WriteHeader(http.StatusNoContent)
}

func (a *cacheAPI) handleDelete(w http.ResponseWriter, req *http.Request) {
	a.backend.Del(chi.URLParam(req, "key"))
	w.WriteHeader(http.StatusNoContent)
}

func (a *cacheAPI) handleStats(w http.ResponseWriter, req *http.Request) {
	b, err := json.Marshal(struct {
		Len int `json:"len"`
	}{
		Len: a.backend.Len(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (a *cacheAPI) handleSeedReload(w http.ResponseWriter, req *http.Request) {
	tag := chi.URLParam(req, "tag")
	sp := a.seeds.GetProvider(tag)
	if sp == nil {
		http.Error(w, "unknown seed tag", http.StatusNotFound)
		return
	}
	if err := sp.Reload(); err != nil {
		a.logger.Error("failed to reload seeds", zap.String("tag", tag), zap.Error(err))
		http.Error(w, "reload failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
