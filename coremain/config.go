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
	"github.com/Vergil645/linked-list/mlog"
	"github.com/Vergil645/linked-list/pkg/seed_provider"
)

type Config struct {
	Log     mlog.LogConfig                     `yaml:"log"`
	Include []string                           `yaml:"include"`
	Seeds   []seed_provider.SeedProviderConfig `yaml:"seeds"`
	Cache   CacheConfig                        `yaml:"cache"`
	API     APIConfig                          `yaml:"api"`
}

type CacheConfig struct {
	// Size is the maximum number of entries the in-memory cache can
	// hold. Default is 1024. Ignored if Redis is set.
	Size int `yaml:"size"`

	// CleanerInterval is the interval (sec) the in-memory cache scans
	// and discards expired entries. Default is 60.
	CleanerInterval int `yaml:"cleaner_interval"`

	// Redis is a redis server url. If set, redis replaces the
	// in-memory backend.
	// e.g. "redis://<user>:<password>@<host>:<port>/<db_number>"
	Redis string `yaml:"redis"`

	// RedisTimeout is the redis read/write timeout (ms). Default is 1000.
	RedisTimeout int `yaml:"redis_timeout"`

	// EntryTTL is the TTL (sec) applied to seed entries and to api
	// stores without an explicit ttl. Default is 86400 (one day).
	EntryTTL int `yaml:"entry_ttl"`

	// DumpFile is the path of the cache snapshot. If set, the daemon
	// loads it at startup and rewrites it periodically and on shutdown.
	// Only the in-memory backend can be dumped.
	DumpFile string `yaml:"dump_file"`

	// DumpInterval is the interval (sec) between automatic dumps.
	// Default is 600.
	DumpInterval int `yaml:"dump_interval"`
}

type APIConfig struct {
	// HTTP is the "host:port" addr of the http api server. If empty,
	// the api server is disabled.
	HTTP string `yaml:"http"`

	// Cert and Key are pem files of the server certificate. If both
	// are set, the api server serves https instead of http.
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}
