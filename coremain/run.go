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
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/Vergil645/linked-list/mlog"
	"github.com/kardianos/service"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use: "listd",
}

func init() {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start listd main program.",
		Run:   StartServer,
	}
	rootCmd.AddCommand(startCmd)
	fs := startCmd.PersistentFlags()
	fs.StringVarP(&sf.c, "config", "c", "", "config file")
	fs.StringVarP(&sf.dir, "dir", "d", "", "working dir")
	fs.IntVar(&sf.cpu, "cpu", 0, "set runtime.GOMAXPROCS")
	fs.BoolVar(&sf.asService, "as-service", false, "start as a system service")
	_ = fs.MarkHidden("as-service")

	serviceCmd := &cobra.Command{
		Use:               "service",
		Short:             "Manage listd as a system service.",
		PersistentPreRunE: initService,
	}
	serviceCmd.AddCommand(
		newSvcInstallCmd(),
		newSvcUninstallCmd(),
		newSvcStartCmd(),
		newSvcStopCmd(),
		newSvcRestartCmd(),
		newSvcStatusCmd(),
	)
	rootCmd.AddCommand(serviceCmd)
}

func AddSubCmd(c *cobra.Command) {
	rootCmd.AddCommand(c)
}

func Run() error {
	return rootCmd.Execute()
}

type serverFlags struct {
	c         string
	dir       string
	cpu       int
	asService bool
}

var sf = serverFlags{}

func StartServer(cmd *cobra.Command, args []string) {
	if sf.cpu > 0 {
		runtime.GOMAXPROCS(sf.cpu)
	}

	if sf.asService {
		svc, err := service.New(&serverService{f: &sf}, svcCfg)
		if err != nil {
			mlog.L().Fatal("failed to init service", zap.Error(err))
		}
		if err := svc.Run(); err != nil {
			mlog.L().Fatal("service exited", zap.Error(err))
		}
		return
	}

	m, err := NewServer(&sf)
	if err != nil {
		mlog.L().Fatal("failed to start listd", zap.Error(err))
	}

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		sig := <-c
		m.Logger().Warn("signal received", zap.Stringer("signal", sig))
		m.CloseWithErr(nil)
	}()

	if err := m.WaitClosed(); err != nil {
		mlog.L().Fatal("listd exited", zap.Error(err))
	}
}

// NewServer loads the config per flags and starts a listd instance.
func NewServer(f *serverFlags) (*Listd, error) {
	if len(f.dir) > 0 {
		if err := os.Chdir(f.dir); err != nil {
			return nil, fmt.Errorf("failed to change the working directory, %w", err)
		}
		mlog.L().Info("working directory changed", zap.String("path", f.dir))
	}

	v := viper.New()
	if len(f.c) > 0 {
		v.SetConfigFile(f.c)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file, %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg, decoderOpt); err != nil {
		return nil, fmt.Errorf("failed to parse config file, %w", err)
	}

	cfgPath := v.ConfigFileUsed()
	if err := mergeInclude(cfg, 0, []string{cfgPath}, []string{tryGetAbsPath(cfgPath)}); err != nil {
		return nil, fmt.Errorf("failed to load sub config file, %w", err)
	}

	return NewListd(cfg)
}

func decoderOpt(cfg *mapstructure.DecoderConfig) {
	cfg.ErrorUnused = true
	cfg.TagName = "yaml"
	cfg.WeaklyTypedInput = true
}

// mergeInclude follows cfg.Include and merges the seed entries of sub
// config files into cfg.
func mergeInclude(cfg *Config, depth int, paths, absPaths []string) error {
	depth++
	if depth > 8 {
		return fmt.Errorf("maximun include depth reached, include path is %s", strings.Join(paths, " -> "))
	}
	for _, subCfgFile := range cfg.Include {
		subPaths := append(paths, subCfgFile)
		subCfgAbsPath := tryGetAbsPath(subCfgFile)
		subAbsPaths := append(absPaths, subCfgAbsPath)
		for _, includedAbsPath := range absPaths {
			if includedAbsPath == subCfgAbsPath {
				return fmt.Errorf("cycle include detected, include path is %s", strings.Join(subPaths, " -> "))
			}
		}

		mlog.L().Info("reading sub config", zap.String("file", subCfgFile))
		subV := viper.New()
		subV.SetConfigFile(subCfgFile)
		if err := subV.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read sub config file %s, %w", subCfgFile, err)
		}
		subCfg := new(Config)
		if err := subV.Unmarshal(subCfg, decoderOpt); err != nil {
			return fmt.Errorf("failed to parse sub config file %s, %w", subCfgFile, err)
		}
		if err := mergeInclude(subCfg, depth, subPaths, subAbsPaths); err != nil {
			return err
		}

		cfg.Seeds = append(cfg.Seeds, subCfg.Seeds...)
		if subCfg.Cache != (CacheConfig{}) || subCfg.API != (APIConfig{}) {
			mlog.L().Warn("cache and api config in sub config files will be ignored", zap.String("file", subCfgFile))
		}
	}
	return nil
}

func tryGetAbsPath(s string) string {
	p, err := filepath.Abs(s)
	if err != nil {
		return s
	}
	return p
}
