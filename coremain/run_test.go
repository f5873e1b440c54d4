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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_mergeInclude(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()

	sub1 := filepath.Join(dir, "sub1.yaml")
	sub2 := filepath.Join(dir, "sub2.yaml")
	r.NoError(os.WriteFile(sub1, []byte(fmt.Sprintf(
		"include: [%s]\nseeds:\n  - tag: s1\n    file: ./a.txt\n", sub2,
	)), 0644))
	r.NoError(os.WriteFile(sub2, []byte(
		"seeds:\n  - tag: s2\n    file: ./b.txt\n",
	), 0644))

	cfg := &Config{Include: []string{sub1}}
	r.NoError(mergeInclude(cfg, 0, nil, nil))
	r.Len(cfg.Seeds, 2)
	r.Equal("s1", cfg.Seeds[0].Tag)
	r.Equal("s2", cfg.Seeds[1].Tag)
}

func Test_mergeInclude_cycle(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()

	sub1 := filepath.Join(dir, "sub1.yaml")
	sub2 := filepath.Join(dir, "sub2.yaml")
	r.NoError(os.WriteFile(sub1, []byte(fmt.Sprintf("include: [%s]\n", sub2)), 0644))
	r.NoError(os.WriteFile(sub2, []byte(fmt.Sprintf("include: [%s]\n", sub1)), 0644))

	cfg := &Config{Include: []string{sub2}}
	err := mergeInclude(cfg, 0, []string{sub1}, []string{tryGetAbsPath(sub1)})
	r.ErrorContains(err, "cycle include detected")
}

func Test_mergeInclude_unknownKey(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()

	sub := filepath.Join(dir, "sub.yaml")
	r.NoError(os.WriteFile(sub, []byte("bogus_field: 1\n"), 0644))

	cfg := &Config{Include: []string{sub}}
	r.Error(mergeInclude(cfg, 0, nil, nil))
}