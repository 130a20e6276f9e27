// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dibs

import (
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	goerrors "gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v2"

	"github.com/dolthub/dibs/predicate"
)

const (
	// DefaultBlowupLimit caps the DNF size product of a single conflict
	// test when the configuration does not say otherwise.
	DefaultBlowupLimit = 1024
	// DefaultTimeout is the per-peer wait bound when the configuration does
	// not say otherwise.
	DefaultTimeout = 100 * time.Millisecond
)

var (
	// ErrUnknownTable is returned when a template references a table the
	// configuration does not declare.
	ErrUnknownTable = goerrors.NewKind("template %d references unknown table %d")
	// ErrMissingFilter is returned when the Filtered level is configured
	// but a table declares no filter column.
	ErrMissingFilter = goerrors.NewKind("optimization level filtered requires a filter column on table %d")
	// ErrInvalidTimeout is returned for an unparseable timeout string.
	ErrInvalidTimeout = goerrors.NewKind("invalid timeout %q: %s")
)

// Config is the YAML shape of an engine. Predicates are written as SQL
// boolean expressions over the template's named columns, with `?`
// placeholders binding argument slots in order.
type Config struct {
	Optimization string           `yaml:"optimization"`
	BlowupLimit  int              `yaml:"blowup_limit"`
	Timeout      string           `yaml:"timeout"`
	Tables       []TableConfig    `yaml:"tables"`
	Templates    []TemplateConfig `yaml:"templates"`
}

// TableConfig declares one table. Filter names the equality-filterable
// column used for registry partitioning, if any.
type TableConfig struct {
	Filter *int `yaml:"filter,omitempty"`
}

// TemplateConfig declares one request template.
type TemplateConfig struct {
	Table     int            `yaml:"table"`
	Read      []uint64       `yaml:"read"`
	Write     []uint64       `yaml:"write"`
	Predicate string         `yaml:"predicate"`
	Columns   map[string]int `yaml:"columns"`
}

// ParseConfig unmarshals a YAML engine configuration.
func ParseConfig(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(err, "unable to parse engine configuration")
	}
	return config, nil
}

// LoadConfig reads and parses a YAML engine configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to read engine configuration")
	}
	return ParseConfig(data)
}

// NewDibs builds an engine from the configuration, reporting every problem
// it finds rather than stopping at the first.
func (c Config) NewDibs() (*Dibs, error) {
	var result *multierror.Error

	optimization, err := OptimizationLevelFromString(c.Optimization)
	if err != nil {
		result = multierror.Append(result, err)
	}

	blowupLimit := c.BlowupLimit
	if blowupLimit <= 0 {
		blowupLimit = DefaultBlowupLimit
	}

	timeout := DefaultTimeout
	if c.Timeout != "" {
		timeout, err = time.ParseDuration(c.Timeout)
		if err != nil {
			result = multierror.Append(result, ErrInvalidTimeout.New(c.Timeout, err))
		}
	}

	filters := make([]int, len(c.Tables))
	for table, tc := range c.Tables {
		if tc.Filter != nil {
			filters[table] = *tc.Filter
		} else {
			filters[table] = NoFilter
			if optimization == Filtered {
				result = multierror.Append(result, ErrMissingFilter.New(table))
			}
		}
	}

	templates := make([]*RequestTemplate, 0, len(c.Templates))
	for i, tc := range c.Templates {
		if tc.Table < 0 || tc.Table >= len(c.Tables) {
			result = multierror.Append(result, ErrUnknownTable.New(i, tc.Table))
			continue
		}

		pred, err := predicate.Parse(tc.Predicate, tc.Columns)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		templates = append(templates, NewRequestTemplate(tc.Table, tc.Read, tc.Write, pred))
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return New(filters, templates, optimization, blowupLimit, timeout), nil
}
