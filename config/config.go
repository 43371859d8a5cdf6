// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the settings of a live tree and of the
// livetree tool, loaded from TOML or YAML files.
package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"cogentcore.org/livetree/base/errors"
)

// Settings are the settings of a live tree.
type Settings struct {

	// Naming is the sibling naming policy.
	Naming Naming `toml:"naming" yaml:"naming"`

	// PhysicsFPS is the number of fixed steps per second, which
	// determines the delta passed to fixed-step processing.
	PhysicsFPS int `toml:"physics_fps" yaml:"physics_fps" default:"60"`

	// LogLevel is the level of log messages that are printed
	// (debug, info, warn, or error).
	LogLevel string `toml:"log_level" yaml:"log_level" default:"info"`

	// QuitOnFinish stops the frame loop after the tree is finished.
	QuitOnFinish bool `toml:"quit_on_finish" yaml:"quit_on_finish" default:"true"`
}

// Default returns settings with all of the default values set.
func Default() *Settings {
	s := &Settings{}
	errors.Log(SetFromDefaults(s))
	return s
}

// FixedDelta returns the delta of one fixed step, in seconds.
func (s *Settings) FixedDelta() float64 {
	if s.PhysicsFPS <= 0 {
		return 1.0 / 60
	}
	return 1 / float64(s.PhysicsFPS)
}

// SetFromDefaults sets the fields of the given struct pointer from their
// `default:` struct tags, recursing into struct fields.
func SetFromDefaults(cfg any) error {
	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config.SetFromDefaults: expected a struct pointer, not %T", cfg)
	}
	return setFromDefaults(rv.Elem())
}

func setFromDefaults(sv reflect.Value) error {
	var errs []error
	typ := sv.Type()
	for i := range typ.NumField() {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := sv.Field(i)
		def, ok := sf.Tag.Lookup("default")
		if !ok {
			if sf.Type.Kind() == reflect.Struct {
				errs = append(errs, setFromDefaults(fv))
			}
			continue
		}
		ptr := reflect.New(sf.Type)
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           ptr.Interface(),
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		})
		if err == nil {
			err = dec.Decode(def)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("config: default for field %s: %w", sf.Name, err))
			continue
		}
		fv.Set(ptr.Elem())
	}
	return errors.Join(errs...)
}

// Open returns settings loaded from the given TOML or YAML file, chosen by
// its extension, on top of the default values.
func Open(file string) (*Settings, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	s := Default()
	if err := Decode(s, filepath.Ext(file), b); err != nil {
		return nil, fmt.Errorf("config: %s: %w", file, err)
	}
	return s, nil
}

// Decode decodes the given data into s according to the given file
// extension (.toml, .yaml, or .yml).
func Decode(s any, ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(s)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(s)
	}
	return fmt.Errorf("unsupported settings file extension %q", ext)
}

// Save saves the given settings to the given TOML or YAML file.
func Save(s *Settings, file string) error {
	var b []byte
	var err error
	switch strings.ToLower(filepath.Ext(file)) {
	case ".toml":
		b, err = toml.Marshal(s)
	case ".yaml", ".yml":
		b, err = yaml.Marshal(s)
	default:
		err = fmt.Errorf("config: unsupported settings file extension %q", filepath.Ext(file))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0o666)
}

// Watch calls fun with freshly loaded settings whenever the given file is
// written, until the context is done. Files that fail to load are logged
// and skipped. Watching the directory instead of the file keeps working
// across editors that replace the file on save.
func Watch(ctx context.Context, file string, fun func(s *Settings)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			s, err := Open(abs)
			if errors.Log(err) != nil {
				continue
			}
			fun(s)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			errors.Log(err)
		}
	}
}
