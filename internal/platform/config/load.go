package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"
)

// Option configures the Load function.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
}

// WithConfigDir sets the directory holding base.yaml and the profile files.
// Defaults to "configs" relative to the working directory.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) {
		o.configDir = dir
	}
}

// layer is one source of configuration. Later layers override earlier ones.
type layer struct {
	name string
	load func(k *koanf.Koanf) error
}

// Load reads configuration in four layers, highest precedence last:
//
//  1. built-in defaults
//  2. {configDir}/base.yaml
//  3. {configDir}/{profile}.yaml
//  4. APP_ environment variables
//
// Env names are matched against the known keys, so field names containing
// underscores resolve unambiguously. List keys take comma separated values:
//
//	APP_SERVER_READ_TIMEOUT     -> server.read_timeout
//	APP_JOURNAL_DSN             -> journal.dsn
//	APP_ENGINE_CONFLICT_RETRIES -> engine.conflict_retries
//	APP_PUBLISH_BACKENDS        -> publish.backends      (redis,kafka)
//	APP_PUBLISH_KAFKA_BROKERS   -> publish.kafka.brokers (a:9092,b:9092)
func Load(profile string, opts ...Option) (*Config, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	o := &loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")
	layers := []layer{
		{name: "defaults", load: loadDefaults},
		yamlLayer(filepath.Join(o.configDir, "base.yaml")),
		yamlLayer(filepath.Join(o.configDir, profile+".yaml")),
		{name: "environment", load: loadEnv},
	}
	for _, l := range layers {
		if err := l.load(k); err != nil {
			return nil, fmt.Errorf("loading %s: %w", l.name, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// loadDefaults also registers every known key, which the env layer relies on.
func loadDefaults(k *koanf.Koanf) error {
	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func yamlLayer(path string) layer {
	return layer{
		name: path,
		load: func(k *koanf.Koanf) error {
			return k.Load(file.Provider(path), yaml.Parser())
		},
	}
}

func loadEnv(k *koanf.Koanf) error {
	m := newEnvMapper(k.Keys(), defaults())
	return k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: m.transform,
	}), nil)
}

// envMapper resolves APP_ variable names to koanf keys.
type envMapper struct {
	keys  map[string]string   // "server_read_timeout" -> "server.read_timeout"
	lists map[string]struct{} // koanf keys holding []string
}

func newEnvMapper(known []string, defs map[string]any) envMapper {
	m := envMapper{
		keys:  make(map[string]string, len(known)),
		lists: make(map[string]struct{}),
	}
	for _, key := range known {
		m.keys[strings.ReplaceAll(key, ".", "_")] = key
	}
	for key, value := range defs {
		if _, ok := value.([]string); ok {
			m.lists[key] = struct{}{}
		}
	}
	return m
}

func (m envMapper) transform(name, value string) (string, any) {
	name = strings.ToLower(strings.TrimPrefix(name, envPrefix))

	key, ok := m.keys[name]
	if !ok {
		// Unknown to the defaults: split on every underscore.
		return strings.ReplaceAll(name, "_", "."), value
	}
	if _, isList := m.lists[key]; isList {
		return key, splitList(value)
	}
	return key, value
}

// validateProfile rejects names that would escape the config directory.
func validateProfile(profile string) error {
	if strings.TrimSpace(profile) == "" {
		return errors.New("profile must not be empty")
	}
	if strings.ContainsAny(profile, `/\`) {
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	}
	if strings.Contains(profile, "..") {
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}

// splitList splits a comma separated value, dropping empty items.
func splitList(value string) []string {
	var out []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
