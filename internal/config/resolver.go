package config

import (
	"os"

	"github.com/dekorate/cli/internal/output"
)

// Source indicates where a configuration value came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceDefault Source = "default"
)

// ResolvedValue is a setting after precedence has been applied.
type ResolvedValue struct {
	Key    string
	Value  string
	Source Source

	// Shadowed holds lower-precedence values that were overridden.
	Shadowed map[Source]string
}

// Resolved is the full resolved CLI configuration.
type Resolved struct {
	ConfigPath ResolvedValue
	Kubeconfig ResolvedValue
	Context    ResolvedValue
	Namespace  ResolvedValue
	DockerHost ResolvedValue
	OutputDir  ResolvedValue

	// APIWarnings comes from the config file only.
	APIWarnings string
}

// Values returns every resolved value, for logging.
func (r *Resolved) Values() []ResolvedValue {
	return []ResolvedValue{r.ConfigPath, r.Kubeconfig, r.Context, r.Namespace, r.DockerHost, r.OutputDir}
}

// ResolveAllOptions carries the raw inputs for ResolveAll.
type ResolveAllOptions struct {
	ConfigFlag     string
	KubeconfigFlag string
	ContextFlag    string
	NamespaceFlag  string
	DockerHostFlag string
	OutputDirFlag  string

	// Config is the loaded config file. nil means no file.
	Config *Config
}

// ResolveAll resolves every setting with precedence
// flag > env > config file > default.
func ResolveAll(opts ResolveAllOptions) (*Resolved, error) {
	configPath, err := ResolveConfigPath(opts.ConfigFlag)
	if err != nil {
		return nil, err
	}

	file := opts.Config
	if file == nil {
		file = &Config{}
	}
	def := DefaultConfig()
	env := newEnvViper()

	resolve := func(key, flag, fileValue, defaultValue string) ResolvedValue {
		return resolveValue(key, []candidate{
			{SourceFlag, flag},
			{SourceEnv, env.GetString(key)},
			{SourceConfig, fileValue},
			{SourceDefault, defaultValue},
		})
	}

	r := &Resolved{
		ConfigPath:  configPath,
		Kubeconfig:  resolve("kubeconfig", opts.KubeconfigFlag, file.Kubeconfig, def.Kubeconfig),
		Context:     resolve("context", opts.ContextFlag, file.Context, ""),
		Namespace:   resolve("namespace", opts.NamespaceFlag, file.Namespace, ""),
		DockerHost:  resolve("dockerHost", opts.DockerHostFlag, file.DockerHost, ""),
		OutputDir:   resolve("outputDir", opts.OutputDirFlag, file.OutputDir, def.OutputDir),
		APIWarnings: file.WithDefaults().Log.Kubernetes.APIWarnings,
	}

	if expanded, err := ExpandPath(r.Kubeconfig.Value); err == nil {
		r.Kubeconfig.Value = expanded
	}
	if err := ValidateNamespace(r.Namespace.Value); err != nil {
		return nil, err
	}
	return r, nil
}

type candidate struct {
	source Source
	value  string
}

// resolveValue picks the first non-empty candidate and records the
// non-empty ones after it as shadowed.
func resolveValue(key string, candidates []candidate) ResolvedValue {
	result := ResolvedValue{Key: key, Shadowed: make(map[Source]string)}
	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}
	return result
}

// ResolveConfigPath resolves the config file path with precedence
// --config > DEKORATE_CONFIG > ~/.dekorate/config.yaml.
func ResolveConfigPath(flagValue string) (ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolvedValue{}, err
	}
	return resolveValue("config", []candidate{
		{SourceFlag, flagValue},
		{SourceEnv, os.Getenv("DEKORATE_CONFIG")},
		{SourceDefault, paths.ConfigFile},
	}), nil
}

// LogResolvedValues logs each value's resolution at debug level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved", "key", v.Key, "value", v.Value, "source", v.Source)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key, "shadowed_source", source, "shadowed_value", shadowed)
		}
	}
}
