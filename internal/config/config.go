// Package config loads the dekorate CLI configuration
// (~/.dekorate/config.yaml), resolves each setting across flags,
// environment and file, and reads project property files.
package config

// LogKubernetesConfig contains Kubernetes-related logging settings.
type LogKubernetesConfig struct {
	// APIWarnings controls how API server warnings are displayed:
	// "warn" (default), "debug" or "suppress".
	APIWarnings string `mapstructure:"apiWarnings"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls timestamps in log output. nil means on.
	Timestamps *bool `mapstructure:"timestamps"`

	Kubernetes LogKubernetesConfig `mapstructure:"kubernetes"`
}

// Config is the CLI configuration file.
type Config struct {
	// Kubeconfig is the path to the kubeconfig file.
	// Env: DEKORATE_KUBECONFIG
	Kubeconfig string `mapstructure:"kubeconfig"`

	// Context is the kubeconfig context. Env: DEKORATE_CONTEXT
	Context string `mapstructure:"context"`

	// Namespace for applied resources and s2i builds.
	// Env: DEKORATE_NAMESPACE
	Namespace string `mapstructure:"namespace"`

	// DockerHost is the Docker daemon address passed to the build service
	// lookup as DOCKER_HOST. Env: DEKORATE_DOCKER_HOST
	DockerHost string `mapstructure:"dockerHost"`

	// OutputDir is where generated manifests are written.
	// Env: DEKORATE_OUTPUT_DIR
	OutputDir string `mapstructure:"outputDir"`

	Log LogConfig `mapstructure:"log"`
}

// DefaultOutputDir is the manifest directory, relative to the project root.
const DefaultOutputDir = "target/dekorate"

// DefaultConfig returns a Config with defaults populated.
func DefaultConfig() *Config {
	return &Config{
		Kubeconfig: "~/.kube/config",
		OutputDir:  DefaultOutputDir,
		Log: LogConfig{
			Kubernetes: LogKubernetesConfig{APIWarnings: "warn"},
		},
	}
}

// WithDefaults returns a copy of c with unset fields defaulted.
func (c *Config) WithDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.Kubeconfig == "" {
		out.Kubeconfig = def.Kubeconfig
	}
	if out.OutputDir == "" {
		out.OutputDir = def.OutputDir
	}
	if out.Log.Kubernetes.APIWarnings == "" {
		out.Log.Kubernetes.APIWarnings = def.Log.Kubernetes.APIWarnings
	}
	return &out
}
