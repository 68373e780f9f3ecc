// Package generator holds what the platform generators share: the common
// configuration schema, property decoding, project metadata adapters and
// the on-close image build orchestration.
package generator

import (
	"strings"

	"github.com/dekorate/cli/internal/project"
)

// Config is the configuration schema every platform understands. Platform
// configurations embed it.
type Config struct {
	Name     string `json:"name,omitempty" mapstructure:"name"`
	Group    string `json:"group,omitempty" mapstructure:"group"`
	Version  string `json:"version,omitempty" mapstructure:"version"`
	Registry string `json:"registry,omitempty" mapstructure:"registry"`

	// DockerFile is the Dockerfile path relative to the project root.
	DockerFile string `json:"dockerFile,omitempty" mapstructure:"dockerFile"`

	AutoBuildEnabled  bool `json:"autoBuildEnabled,omitempty" mapstructure:"autoBuildEnabled"`
	AutoDeployEnabled bool `json:"autoDeployEnabled,omitempty" mapstructure:"autoDeployEnabled"`
	AutoPushEnabled   bool `json:"autoPushEnabled,omitempty" mapstructure:"autoPushEnabled"`

	Replicas int               `json:"replicas,omitempty" mapstructure:"replicas"`
	Ports    []Port            `json:"ports,omitempty" mapstructure:"ports"`
	Labels   map[string]string `json:"labels,omitempty" mapstructure:"labels"`
	Env      map[string]string `json:"env,omitempty" mapstructure:"env"`
}

// Port is a container port exposed through the generated Service.
type Port struct {
	Name          string `json:"name,omitempty" mapstructure:"name"`
	ContainerPort int    `json:"containerPort,omitempty" mapstructure:"containerPort"`
	Protocol      string `json:"protocol,omitempty" mapstructure:"protocol"`
}

// Keys records which configuration keys a fragment set. A nil Keys means
// "every non-zero field is set", which is how marker fragments behave.
type Keys map[string]bool

// Has reports whether key was set. nonZero is consulted only when k is nil.
func (k Keys) Has(key string, nonZero bool) bool {
	if k == nil {
		return nonZero
	}
	return k[strings.ToLower(key)]
}

// Overlay copies the fields of o that keys marks as set onto c.
func (c *Config) Overlay(o Config, keys Keys) {
	if keys.Has("name", o.Name != "") {
		c.Name = o.Name
	}
	if keys.Has("group", o.Group != "") {
		c.Group = o.Group
	}
	if keys.Has("version", o.Version != "") {
		c.Version = o.Version
	}
	if keys.Has("registry", o.Registry != "") {
		c.Registry = o.Registry
	}
	if keys.Has("dockerFile", o.DockerFile != "") {
		c.DockerFile = o.DockerFile
	}
	if keys.Has("autoBuildEnabled", o.AutoBuildEnabled) {
		c.AutoBuildEnabled = o.AutoBuildEnabled
	}
	if keys.Has("autoDeployEnabled", o.AutoDeployEnabled) {
		c.AutoDeployEnabled = o.AutoDeployEnabled
	}
	if keys.Has("autoPushEnabled", o.AutoPushEnabled) {
		c.AutoPushEnabled = o.AutoPushEnabled
	}
	if keys.Has("replicas", o.Replicas != 0) {
		c.Replicas = o.Replicas
	}
	if keys.Has("ports", len(o.Ports) > 0) {
		c.Ports = append([]Port(nil), o.Ports...)
	}
	if keys.Has("labels", len(o.Labels) > 0) {
		c.Labels = copyMap(o.Labels)
	}
	if keys.Has("env", len(o.Env) > 0) {
		c.Env = copyMap(o.Env)
	}
}

// ApplyProjectInfo fills name, group and version from the project's build
// info where the configuration leaves them empty.
func ApplyProjectInfo(p *project.Project, c *Config) {
	if c.Name == "" {
		c.Name = p.BuildInfo.Name
	}
	if c.Group == "" {
		c.Group = p.BuildInfo.Group
	}
	if c.Version == "" {
		c.Version = p.BuildInfo.Version
	}
}

// AppLabels returns the labels for generated objects: the configured labels
// plus app=<name> and, when set, version=<version>.
func (c Config) AppLabels() map[string]any {
	labels := make(map[string]any, len(c.Labels)+2)
	for k, v := range c.Labels {
		labels[k] = v
	}
	labels["app"] = c.Name
	if c.Version != "" {
		labels["version"] = c.Version
	}
	return labels
}

// ReplicaCount returns the configured replicas, at least 1.
func (c Config) ReplicaCount() int64 {
	if c.Replicas < 1 {
		return 1
	}
	return int64(c.Replicas)
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
