package openshift

import (
	"strings"

	"github.com/dekorate/cli/internal/generator"
	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/resource"
	"github.com/dekorate/cli/internal/session"
)

// Handler emits the openshift resource group from the merged Config.
type Handler struct {
	groups *resource.Groups
}

// NewHandler returns a handler writing into groups.
func NewHandler(groups *resource.Groups) *Handler {
	return &Handler{groups: groups}
}

// Name returns "openshift".
func (h *Handler) Name() string { return Group }

// Handle resolves the OpenShift configuration and adds its resources.
func (h *Handler) Handle(s *session.Session) error {
	cfg, ok := session.Resolve[Config](s)
	if !ok {
		return nil
	}

	res := Resources(cfg)
	h.groups.Add(Group, res...)
	output.GeneratorLogger(Group).Debug("generated resources", "count", len(res))
	return nil
}

// Resources renders the OpenShift objects for cfg: DeploymentConfig,
// Service (when ports are set), the application ImageStream, the builder
// ImageStream (source strategy only), BuildConfig and Route (when exposed).
// A Route needs a Service to target, so exposing without ports emits none.
func Resources(cfg Config) []*resource.Resource {
	newRes := func(obj map[string]any) *resource.Resource {
		return resource.New(Group, Group, obj)
	}

	out := []*resource.Resource{newRes(deploymentConfig(cfg))}
	if len(cfg.Ports) > 0 {
		out = append(out, newRes(service(cfg)))
	}
	out = append(out, newRes(imageStream(cfg)))
	if cfg.DockerFile == "" {
		out = append(out, newRes(builderImageStream(cfg)))
	}
	out = append(out, newRes(buildConfig(cfg)))
	switch {
	case cfg.Expose && len(cfg.Ports) > 0:
		out = append(out, newRes(route(cfg)))
	case cfg.Expose:
		output.GeneratorLogger(Group).Warn("expose is set but no ports are configured, skipping route", "name", cfg.Name)
	}
	return out
}

func metadata(cfg Config) map[string]any {
	return map[string]any{
		"name":   cfg.Name,
		"labels": cfg.AppLabels(),
	}
}

func imageTag(cfg Config) string {
	version := cfg.Version
	if version == "" {
		version = "latest"
	}
	return cfg.Name + ":" + version
}

func deploymentConfig(cfg Config) map[string]any {
	container := map[string]any{
		"name":  cfg.Name,
		"image": imageTag(cfg),
	}
	if ports := generator.ContainerPorts(cfg.Ports); len(ports) > 0 {
		container["ports"] = ports
	}
	if env := generator.EnvVars(cfg.Env); len(env) > 0 {
		container["env"] = env
	}

	return map[string]any{
		"apiVersion": "apps.openshift.io/v1",
		"kind":       "DeploymentConfig",
		"metadata":   metadata(cfg),
		"spec": map[string]any{
			"replicas": cfg.ReplicaCount(),
			"selector": map[string]any{"app": cfg.Name},
			"template": map[string]any{
				"metadata": map[string]any{"labels": cfg.AppLabels()},
				"spec": map[string]any{
					"containers": []any{container},
				},
			},
			"triggers": []any{
				map[string]any{"type": "ConfigChange"},
				map[string]any{
					"type": "ImageChange",
					"imageChangeParams": map[string]any{
						"automatic":      true,
						"containerNames": []any{cfg.Name},
						"from": map[string]any{
							"kind": "ImageStreamTag",
							"name": imageTag(cfg),
						},
					},
				},
			},
		},
	}
}

func service(cfg Config) map[string]any {
	return map[string]any{
		"apiVersion": "v1",
		"kind":       "Service",
		"metadata":   metadata(cfg),
		"spec": map[string]any{
			"selector": map[string]any{"app": cfg.Name},
			"ports":    generator.ServicePorts(cfg.Ports),
		},
	}
}

func imageStream(cfg Config) map[string]any {
	spec := map[string]any{
		"lookupPolicy": map[string]any{"local": true},
	}
	if cfg.Registry != "" {
		repo := cfg.Registry + "/"
		if cfg.Group != "" {
			repo += cfg.Group + "/"
		}
		spec["dockerImageRepository"] = repo + cfg.Name
	}

	return map[string]any{
		"apiVersion": "image.openshift.io/v1",
		"kind":       "ImageStream",
		"metadata":   metadata(cfg),
		"spec":       spec,
	}
}

func builderImageStream(cfg Config) map[string]any {
	repo, _, name := parseImage(cfg.builderImage())
	return map[string]any{
		"apiVersion": "image.openshift.io/v1",
		"kind":       "ImageStream",
		"metadata": map[string]any{
			"name":   name,
			"labels": cfg.AppLabels(),
		},
		"spec": map[string]any{
			"dockerImageRepository": repo,
		},
	}
}

func buildConfig(cfg Config) map[string]any {
	var strategy map[string]any
	if cfg.DockerFile != "" {
		strategy = map[string]any{
			"type": "Docker",
			"dockerStrategy": map[string]any{
				"dockerfilePath": cfg.DockerFile,
			},
		}
	} else {
		_, tag, name := parseImage(cfg.builderImage())
		strategy = map[string]any{
			"type": "Source",
			"sourceStrategy": map[string]any{
				"from": map[string]any{
					"kind": "ImageStreamTag",
					"name": name + ":" + tag,
				},
			},
		}
	}

	return map[string]any{
		"apiVersion": "build.openshift.io/v1",
		"kind":       "BuildConfig",
		"metadata":   metadata(cfg),
		"spec": map[string]any{
			"output": map[string]any{
				"to": map[string]any{
					"kind": "ImageStreamTag",
					"name": imageTag(cfg),
				},
			},
			"source": map[string]any{
				"type":   "Binary",
				"binary": map[string]any{},
			},
			"strategy": strategy,
		},
	}
}

func route(cfg Config) map[string]any {
	spec := map[string]any{
		"to": map[string]any{
			"kind": "Service",
			"name": cfg.Name,
		},
	}
	if cfg.Host != "" {
		spec["host"] = cfg.Host
	}
	if len(cfg.Ports) > 0 {
		spec["port"] = map[string]any{"targetPort": generator.PortName(cfg.Ports[0])}
	}

	return map[string]any{
		"apiVersion": "route.openshift.io/v1",
		"kind":       "Route",
		"metadata":   metadata(cfg),
		"spec":       spec,
	}
}

// parseImage splits "registry:5000/org/name:tag" into repository, tag
// (default "latest") and the last path element of the repository.
func parseImage(image string) (repo, tag, name string) {
	repo, tag = image, "latest"
	if i := strings.LastIndex(image, ":"); i > strings.LastIndex(image, "/") {
		repo, tag = image[:i], image[i+1:]
	}
	name = repo
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		name = repo[i+1:]
	}
	return repo, tag, name
}
