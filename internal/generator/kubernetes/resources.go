package kubernetes

import (
	"github.com/dekorate/cli/internal/buildservice"
	"github.com/dekorate/cli/internal/generator"
	"github.com/dekorate/cli/internal/resource"
)

// Resources renders the Deployment, the Service when ports are set, and
// the Ingress when a host and ports are set.
func Resources(cfg Config) []*resource.Resource {
	out := []*resource.Resource{resource.New(Group, Group, deployment(cfg))}
	if len(cfg.Ports) > 0 {
		out = append(out, resource.New(Group, Group, service(cfg)))
		if cfg.Host != "" {
			out = append(out, resource.New(Group, Group, ingress(cfg)))
		}
	}
	return out
}

func metadata(cfg Config) map[string]any {
	return map[string]any{
		"name":   cfg.Name,
		"labels": cfg.AppLabels(),
	}
}

func image(cfg Config) string {
	version := cfg.Version
	if version == "" {
		version = "latest"
	}
	return buildservice.ImageConfiguration{
		Name:     cfg.Name,
		Group:    cfg.Group,
		Version:  version,
		Registry: cfg.Registry,
	}.Image()
}

func deployment(cfg Config) map[string]any {
	pullPolicy := cfg.ImagePullPolicy
	if pullPolicy == "" {
		pullPolicy = "IfNotPresent"
	}
	container := map[string]any{
		"name":            cfg.Name,
		"image":           image(cfg),
		"imagePullPolicy": pullPolicy,
	}
	if ports := generator.ContainerPorts(cfg.Ports); len(ports) > 0 {
		container["ports"] = ports
	}
	if env := generator.EnvVars(cfg.Env); len(env) > 0 {
		container["env"] = env
	}

	return map[string]any{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata":   metadata(cfg),
		"spec": map[string]any{
			"replicas": cfg.ReplicaCount(),
			"selector": map[string]any{
				"matchLabels": map[string]any{"app": cfg.Name},
			},
			"template": map[string]any{
				"metadata": map[string]any{"labels": cfg.AppLabels()},
				"spec": map[string]any{
					"containers": []any{container},
				},
			},
		},
	}
}

func service(cfg Config) map[string]any {
	serviceType := cfg.ServiceType
	if serviceType == "" {
		serviceType = "ClusterIP"
	}
	return map[string]any{
		"apiVersion": "v1",
		"kind":       "Service",
		"metadata":   metadata(cfg),
		"spec": map[string]any{
			"type":     serviceType,
			"selector": map[string]any{"app": cfg.Name},
			"ports":    generator.ServicePorts(cfg.Ports),
		},
	}
}

func ingress(cfg Config) map[string]any {
	return map[string]any{
		"apiVersion": "networking.k8s.io/v1",
		"kind":       "Ingress",
		"metadata":   metadata(cfg),
		"spec": map[string]any{
			"rules": []any{
				map[string]any{
					"host": cfg.Host,
					"http": map[string]any{
						"paths": []any{
							map[string]any{
								"path":     "/",
								"pathType": "Prefix",
								"backend": map[string]any{
									"service": map[string]any{
										"name": cfg.Name,
										"port": map[string]any{
											"number": int64(cfg.Ports[0].ContainerPort),
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}
