package generator

import (
	"sort"
	"strconv"
)

// PortName returns the port's name, or its number when unnamed.
func PortName(p Port) string {
	if p.Name != "" {
		return p.Name
	}
	return strconv.Itoa(p.ContainerPort)
}

// ContainerPorts renders ports as container port entries.
func ContainerPorts(ports []Port) []any {
	out := make([]any, 0, len(ports))
	for _, p := range ports {
		entry := map[string]any{
			"containerPort": int64(p.ContainerPort),
			"protocol":      protocol(p),
		}
		if p.Name != "" {
			entry["name"] = p.Name
		}
		out = append(out, entry)
	}
	return out
}

// ServicePorts renders ports as Service port entries targeting the
// container port of the same number.
func ServicePorts(ports []Port) []any {
	out := make([]any, 0, len(ports))
	for _, p := range ports {
		entry := map[string]any{
			"name":       PortName(p),
			"port":       int64(p.ContainerPort),
			"targetPort": int64(p.ContainerPort),
			"protocol":   protocol(p),
		}
		out = append(out, entry)
	}
	return out
}

// EnvVars renders env as container env entries sorted by name.
func EnvVars(env map[string]string) []any {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]any, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]any{"name": name, "value": env[name]})
	}
	return out
}

func protocol(p Port) string {
	if p.Protocol == "" {
		return "TCP"
	}
	return p.Protocol
}
