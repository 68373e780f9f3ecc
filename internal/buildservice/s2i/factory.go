// Package s2i provides the OpenShift source-to-image build service. It
// applies the generated ImageStreams and BuildConfig and starts a binary
// build with the project directory as input.
package s2i

import (
	"fmt"
	"os"

	"github.com/dekorate/cli/internal/buildservice"
	"github.com/dekorate/cli/internal/kubernetes"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/resource"
)

const (
	// Name is the factory name.
	Name = "s2i"

	// Order ranks s2i after local docker builds.
	Order = 20

	// BuildGroupVersion is the API the cluster must serve.
	BuildGroupVersion = "build.openshift.io/v1"

	messageOK         = "S2I build service is applicable."
	messageNoConfig   = "S2I build service is not applicable to the project, due to not being able to find a kubeconfig at: %s."
	messageNoCluster  = "S2I build service is not applicable to the project, due to not being able to connect to the cluster: %v."
	messageNoBuildAPI = "S2I build service is not applicable to the project, due to the cluster not serving " + BuildGroupVersion + "."
)

// Factory creates s2i build services.
type Factory struct {
	options kubernetes.ClientOptions

	// connect returns the cluster client. Replaced in tests.
	connect func() (*kubernetes.Client, error)
}

// NewFactory returns an s2i factory connecting with opts.
func NewFactory(opts kubernetes.ClientOptions) *Factory {
	return &Factory{
		options: opts,
		connect: func() (*kubernetes.Client, error) { return kubernetes.NewClient(opts) },
	}
}

// Name returns "s2i".
func (f *Factory) Name() string { return Name }

// Order returns 20.
func (f *Factory) Order() int { return Order }

// CheckApplicability requires a kubeconfig file and a cluster serving the
// OpenShift build API.
func (f *Factory) CheckApplicability(_ *project.Project, _ buildservice.ImageConfiguration) buildservice.Applicability {
	path := kubernetes.ResolveKubeconfig(f.options.Kubeconfig)
	if _, err := os.Stat(path); err != nil {
		return buildservice.Applicability{Message: fmt.Sprintf(messageNoConfig, path)}
	}

	client, err := f.connect()
	if err != nil {
		return buildservice.Applicability{Message: fmt.Sprintf(messageNoCluster, err)}
	}

	ok, err := client.ServesGroupVersion(BuildGroupVersion)
	if err != nil {
		return buildservice.Applicability{Message: fmt.Sprintf(messageNoCluster, err)}
	}
	if !ok {
		return buildservice.Applicability{Message: messageNoBuildAPI}
	}
	return buildservice.Applicability{Applicable: true, Message: messageOK}
}

// Create returns an s2i build service without generated resources; the
// BuildConfig must already exist on the cluster.
func (f *Factory) Create(p *project.Project, cfg buildservice.ImageConfiguration) buildservice.BuildService {
	return f.CreateWithResources(p, cfg, nil)
}

// CreateWithResources returns an s2i build service that applies the
// ImageStreams and BuildConfig among resources before building.
func (f *Factory) CreateWithResources(p *project.Project, cfg buildservice.ImageConfiguration, resources []*resource.Resource) buildservice.BuildService {
	var build []*resource.Resource
	for _, r := range resources {
		switch r.GetKind() {
		case "ImageStream", "BuildConfig":
			build = append(build, r)
		}
	}
	return &Service{
		project:   p,
		config:    cfg,
		resources: build,
		connect:   f.connect,
		upload:    uploadBinary,
	}
}
