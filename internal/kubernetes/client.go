// Package kubernetes provides the cluster side of dekorate: client
// construction from kubeconfig, server-side apply of generated resources,
// and API group discovery used by the s2i build service.
package kubernetes

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	oerrors "github.com/dekorate/cli/internal/errors"
)

// ClientOptions configures Kubernetes client creation.
type ClientOptions struct {
	// Kubeconfig is the path to the kubeconfig file.
	// Precedence: this field > DEKORATE_KUBECONFIG env > KUBECONFIG env > ~/.kube/config
	Kubeconfig string

	// Context is the kubeconfig context to use. Empty means current-context.
	Context string

	// Namespace overrides the context namespace.
	Namespace string

	// APIWarnings controls how API server warnings are logged:
	// "warn" (default), "debug" or "suppress".
	APIWarnings string
}

// Client wraps the Kubernetes API clients.
type Client struct {
	// Dynamic is used for server-side apply and subresource calls.
	Dynamic dynamic.Interface

	// Clientset is used for API group discovery.
	Clientset kubernetes.Interface

	// RestConfig is the underlying REST configuration.
	RestConfig *rest.Config

	// Namespace is the effective namespace for namespaced resources.
	Namespace string
}

var (
	cachedClient *Client
	clientMu     sync.Mutex
)

// NewClient creates a Kubernetes client. The client is cached for the
// rest of the process, so build hooks and apply hooks share one connection.
func NewClient(opts ClientOptions) (*Client, error) {
	clientMu.Lock()
	defer clientMu.Unlock()

	if cachedClient != nil {
		return cachedClient, nil
	}

	clientConfig := loadClientConfig(opts)

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("building kubernetes config: %w",
			oerrors.Wrap(oerrors.ErrConnectivity, err.Error()))
	}
	restConfig.WarningHandler = &warningHandler{level: opts.APIWarnings}

	namespace, _, err := clientConfig.Namespace()
	if err != nil {
		return nil, fmt.Errorf("resolving namespace: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("creating dynamic client: %w",
			oerrors.Wrap(oerrors.ErrConnectivity, err.Error()))
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("creating clientset: %w",
			oerrors.Wrap(oerrors.ErrConnectivity, err.Error()))
	}

	cachedClient = &Client{
		Dynamic:    dynamicClient,
		Clientset:  clientset,
		RestConfig: restConfig,
		Namespace:  namespace,
	}

	return cachedClient, nil
}

// ResetClient clears the cached client. Used for testing.
func ResetClient() {
	clientMu.Lock()
	defer clientMu.Unlock()
	cachedClient = nil
}

func loadClientConfig(opts ClientOptions) clientcmd.ClientConfig {
	loadingRules := &clientcmd.ClientConfigLoadingRules{
		ExplicitPath: ResolveKubeconfig(opts.Kubeconfig),
	}

	overrides := &clientcmd.ConfigOverrides{}
	if opts.Context != "" {
		overrides.CurrentContext = opts.Context
	}
	if opts.Namespace != "" {
		overrides.Context.Namespace = opts.Namespace
	}

	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)
}

// ResolveKubeconfig resolves the kubeconfig path with precedence:
// flag > DEKORATE_KUBECONFIG > KUBECONFIG > ~/.kube/config
func ResolveKubeconfig(flagValue string) string {
	var path string

	switch {
	case flagValue != "":
		path = flagValue
	case os.Getenv("DEKORATE_KUBECONFIG") != "":
		path = os.Getenv("DEKORATE_KUBECONFIG")
	case os.Getenv("KUBECONFIG") != "":
		path = os.Getenv("KUBECONFIG")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".kube", "config")
	}

	return expandTilde(path)
}

// expandTilde expands a leading ~ or ~/ to the user's home directory.
// ~username is left alone.
func expandTilde(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}
	if len(path) > 1 && path[1] == '/' {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
