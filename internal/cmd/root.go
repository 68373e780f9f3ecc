// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dekorate/cli/internal/config"
	"github.com/dekorate/cli/internal/kubernetes"
	"github.com/dekorate/cli/internal/output"
)

var (
	// Global flags
	configFlag     string
	kubeconfigFlag string
	contextFlag    string
	namespaceFlag  string
	dockerHostFlag string
	verboseFlag    bool
	timestampsFlag bool

	// Loaded during PersistentPreRunE
	fileConfig     *config.Config
	resolvedConfig *config.Resolved
)

// NewRootCmd creates the root command for the dekorate CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dekorate",
		Short: "Generate and deploy Kubernetes and OpenShift resources for a project",
		Long: `dekorate merges source markers and application properties into one
configuration per platform, generates Kubernetes and OpenShift manifests from
it, and optionally builds and deploys the application image.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: DEKORATE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&kubeconfigFlag, "kubeconfig", "", "Path to kubeconfig file (env: DEKORATE_KUBECONFIG)")
	rootCmd.PersistentFlags().StringVar(&contextFlag, "context", "", "Kubernetes context to use (env: DEKORATE_CONTEXT)")
	rootCmd.PersistentFlags().StringVarP(&namespaceFlag, "namespace", "n", "", "Kubernetes namespace (env: DEKORATE_NAMESPACE)")
	rootCmd.PersistentFlags().StringVar(&dockerHostFlag, "docker-host", "", "Docker daemon address (env: DEKORATE_DOCKER_HOST)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewServicesCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals loads the config file, resolves settings and sets up
// logging.
func initializeGlobals(cmd *cobra.Command) error {
	loaded, err := config.NewLoader().Load(configFlag)
	if err != nil {
		return exitError(err)
	}
	fileConfig = loaded

	resolved, err := config.ResolveAll(config.ResolveAllOptions{
		ConfigFlag:     configFlag,
		KubeconfigFlag: kubeconfigFlag,
		ContextFlag:    contextFlag,
		NamespaceFlag:  namespaceFlag,
		DockerHostFlag: dockerHostFlag,
		Config:         fileConfig,
	})
	if err != nil {
		return exitError(err)
	}
	resolvedConfig = resolved

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if fileConfig.Log.Timestamps != nil {
		logCfg.Timestamps = fileConfig.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if verboseFlag {
		config.LogResolvedValues(resolvedConfig.Values())
	}
	return nil
}

// clusterOptions returns the cluster settings used by the s2i build
// service and the apply hook.
func clusterOptions() kubernetes.ClientOptions {
	if resolvedConfig == nil {
		return kubernetes.ClientOptions{
			Kubeconfig: kubeconfigFlag,
			Context:    contextFlag,
			Namespace:  namespaceFlag,
		}
	}
	return kubernetes.ClientOptions{
		Kubeconfig:  resolvedConfig.Kubeconfig.Value,
		Context:     resolvedConfig.Context.Value,
		Namespace:   resolvedConfig.Namespace.Value,
		APIWarnings: resolvedConfig.APIWarnings,
	}
}

// dockerHost returns the resolved docker daemon address.
func dockerHost() string {
	if resolvedConfig != nil {
		return resolvedConfig.DockerHost.Value
	}
	return dockerHostFlag
}

// outputDir returns the resolved manifest directory.
func outputDir() string {
	if resolvedConfig != nil && resolvedConfig.OutputDir.Value != "" {
		return resolvedConfig.OutputDir.Value
	}
	return config.DefaultOutputDir
}
