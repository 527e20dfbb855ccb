package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "k8s.io/client-go/plugin/pkg/client/auth"
)

var VERSION = "0.1.0-dev.0"

const PROJECT = "cloudsecret-operator"

var rootCmd = &cobra.Command{
	Use:           PROJECT,
	Version:       VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "A Kubernetes operator that syncs cloud provider secrets into Kubernetes Secrets.",
	Long: `cloudsecret-operator keeps Kubernetes Secrets in sync with secrets held by a cloud
secrets manager, creating, validating and rotating their keys on the way.

- cloudsecret-operator run [--api-version v1alpha2] [--enable-webhooks]
- cloudsecret-operator crdgen <CloudSecret|CloudSecretProvider> [--storage-version v1alpha2]
`,
}

func init() {
	rootCmd.DisableAutoGenTag = true
	rootCmd.SetOut(os.Stdout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, `✗`, err)
		os.Exit(1)
	}
}
