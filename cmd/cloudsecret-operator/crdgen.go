package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darkowlzz/cloudsecret-operator/crd"
)

var crdgenCmd = &cobra.Command{
	Use:   "crdgen <kind>",
	Short: "Print the CustomResourceDefinition of a kind.",
	Long: fmt.Sprintf(`The crdgen command prints the CustomResourceDefinition of one of %s as YAML.

- cloudsecret-operator crdgen CloudSecret > cloudsecret-crd.yaml
`, strings.Join(crd.Kinds(), ", ")),
	Args:      cobra.ExactArgs(1),
	ValidArgs: crd.Kinds(),
	RunE:      runCrdgenCmd,
}

type crdgenFlags struct {
	storageVersion string
}

var crdgenArgs crdgenFlags

func init() {
	crdgenCmd.Flags().StringVar(&crdgenArgs.storageVersion, "storage-version", crd.DefaultStorageVersion,
		"The API version persisted by the API server.")
	rootCmd.AddCommand(crdgenCmd)
}

func runCrdgenCmd(cmd *cobra.Command, args []string) error {
	out, err := crd.YAML(args[0], crdgenArgs.storageVersion)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
