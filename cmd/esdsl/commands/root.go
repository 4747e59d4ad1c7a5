package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/ncobase/esdsl/query"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	_ "github.com/ncobase/esdsl/data/elasticsearch"
	_ "github.com/ncobase/esdsl/data/opensearch"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "esdsl",
		Short:         "Compile and run bool-query DSL against Elasticsearch and OpenSearch",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(
		NewCompileCommand(),
		NewSearchCommand(&configFile),
		NewServeCommand(&configFile),
		NewVersionCommand(),
	)

	return rootCmd
}

// readDocument reads a JSON or YAML query document from path, or from in
// when path is empty or "-".
func readDocument(path string, in io.Reader) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read query document: %w", err)
	}

	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse query document: %w", err)
	}
	return doc, nil
}

// loadRequest reads and decodes a query document
func loadRequest(cmd *cobra.Command, args []string) (*query.Request, error) {
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	doc, err := readDocument(path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return query.Decode(doc)
}
