package commands

import (
	"fmt"

	"github.com/ncobase/esdsl/compiler"
	"github.com/spf13/cobra"
)

// NewCompileCommand creates the compile command
func NewCompileCommand() *cobra.Command {
	var (
		pretty bool
		params bool
		index  string
	)

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a query document into search DSL",
		Long: `Compile reads a JSON or YAML query document from file, or stdin when
no file is given, and prints the search body.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRequest(cmd, args)
			if err != nil {
				return err
			}
			if index != "" {
				r.Index = index
			}

			var out any = compiler.DSL(r)
			if params {
				out = compiler.RequestParams(r)
			}
			data, err := compiler.Render(out, pretty)
			if err != nil {
				return fmt.Errorf("failed to render: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", true, "indent the output")
	cmd.Flags().BoolVar(&params, "params", false, "print the full request parameters")
	cmd.Flags().StringVarP(&index, "index", "i", "", "override the index")
	return cmd
}
