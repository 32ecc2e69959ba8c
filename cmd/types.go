package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cube2222/ocitdo/output"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the types of the fixture with the class their instances decode to.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (outErr error) {
		env, err := setup()
		if err != nil {
			return err
		}
		defer func() {
			if err := env.Close(); err != nil && outErr == nil {
				outErr = errors.Wrap(err, "couldn't close catalog")
			}
		}()

		w := cmd.OutOrStdout()
		formatter, err := env.formatter(w, "table")
		if err != nil {
			return err
		}
		if formatter != nil {
			formatter.SetSchema(output.StringSchema("type", "kind", "attributes", "class"))
		}

		for _, name := range env.library.Types() {
			typ, _ := env.library.Type(name)
			class := env.mapping.Resolve(typ.Name).Name()
			if formatter == nil {
				fmt.Fprintf(w, "%s %s (%d attributes) -> %s\n", name, typ.Code, len(typ.Attributes), class)
				continue
			}
			if err := formatter.Write(output.Strings(name, typ.Code.String(), fmt.Sprint(len(typ.Attributes)), class)); err != nil {
				return errors.Wrap(err, "couldn't write type")
			}
		}

		if formatter != nil {
			return formatter.Close()
		}
		return nil
	},
}
