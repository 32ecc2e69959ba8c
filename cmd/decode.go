package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cube2222/ocitdo/native"
	"github.com/cube2222/ocitdo/tdo"
)

var decodeCmd = &cobra.Command{
	Use:   "decode INSTANCE...",
	Short: "Decode fixture instances into native values.",
	Args:  cobra.MinimumNArgs(1),
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
		formatter, err := env.formatter(w, "text")
		if err != nil {
			return err
		}
		if formatter != nil {
			formatter.SetSchema([]native.StructField{
				{Name: "instance", Type: native.String},
				{Name: "type", Type: native.String},
				{Name: "value", Type: native.Null},
			})
		}

		decoder := tdo.NewDecoder(env.session)
		for _, name := range args {
			instance, nullStruct, typeName, err := env.session.Instance(env.fixture, name)
			if err != nil {
				return err
			}
			typ, err := env.catalog.DescribeQualified(typeName)
			if err != nil {
				return errors.Wrapf(err, "couldn't describe %s", typeName)
			}
			value, err := decoder.Decode(typ, instance, nullStruct)
			if err != nil {
				return errors.Wrapf(err, "couldn't decode instance %s", name)
			}

			if formatter == nil {
				fmt.Fprintf(w, "%s: %s\n", name, value)
				continue
			}
			if err := formatter.Write([]native.Value{
				native.NewString(name),
				native.NewString(typeName),
				value,
			}); err != nil {
				return errors.Wrap(err, "couldn't write value")
			}
		}

		if formatter != nil {
			return formatter.Close()
		}
		return nil
	},
}
