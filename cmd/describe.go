package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cube2222/ocitdo/config"
	"github.com/cube2222/ocitdo/output"
	"github.com/cube2222/ocitdo/tdo"
)

var recursive bool

var describeCmd = &cobra.Command{
	Use:   "describe SCHEMA.TYPE...",
	Short: "Describe object and opaque types.",
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

		if !cmd.Flags().Changed("recursive") {
			recursive, err = config.GetBool(env.config.Options, "describe.recursive", config.WithDefault(false))
			if err != nil {
				return errors.Wrap(err, "couldn't get describe.recursive option")
			}
		}

		w := cmd.OutOrStdout()
		formatter, err := env.formatter(w, "table")
		if err != nil {
			return err
		}
		if formatter != nil {
			formatter.SetSchema(output.StringSchema("type", "attribute", "field", "type_code", "class"))
		}

		for _, name := range args {
			typ, err := env.catalog.DescribeQualified(name)
			if err != nil {
				return errors.Wrapf(err, "couldn't describe %s", name)
			}
			if formatter == nil {
				printDescriptor(w, typ, 0)
				continue
			}
			if err := writeDescriptor(formatter, typ, typ.QualifiedName(), "", ""); err != nil {
				return err
			}
		}

		if formatter != nil {
			return formatter.Close()
		}
		return nil
	},
}

func init() {
	describeCmd.Flags().BoolVar(&recursive, "recursive", false, "Describe nested attribute types too.")
}

func printDescriptor(w io.Writer, typ *tdo.TypeDescriptor, depth int) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), typ)
	if !recursive {
		return
	}
	for _, attr := range typ.Attributes {
		if attr.Type != nil {
			printDescriptor(w, attr.Type, depth+1)
		}
	}
}

func writeDescriptor(formatter output.Format, typ *tdo.TypeDescriptor, root, prefix, fieldPrefix string) error {
	if typ.Opaque != tdo.OpaqueNone {
		return formatter.Write(output.Strings(root, prefix, fieldPrefix, "OPAQUE "+typ.Opaque.String(), typ.Class.Name()))
	}
	for _, attr := range typ.Attributes {
		typeCode := attr.Code.String()
		if attr.Type != nil {
			typeCode = attr.Type.QualifiedName()
		}
		if err := formatter.Write(output.Strings(root, prefix+attr.Name, fieldPrefix+attr.FieldKey, typeCode, typ.Class.Name())); err != nil {
			return errors.Wrap(err, "couldn't write attribute")
		}
		if recursive && attr.Type != nil && attr.Type.Opaque == tdo.OpaqueNone {
			if err := writeDescriptor(formatter, attr.Type, root, prefix+attr.Name+".", fieldPrefix+attr.FieldKey+"."); err != nil {
				return err
			}
		}
	}
	return nil
}
