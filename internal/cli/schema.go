package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pentasign/pentasign-sdk/schema"
)

func (a *app) newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "schema [kind]",
		Short:             "Print the JSON schema of a document kind",
		Long:              "Print the JSON schema for a kind, or list the available kinds when none is given.",
		Args:              cobra.MaximumNArgs(1),
		RunE:              a.runSchema,
		DisableAutoGenTag: true,
	}
}

func (a *app) runSchema(cmd *cobra.Command, args []string) error {
	reg, err := schema.NewDefaultRegistry()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		for _, kind := range reg.List() {
			printf(cmd, "%s\n", kind)
		}
		return nil
	}

	doc, ok := reg.GetSchema(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", schema.ErrUnknownKind, args[0])
	}
	printf(cmd, "%s\n", doc)
	return nil
}
