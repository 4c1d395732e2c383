package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mvnq/mvnq/pkg/registry/maven"
)

// depsResult is the JSON document printed by the deps command.
type depsResult struct {
	Coordinate   string             `json:"coordinate"`
	Version      string             `json:"version"`
	Count        int                `json:"count"`
	Dependencies []maven.Dependency `json:"dependencies"`
}

// depsCommand creates the "deps" command.
func (c *CLI) depsCommand() *cobra.Command {
	var scopes []string

	cmd := &cobra.Command{
		Use:   "deps <groupId:artifactId> <version>",
		Short: "List the dependencies declared in an artifact's POM",
		Long: `List the dependencies declared directly in the POM of an artifact version.

Only the POM itself is consulted: parent inheritance, BOM imports, and
transitive resolution are not performed. Dependencies whose version would
require them are tagged with an unresolved_reason instead of a version.

By default only compile and runtime scoped dependencies are shown; pass
--scope (repeatable) to select other scopes.

Examples:
  mvnq deps com.google.guava:guava 33.0.0-jre
  mvnq deps org.junit.jupiter:junit-jupiter 5.10.2 --scope test`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := maven.ParseCoordinate(args[0])
			if err != nil {
				return err
			}
			version := args[1]

			client, _, err := c.newMavenClient()
			if err != nil {
				return err
			}

			deps, err := client.Dependencies(cmd.Context(), coord, version, scopes)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, depsResult{
				Coordinate:   coord.String(),
				Version:      version,
				Count:        len(deps),
				Dependencies: deps,
			})
		},
	}

	cmd.Flags().StringArrayVar(&scopes, "scope", nil, "dependency scopes to include (default compile,runtime)")
	return cmd
}
