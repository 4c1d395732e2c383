package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mvnq/mvnq/pkg/registry/maven"
)

// versionsResult is the JSON document printed by the versions command.
type versionsResult struct {
	Coordinate string              `json:"coordinate"`
	Count      int                 `json:"count"`
	Versions   []maven.VersionInfo `json:"versions"`
}

// versionsCommand creates the "versions" command.
func (c *CLI) versionsCommand() *cobra.Command {
	var (
		limit       int
		prereleases bool
	)

	cmd := &cobra.Command{
		Use:   "versions <groupId:artifactId>",
		Short: "List known versions of an artifact, newest first",
		Long: `List the versions of a Maven Central artifact, ordered newest first.

Pre-release versions are excluded unless --prereleases is given. Use
--limit to truncate long histories.

Examples:
  mvnq versions org.apache.commons:commons-lang3
  mvnq versions com.fasterxml.jackson.core:jackson-databind --limit 10 --prereleases`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := maven.ParseCoordinate(args[0])
			if err != nil {
				return err
			}

			client, _, err := c.newMavenClient()
			if err != nil {
				return err
			}

			infos, err := client.Versions(cmd.Context(), coord, limit, prereleases)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, versionsResult{
				Coordinate: coord.String(),
				Count:      len(infos),
				Versions:   infos,
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum versions to print (0 = all)")
	cmd.Flags().BoolVar(&prereleases, "prereleases", false, "include pre-release versions")
	return cmd
}
