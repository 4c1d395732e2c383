package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mvnq/mvnq/pkg/registry/maven"
)

// latestResult is the JSON document printed by the latest command.
type latestResult struct {
	Coordinate string `json:"coordinate"`
	maven.VersionInfo
}

// latestCommand creates the "latest" command.
func (c *CLI) latestCommand() *cobra.Command {
	var prereleases bool

	cmd := &cobra.Command{
		Use:   "latest <groupId:artifactId>",
		Short: "Resolve the latest version of an artifact",
		Long: `Resolve the latest version of a Maven Central artifact.

Pre-release versions (SNAPSHOT, alpha, beta, rc, milestones, ...) are
excluded unless --prereleases is given.

Examples:
  mvnq latest com.google.guava:guava
  mvnq latest org.springframework:spring-core --prereleases`,
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

			info, err := client.LatestVersion(cmd.Context(), coord, prereleases)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, latestResult{Coordinate: coord.String(), VersionInfo: info})
		},
	}

	cmd.Flags().BoolVar(&prereleases, "prereleases", false, "consider pre-release versions")
	return cmd
}
