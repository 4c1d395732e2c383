package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mvnq/mvnq/pkg/registry/maven"
)

// searchResult is the JSON document printed by the search command.
type searchResult struct {
	Query   string           `json:"query"`
	Count   int              `json:"count"`
	Results []maven.Artifact `json:"results"`
}

// searchCommand creates the "search" command.
func (c *CLI) searchCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search Maven Central artifacts",
		Long: `Search Maven Central with a free-text query.

Results come back in upstream relevance order with each artifact's latest
known version.

Examples:
  mvnq search guava
  mvnq search "json parser" --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := c.newMavenClient()
			if err != nil {
				return err
			}

			artifacts, err := client.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, searchResult{
				Query:   args[0],
				Count:   len(artifacts),
				Results: artifacts,
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results to print")
	return cmd
}
