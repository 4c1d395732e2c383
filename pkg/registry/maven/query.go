package maven

import (
	"net/url"
	"strconv"
	"strings"
)

// Maven Central's search API is Solr-backed. Coordinate fields are
// embedded in quoted literals, so backslashes and double quotes must be
// escaped to keep the query well-formed.
var solrLiteralEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// gaQuery builds the Solr q parameter for an exact group/artifact match:
//
//	g:"com.example" AND a:"my-artifact"
func gaQuery(c Coordinate) string {
	return `g:"` + solrLiteralEscaper.Replace(c.GroupID) + `" AND a:"` + solrLiteralEscaper.Replace(c.ArtifactID) + `"`
}

// versionsURL builds the request URL for enumerating all versions of a
// coordinate. core=gav makes Solr return one document per released
// version instead of one per artifact.
func versionsURL(base string, c Coordinate, rows int) string {
	params := url.Values{}
	params.Set("core", "gav")
	params.Set("q", gaQuery(c))
	params.Set("rows", strconv.Itoa(rows))
	params.Set("wt", "json")
	return base + "?" + params.Encode()
}

// searchURL builds the request URL for a free-text search.
func searchURL(base, query string, rows int) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("rows", strconv.Itoa(rows))
	params.Set("wt", "json")
	return base + "?" + params.Encode()
}

// searchResponse mirrors the upstream Solr response envelope. Unknown
// fields are tolerated by the JSON decoder and never consulted.
type searchResponse struct {
	Response struct {
		NumFound int         `json:"numFound"`
		Docs     []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	GroupID       string `json:"g"`
	ArtifactID    string `json:"a"`
	Version       string `json:"v"`
	LatestVersion string `json:"latestVersion"`
	Timestamp     int64  `json:"timestamp"` // epoch milliseconds
}
