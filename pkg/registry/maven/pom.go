package maven

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"slices"
	"strings"

	apperrors "github.com/mvnq/mvnq/pkg/errors"
)

// pomURL constructs the repository location of a POM: the group id with
// dots replaced by path separators, then artifact/version/artifact-version.pom.
// Coordinate parts must already be validated; the group id additionally
// must not produce empty path segments.
func pomURL(repoBase string, c Coordinate, version string) (string, error) {
	if strings.HasPrefix(c.GroupID, ".") || strings.HasSuffix(c.GroupID, ".") {
		return "", apperrors.New(apperrors.ErrCodeInvalidCoordinate, "group_id has empty path segments")
	}
	groupPath := strings.ReplaceAll(c.GroupID, ".", "/")
	return repoBase + "/" + groupPath + "/" + c.ArtifactID + "/" + version + "/" +
		c.ArtifactID + "-" + version + ".pom", nil
}

// pomProject is the subset of a POM document this package reads. The
// top-level dependencies block is the only source of emitted dependencies;
// dependencyManagement is consulted solely to tag managed versions.
type pomProject struct {
	GroupID              string          `xml:"groupId"`
	ArtifactID           string          `xml:"artifactId"`
	Version              string          `xml:"version"`
	Properties           pomProperties   `xml:"properties"`
	Dependencies         []pomDependency `xml:"dependencies>dependency"`
	DependencyManagement struct {
		Dependencies []pomDependency `xml:"dependencies>dependency"`
	} `xml:"dependencyManagement"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}

// pomProperties captures the free-form <properties> block as a map of
// element name to text content.
type pomProperties map[string]string

func (p *pomProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	m := make(map[string]string)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			m[t.Name.Local] = strings.TrimSpace(value)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				*p = m
				return nil
			}
		}
	}
}

// parsePOM decodes POM bytes with a hardened parser. encoding/xml never
// fetches external entities or DTDs, and the strict decoder rejects
// undefined entity references, so entity-expansion attacks surface as
// parse errors. Malformed XML fails outright; there is no partial result.
func parsePOM(data []byte) (*pomProject, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	var pom pomProject
	if err := dec.Decode(&pom); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMalformedXML, err, "malformed POM")
	}
	return &pom, nil
}

// propertyRefPattern matches a version value that is entirely a Maven
// property reference, e.g. "${guava.version}".
var propertyRefPattern = regexp.MustCompile(`^\$\{([^}]+)\}$`)

// extractDependencies flattens the POM's top-level dependencies into
// Dependency records, resolving versions where the POM alone allows it:
//
//   - literal versions are used as-is
//   - ${...} references are substituted from the local properties block;
//     unknown properties are tagged property_unresolved
//   - absent versions matching a local dependencyManagement entry are
//     tagged managed; otherwise missing
//
// Parent and ancestor management is never consulted. The result is sorted
// by (group, artifact, version) for deterministic output.
func extractDependencies(pom *pomProject) []Dependency {
	managed := make(map[string]bool, len(pom.DependencyManagement.Dependencies))
	for _, d := range pom.DependencyManagement.Dependencies {
		managed[d.GroupID+":"+d.ArtifactID] = true
	}

	deps := make([]Dependency, 0, len(pom.Dependencies))
	for _, d := range pom.Dependencies {
		group := strings.TrimSpace(d.GroupID)
		artifact := strings.TrimSpace(d.ArtifactID)
		if group == "" || artifact == "" {
			continue
		}

		dep := Dependency{
			GroupID:    group,
			ArtifactID: artifact,
			Scope:      strings.TrimSpace(d.Scope),
			Optional:   strings.TrimSpace(d.Optional) == "true",
		}

		switch ver := strings.TrimSpace(d.Version); {
		case ver == "":
			if managed[dep.Coordinate()] {
				dep.UnresolvedReason = UnresolvedManaged
			} else {
				dep.UnresolvedReason = UnresolvedMissing
			}
		case propertyRefPattern.MatchString(ver):
			name := propertyRefPattern.FindStringSubmatch(ver)[1]
			if resolved, ok := pom.Properties[name]; ok && resolved != "" {
				dep.Version = resolved
			} else {
				dep.UnresolvedReason = UnresolvedProperty
			}
		default:
			dep.Version = ver
		}

		deps = append(deps, dep)
	}

	slices.SortStableFunc(deps, func(a, b Dependency) int {
		if c := strings.Compare(a.GroupID, b.GroupID); c != 0 {
			return c
		}
		if c := strings.Compare(a.ArtifactID, b.ArtifactID); c != 0 {
			return c
		}
		return strings.Compare(a.Version, b.Version)
	})
	return deps
}

// DefaultScopes is the scope filter applied when the caller supplies none.
var DefaultScopes = []string{"compile", "runtime"}

// filterScopes drops dependencies whose declared scope (compile when
// absent) is not in the allowed set. Filtering is the last pipeline step;
// dropped entries are removed entirely, not flagged.
func filterScopes(deps []Dependency, scopes []string) []Dependency {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	allowed := make(map[string]bool, len(scopes))
	for _, s := range scopes {
		allowed[strings.ToLower(strings.TrimSpace(s))] = true
	}

	kept := make([]Dependency, 0, len(deps))
	for _, d := range deps {
		scope := strings.ToLower(d.Scope)
		if scope == "" {
			scope = "compile"
		}
		if allowed[scope] {
			kept = append(kept, d)
		}
	}
	return kept
}
