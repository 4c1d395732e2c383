package maven

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/mvnq/mvnq/pkg/errors"
)

// Coordinate identifies a Maven artifact by groupId and artifactId.
// It is an immutable value type; two coordinates are equal when both
// fields are equal.
type Coordinate struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
}

// ParseCoordinate parses a "groupId:artifactId" string.
// Examples: "com.google.guava:guava", "org.apache.commons:commons-lang3".
func ParseCoordinate(s string) (Coordinate, error) {
	group, artifact, ok := strings.Cut(s, ":")
	if !ok {
		return Coordinate{}, apperrors.New(apperrors.ErrCodeInvalidCoordinate,
			"invalid maven coordinate %q (expected groupId:artifactId)", s)
	}
	c := Coordinate{GroupID: strings.TrimSpace(group), ArtifactID: strings.TrimSpace(artifact)}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate checks both coordinate fields for emptiness, length, and
// path-safety. It is called before any network request is issued.
func (c Coordinate) Validate() error {
	if err := apperrors.ValidateCoordinatePart("group_id", c.GroupID); err != nil {
		return err
	}
	return apperrors.ValidateCoordinatePart("artifact_id", c.ArtifactID)
}

// String returns the canonical "groupId:artifactId" form.
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID
}

// VersionInfo holds one known release of a coordinate: the raw version
// string as reported by Maven Central plus its publication timestamp when
// available.
type VersionInfo struct {
	Version   string     `json:"version"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Artifact is a free-text search result document.
type Artifact struct {
	GroupID       string     `json:"group_id"`
	ArtifactID    string     `json:"artifact_id"`
	LatestVersion string     `json:"latest_version,omitempty"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
}

// Coordinate returns the artifact's "groupId:artifactId" coordinate.
func (a Artifact) Coordinate() string {
	return a.GroupID + ":" + a.ArtifactID
}

// UnresolvedReason documents why a declared dependency's version could not
// be resolved from the POM alone.
type UnresolvedReason string

const (
	// UnresolvedManaged: the version is supplied by the POM's own
	// dependencyManagement section rather than declared inline.
	UnresolvedManaged UnresolvedReason = "managed"

	// UnresolvedProperty: the version is a ${...} reference with no match
	// in the POM's local properties block.
	UnresolvedProperty UnresolvedReason = "property_unresolved"

	// UnresolvedMissing: no version is declared and no local management
	// entry matches. Resolution would require parent POMs, which are out
	// of scope.
	UnresolvedMissing UnresolvedReason = "missing"
)

// Dependency is one entry of a POM's top-level dependencies block.
// Version and UnresolvedReason are mutually exclusive: a populated reason
// implies the version is absent.
type Dependency struct {
	GroupID          string           `json:"group_id"`
	ArtifactID       string           `json:"artifact_id"`
	Version          string           `json:"version,omitempty"`
	Scope            string           `json:"scope,omitempty"`
	Optional         bool             `json:"optional"`
	UnresolvedReason UnresolvedReason `json:"unresolved_reason,omitempty"`
}

// Coordinate returns the dependency's "groupId:artifactId" coordinate.
func (d Dependency) Coordinate() string {
	return d.GroupID + ":" + d.ArtifactID
}

func (d Dependency) String() string {
	if d.Version != "" {
		return fmt.Sprintf("%s:%s:%s", d.GroupID, d.ArtifactID, d.Version)
	}
	return d.Coordinate()
}
