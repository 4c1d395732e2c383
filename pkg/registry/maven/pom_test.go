package maven

import (
	"testing"

	apperrors "github.com/mvnq/mvnq/pkg/errors"
)

func mustExtract(t *testing.T, xml string) []Dependency {
	t.Helper()
	pom, err := parsePOM([]byte(xml))
	if err != nil {
		t.Fatalf("parsePOM failed: %v", err)
	}
	return extractDependencies(pom)
}

func TestExtractLiteralVersion(t *testing.T) {
	deps := mustExtract(t, `<?xml version="1.0"?>
<project>
  <dependencies>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>lib</artifactId>
      <version>1.2.3</version>
      <scope>compile</scope>
      <optional>false</optional>
    </dependency>
  </dependencies>
</project>`)

	if len(deps) != 1 {
		t.Fatalf("expected 1 dep, got %d: %v", len(deps), deps)
	}
	d := deps[0]
	if d.GroupID != "com.example" || d.ArtifactID != "lib" {
		t.Errorf("coordinate = %s", d.Coordinate())
	}
	if d.Version != "1.2.3" || d.Scope != "compile" || d.Optional {
		t.Errorf("unexpected dep: %+v", d)
	}
	if d.UnresolvedReason != "" {
		t.Errorf("unresolved_reason = %q, want empty", d.UnresolvedReason)
	}
}

func TestExtractLocalPropertyResolution(t *testing.T) {
	deps := mustExtract(t, `<project>
  <properties>
    <guava.version>32.1.0</guava.version>
  </properties>
  <dependencies>
    <dependency>
      <groupId>com.google.guava</groupId>
      <artifactId>guava</artifactId>
      <version>${guava.version}</version>
    </dependency>
  </dependencies>
</project>`)

	if len(deps) != 1 {
		t.Fatalf("expected 1 dep, got %d", len(deps))
	}
	if deps[0].Version != "32.1.0" {
		t.Errorf("version = %q, want 32.1.0", deps[0].Version)
	}
	if deps[0].UnresolvedReason != "" {
		t.Errorf("unresolved_reason = %q, want empty", deps[0].UnresolvedReason)
	}
}

func TestExtractUnresolvedProperty(t *testing.T) {
	deps := mustExtract(t, `<project>
  <dependencies>
    <dependency>
      <groupId>org.example</groupId>
      <artifactId>ref-prop</artifactId>
      <version>${does.not.exist}</version>
    </dependency>
  </dependencies>
</project>`)

	if len(deps) != 1 {
		t.Fatalf("expected 1 dep, got %d", len(deps))
	}
	if deps[0].Version != "" || deps[0].UnresolvedReason != UnresolvedProperty {
		t.Errorf("unexpected dep: %+v", deps[0])
	}
}

func TestExtractManagedVersion(t *testing.T) {
	deps := mustExtract(t, `<project>
  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>org.example</groupId>
        <artifactId>managed-art</artifactId>
        <version>9.9.9</version>
      </dependency>
    </dependencies>
  </dependencyManagement>
  <dependencies>
    <dependency>
      <groupId>org.example</groupId>
      <artifactId>managed-art</artifactId>
    </dependency>
  </dependencies>
</project>`)

	// dependencyManagement entries are never emitted themselves.
	if len(deps) != 1 {
		t.Fatalf("expected 1 dep, got %d: %v", len(deps), deps)
	}
	if deps[0].Version != "" || deps[0].UnresolvedReason != UnresolvedManaged {
		t.Errorf("unexpected dep: %+v", deps[0])
	}
}

func TestExtractMissingVersion(t *testing.T) {
	deps := mustExtract(t, `<project>
  <dependencies>
    <dependency>
      <groupId>org.example</groupId>
      <artifactId>no-version</artifactId>
    </dependency>
  </dependencies>
</project>`)

	if len(deps) != 1 {
		t.Fatalf("expected 1 dep, got %d", len(deps))
	}
	d := deps[0]
	if d.Version != "" || d.UnresolvedReason != UnresolvedMissing {
		t.Errorf("unexpected dep: %+v", d)
	}
	// No scope or optional inference beyond what the element declared.
	if d.Scope != "" || d.Optional {
		t.Errorf("inferred scope/optional on missing-version dep: %+v", d)
	}
}

func TestExtractSortsDeterministically(t *testing.T) {
	deps := mustExtract(t, `<project>
  <dependencies>
    <dependency><groupId>org.zeta</groupId><artifactId>z</artifactId><version>1</version></dependency>
    <dependency><groupId>org.alpha</groupId><artifactId>b</artifactId><version>1</version></dependency>
    <dependency><groupId>org.alpha</groupId><artifactId>a</artifactId><version>2</version></dependency>
  </dependencies>
</project>`)

	var got []string
	for _, d := range deps {
		got = append(got, d.String())
	}
	want := []string{"org.alpha:a:2", "org.alpha:b:1", "org.zeta:z:1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestParsePOMRejectsEntityExpansion(t *testing.T) {
	_, err := parsePOM([]byte(`<!DOCTYPE foo [
  <!ELEMENT foo ANY >
  <!ENTITY xxe SYSTEM "file:///etc/passwd" >]>
<project>
  <dependencies>
    <dependency>
      <groupId>g</groupId>
      <artifactId>a</artifactId>
      <version>&xxe;</version>
    </dependency>
  </dependencies>
</project>`))
	if !apperrors.Is(err, apperrors.ErrCodeMalformedXML) {
		t.Fatalf("parsePOM error = %v, want MALFORMED_XML", err)
	}
}

func TestParsePOMRejectsMalformedXML(t *testing.T) {
	_, err := parsePOM([]byte(`<project><dependencies>`))
	if !apperrors.Is(err, apperrors.ErrCodeMalformedXML) {
		t.Fatalf("parsePOM error = %v, want MALFORMED_XML", err)
	}
	if apperrors.Retryable(err) {
		t.Error("parse failures must not be retryable")
	}
}

func TestFilterScopes(t *testing.T) {
	deps := []Dependency{
		{GroupID: "a", ArtifactID: "compile-implied"},
		{GroupID: "b", ArtifactID: "compile", Scope: "compile"},
		{GroupID: "c", ArtifactID: "runtime", Scope: "runtime"},
		{GroupID: "d", ArtifactID: "test", Scope: "test"},
		{GroupID: "e", ArtifactID: "provided", Scope: "provided"},
	}

	kept := filterScopes(deps, nil)
	if len(kept) != 3 {
		t.Fatalf("default filter kept %d deps, want 3: %v", len(kept), kept)
	}
	for _, d := range kept {
		if d.Scope == "test" || d.Scope == "provided" {
			t.Errorf("scope %q should have been dropped", d.Scope)
		}
	}

	testOnly := filterScopes(deps, []string{"test"})
	if len(testOnly) != 1 || testOnly[0].Scope != "test" {
		t.Errorf("explicit scope filter kept %v", testOnly)
	}
}

func TestPomURL(t *testing.T) {
	coord := Coordinate{GroupID: "org.apache.commons", ArtifactID: "commons-lang3"}
	url, err := pomURL("https://repo1.maven.org/maven2", coord, "3.14.0")
	if err != nil {
		t.Fatalf("pomURL error: %v", err)
	}
	want := "https://repo1.maven.org/maven2/org/apache/commons/commons-lang3/3.14.0/commons-lang3-3.14.0.pom"
	if url != want {
		t.Errorf("pomURL = %q, want %q", url, want)
	}
}

func TestPomURLRejectsEmptySegments(t *testing.T) {
	for _, group := range []string{".org.example", "org.example."} {
		coord := Coordinate{GroupID: group, ArtifactID: "lib"}
		if _, err := pomURL("https://repo1.maven.org/maven2", coord, "1.0"); err == nil {
			t.Errorf("pomURL accepted group %q", group)
		}
	}
}

func TestPomPropertiesTrimmed(t *testing.T) {
	pom, err := parsePOM([]byte(`<project>
  <properties>
    <a.version> 1.0 </a.version>
    <b.version>2.0</b.version>
  </properties>
</project>`))
	if err != nil {
		t.Fatalf("parsePOM failed: %v", err)
	}
	if pom.Properties["a.version"] != "1.0" {
		t.Errorf("a.version = %q, want trimmed 1.0", pom.Properties["a.version"])
	}
	if pom.Properties["b.version"] != "2.0" {
		t.Errorf("b.version = %q", pom.Properties["b.version"])
	}
}

func TestParsePOMNamespaced(t *testing.T) {
	deps := mustExtract(t, `<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <groupId>com.example</groupId>
  <artifactId>demo</artifactId>
  <version>1.0.0</version>
  <dependencies>
    <dependency>
      <groupId>org.slf4j</groupId>
      <artifactId>slf4j-api</artifactId>
      <version>2.0.13</version>
    </dependency>
  </dependencies>
</project>`)
	if len(deps) != 1 || deps[0].Version != "2.0.13" {
		t.Fatalf("namespaced POM parse = %v", deps)
	}
}

func TestExtractSkipsBlankCoordinates(t *testing.T) {
	deps := mustExtract(t, `<project>
  <dependencies>
    <dependency><groupId>  </groupId><artifactId>x</artifactId></dependency>
    <dependency><groupId>ok.group</groupId><artifactId>kept</artifactId><version>1</version></dependency>
  </dependencies>
</project>`)
	if len(deps) != 1 || deps[0].ArtifactID != "kept" {
		t.Fatalf("deps = %v", deps)
	}
}
