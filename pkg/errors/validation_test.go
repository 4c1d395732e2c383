package errors

import (
	"strings"
	"testing"
)

func TestValidateCoordinatePart(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid group", "com.google.guava", false},
		{"valid artifact", "commons-lang3", false},
		{"valid with underscore", "scala_2.13", false},
		{"valid version", "3.14.0", false},
		{"valid snapshot version", "2.0.0-SNAPSHOT", false},
		{"max length", strings.Repeat("a", MaxCoordinatePartLen), false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", MaxCoordinatePartLen+1), true},
		{"path traversal", "foo/../bar", true},
		{"double dot", "foo..bar", true},
		{"forward slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinatePart("group_id", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinatePart(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidCoordinate) {
				t.Errorf("ValidateCoordinatePart(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidCoordinate)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "guava", false},
		{"valid with spaces", "apache commons lang", false},
		{"max length", strings.Repeat("q", MaxQueryLen), false},

		{"empty", "", true},
		{"whitespace only", "  \t ", true},
		{"too long", strings.Repeat("q", MaxQueryLen+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuery(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
