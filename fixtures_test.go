package microscript

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

// fixtureCase is one entry of testdata/programs.yaml.
type fixtureCase struct {
	Name   string  `yaml:"name"`
	Source string  `yaml:"source"`
	Want   *int64  `yaml:"want"`
	Stdout *string `yaml:"stdout"`
	Error  string  `yaml:"error"`
}

func loadFixtures(t *testing.T) []fixtureCase {
	t.Helper()
	raw, err := os.ReadFile("testdata/programs.yaml")
	if err != nil {
		t.Fatal(err)
	}
	var cases []fixtureCase
	if err := yaml.Unmarshal(raw, &cases); err != nil {
		t.Fatalf("bad fixture file: %v", err)
	}
	return cases
}

func errorKindByName(t *testing.T, name string) ErrorKind {
	t.Helper()
	switch name {
	case "SyntaxError":
		return SyntaxError
	case "SemanticError":
		return SemanticError
	case "EvaluationError":
		return EvaluationError
	case "RuntimeError":
		return RuntimeError
	}
	t.Fatalf("unknown error kind %q in fixture", name)
	return 0
}

func TestProgramFixtures(t *testing.T) {
	for _, tc := range loadFixtures(t) {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			v, out, err := runSrc(tc.Source)

			if tc.Error != "" {
				kind := errorKindByName(t, tc.Error)
				if err == nil {
					t.Fatalf("want %s, program succeeded with %v", tc.Error, v)
				}
				e, ok := AsError(err)
				if !ok || e.Kind != kind {
					t.Fatalf("want %s, got %v", tc.Error, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("program failed: %v", WrapErrorWithSource(err, tc.Source))
			}
			if tc.Want != nil {
				wantInt(t, v, *tc.Want)
			}
			if tc.Stdout != nil && out != *tc.Stdout {
				t.Fatalf("stdout: want %q, got %q", *tc.Stdout, out)
			}
		})
	}
}
