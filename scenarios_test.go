package vespere

import (
	"os"
	"testing"

	"gopkg.in/yaml.v2"
	"gotest.tools/v3/assert"
)

type scenario struct {
	ID           string            `yaml:"id"`
	Pattern      string            `yaml:"pattern"`
	Flags        string            `yaml:"flags"`
	Input        string            `yaml:"input"`
	Matched      bool              `yaml:"matched"`
	Groups       []string          `yaml:"groups"`
	Named        map[string]string `yaml:"named"`
	CompileError string            `yaml:"compileError"`
}

var scenarioErrorKinds = map[string]ErrorKind{
	"InternalError":         InternalError,
	"InvalidCharClass":      InvalidCharClass,
	"InvalidEscape":         InvalidEscape,
	"InvalidNamedCapture":   InvalidNamedCapture,
	"InvalidRepeatOp":       InvalidRepeatOp,
	"InvalidRepeatSize":     InvalidRepeatSize,
	"MissingBracket":        MissingBracket,
	"MissingParenthesis":    MissingParenthesis,
	"MissingRepeatArgument": MissingRepeatArgument,
	"TrailingBackslash":     TrailingBackslash,
	"UnexpectedParenthesis": UnexpectedParenthesis,
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	data, err := os.ReadFile("testdata/scenarios.yaml")
	assert.NilError(t, err)
	var scenarios []scenario
	assert.NilError(t, yaml.Unmarshal(data, &scenarios))
	return scenarios
}

func TestScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		sc := sc
		t.Run(sc.ID, func(t *testing.T) {
			if sc.CompileError != "" {
				_, err := Compile(sc.Pattern, sc.Flags)
				cerr, ok := err.(*CompileError)
				assert.Assert(t, ok)
				wantKind, ok := scenarioErrorKinds[sc.CompileError]
				assert.Assert(t, ok)
				assert.Equal(t, cerr.Kind, wantKind)
				return
			}

			re, err := Compile(sc.Pattern, sc.Flags)
			assert.NilError(t, err)
			result := re.Execute(sc.Input)
			assert.Equal(t, result.Matched(), sc.Matched)
			if !sc.Matched {
				return
			}
			for i, want := range sc.Groups {
				got, ok := result.Group(i)
				assert.Assert(t, ok)
				assert.Equal(t, got, want)
			}
			for name, want := range sc.Named {
				got, ok := result.Groups()[name]
				assert.Assert(t, ok)
				assert.Equal(t, got, want)
			}
		})
	}
}
