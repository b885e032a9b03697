// Package piecetreetest loads declarative insert/remove scenarios from YAML
// fixtures, in the spirit of config/file_test.go's fixture-driven rule-set
// tests, so end-to-end scenarios can be written as data instead of
// hand-built trees; fixture_test.go replays testdata/scenarios.yaml this way.
package piecetreetest

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/textbuf/piecetree"
)

// PieceFixture is the YAML shape of a Piece.
type PieceFixture struct {
	Kind   string `yaml:"kind"`
	Offset int    `yaml:"offset"`
	Length int    `yaml:"length"`
	Breaks []int  `yaml:"breaks"`
}

// ToPiece converts a fixture into a piecetree.Piece.
func (f PieceFixture) ToPiece() piecetree.Piece {
	kind := piecetree.Original
	if f.Kind == "added" {
		kind = piecetree.Added
	}
	return piecetree.Piece{
		Buffer:     kind,
		Offset:     f.Offset,
		Length:     f.Length,
		LineBreaks: append([]int(nil), f.Breaks...),
	}
}

// InsertStep inserts Piece at (Line, Column).
type InsertStep struct {
	Piece  PieceFixture `yaml:"piece"`
	Line   int          `yaml:"line"`
	Column int          `yaml:"column"`
}

// RemoveStep removes Length units starting at (Line, Column).
type RemoveStep struct {
	Line   int `yaml:"line"`
	Column int `yaml:"column"`
	Length int `yaml:"length"`
}

// Step is exactly one of Insert or Remove.
type Step struct {
	Insert *InsertStep `yaml:"insert,omitempty"`
	Remove *RemoveStep `yaml:"remove,omitempty"`
}

// ExpectedPiece is the YAML shape of an in-order result piece, trimmed down
// to just the fields a scenario cares about asserting.
type ExpectedPiece struct {
	Length int   `yaml:"length"`
	Breaks []int `yaml:"breaks"`
}

// Scenario is one named sequence of steps applied to a fresh Tree, along
// with its expected outcome.
type Scenario struct {
	Name        string          `yaml:"name"`
	Steps       []Step          `yaml:"steps"`
	Expected    []ExpectedPiece `yaml:"expected"`
	ExpectError bool            `yaml:"expectError"`
}

// LoadScenarios reads a YAML document containing a top-level list of
// scenarios from path.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenarios []Scenario
	if err := yaml.Unmarshal(data, &scenarios); err != nil {
		return nil, errors.Wrapf(err, "yaml.Unmarshal")
	}
	return scenarios, nil
}

// Build applies every step in the scenario to a fresh Tree, returning the
// tree and the error (if any) from the first step that failed. A step
// failure stops the scenario immediately, mirroring how the caller would
// treat a real editing session.
func (s Scenario) Build() (*piecetree.Tree, error) {
	t := piecetree.New()
	for _, step := range s.Steps {
		switch {
		case step.Insert != nil:
			if err := t.Insert(step.Insert.Piece.ToPiece(), step.Insert.Line, step.Insert.Column); err != nil {
				return t, err
			}
		case step.Remove != nil:
			if err := t.Remove(step.Remove.Line, step.Remove.Column, step.Remove.Length); err != nil {
				return t, err
			}
		default:
			return t, errors.New("scenario step has neither insert nor remove")
		}
	}
	return t, nil
}

// CollectPieces drains an Iterator into a slice, for comparing against
// Scenario.Expected.
func CollectPieces(it *piecetree.Iterator) []piecetree.Piece {
	var out []piecetree.Piece
	for {
		p, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, p)
	}
}
