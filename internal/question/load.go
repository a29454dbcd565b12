package question

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// bankFile is the on-disk layout of a question bank. A bare list of
// questions is also accepted.
type bankFile struct {
	Questions []Question `yaml:"questions"`
}

// LoadFile reads a YAML or JSON question bank and validates every question.
func LoadFile(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()

	qs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return qs, nil
}

// Decode parses a question bank from r, either a top-level list or a
// document with a questions key. JSON input is accepted as YAML.
func Decode(r io.Reader) ([]Question, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	var qs []Question
	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		if err := root.Decode(&qs); err != nil {
			return nil, fmt.Errorf("decode question list: %w", err)
		}
	} else {
		var bf bankFile
		if err := root.Decode(&bf); err != nil {
			return nil, fmt.Errorf("decode question bank: %w", err)
		}
		qs = bf.Questions
	}

	if len(qs) == 0 {
		return nil, fmt.Errorf("question bank has no questions")
	}
	if err := ValidateAll(qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// Encode writes qs as a YAML question bank.
func Encode(w io.Writer, qs []Question) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(bankFile{Questions: qs}); err != nil {
		return fmt.Errorf("encode question bank: %w", err)
	}
	return enc.Close()
}
