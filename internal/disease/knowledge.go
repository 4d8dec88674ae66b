package disease

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//go:embed data/disease_info.json
var defaultKnowledge []byte

// ErrIncompleteKnowledge is returned when the knowledge file and the disease
// set do not match exactly.
var ErrIncompleteKnowledge = errors.New("knowledge base does not match disease set")

// Record is the reference information shown for one disease.
type Record struct {
	Disease     Disease
	Detail      string
	Precautions string
	Treatment   string
}

// Name returns the display name of the record's disease.
func (r Record) Name() string {
	return r.Disease.String()
}

// KnowledgeBase holds one Record per Disease. It is immutable after loading
// and safe for concurrent use.
type KnowledgeBase struct {
	records [Count]Record
}

type recordJSON struct {
	Detail      string `json:"detail"`
	Precautions string `json:"precautions"`
	Treatment   string `json:"treatment"`
}

// Load parses a knowledge file of the form {"<name>": {detail, precautions,
// treatment}}. Every disease must be present with non-empty fields and no
// other keys are allowed.
func Load(r io.Reader) (*KnowledgeBase, error) {
	var raw map[string]recordJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode knowledge base: %w", err)
	}

	kb := &KnowledgeBase{}
	var missing, empty []string
	for _, d := range All() {
		entry, ok := raw[d.String()]
		if !ok {
			missing = append(missing, d.String())
			continue
		}
		if strings.TrimSpace(entry.Detail) == "" || strings.TrimSpace(entry.Precautions) == "" || strings.TrimSpace(entry.Treatment) == "" {
			empty = append(empty, d.String())
		}
		kb.records[d] = Record{
			Disease:     d,
			Detail:      entry.Detail,
			Precautions: entry.Precautions,
			Treatment:   entry.Treatment,
		}
		delete(raw, d.String())
	}

	var unknown []string
	for name := range raw {
		unknown = append(unknown, name)
	}
	sort.Strings(unknown)

	if len(missing) > 0 || len(empty) > 0 || len(unknown) > 0 {
		return nil, fmt.Errorf("%w: missing=%v empty=%v unknown=%v", ErrIncompleteKnowledge, missing, empty, unknown)
	}
	return kb, nil
}

// LoadFile loads the knowledge base from path.
func LoadFile(path string) (*KnowledgeBase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default loads the knowledge base shipped with the binary.
func Default() (*KnowledgeBase, error) {
	return Load(bytes.NewReader(defaultKnowledge))
}

// Lookup returns the record for d.
func (kb *KnowledgeBase) Lookup(d Disease) (Record, error) {
	if !d.Valid() {
		return Record{}, fmt.Errorf("%w: %d", ErrUnknownLabel, int(d))
	}
	return kb.records[d], nil
}
