package validator

import (
	"bytes"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// NewSanthoshCompiler returns a Compiler backed by the
// santhosh-tekuri/jsonschema/v6 package.
func NewSanthoshCompiler() Compiler {
	return &santhoshCompiler{c: jsonschema.NewCompiler(), added: map[string]bool{}}
}

// ParseSchema decodes raw JSON schema bytes into a Document suitable for AddSchema.
func ParseSchema(data []byte) (Document, error) {
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

type santhoshValidator struct {
	v *jsonschema.Schema
}

func (sv *santhoshValidator) Validate(doc Document) error {
	return sv.v.Validate(doc)
}

type santhoshCompiler struct {
	mu    sync.Mutex
	c     *jsonschema.Compiler
	added map[string]bool
}

// AddSchema registers schema under id. Registering the same id again is a no-op,
// so a configuration can be reloaded with the same compiler.
func (s *santhoshCompiler) AddSchema(id string, schema Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.added[id] {
		return nil
	}
	if err := s.c.AddResource(id, schema); err != nil {
		return err
	}
	s.added[id] = true
	return nil
}

func (s *santhoshCompiler) Compile(id string) (Validator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.c.Compile(id)
	if err != nil {
		return nil, err
	}
	return &santhoshValidator{v: v}, nil
}

func (s *santhoshCompiler) SupportedSchemaVersions() []Draft {
	return []Draft{Draft7, Draft2020_12}
}
