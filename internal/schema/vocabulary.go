package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// EnvVocabularyFile names an environment variable pointing at a JSON array
// of field type identifiers. When set, it replaces the built-in vocabulary
// so deployments with custom field types can validate against them.
const EnvVocabularyFile = "STENCIL_FIELD_TYPES_FILE"

// Vocabulary is the set of valid field type identifiers, in display order.
type Vocabulary []string

// Contains reports whether the given type identifier is in the vocabulary.
func (v Vocabulary) Contains(fieldType string) bool {
	for _, t := range v {
		if t == fieldType {
			return true
		}
	}
	return false
}

// builtinVocabulary is the field type set shipped with stencil.
var builtinVocabulary = Vocabulary{
	TypeSingleLine,
	TypeMultiLine,
	TypeRichText,
	TypeNumber,
	TypeBoolean,
	TypeSelect,
	TypeMultiSelect,
	TypeImage,
	TypeLink,
	TypeColor,
	TypeDate,
	TypeRepeater,
}

var (
	vocabOnce sync.Once
	vocab     Vocabulary
	vocabErr  error
)

// FetchVocabulary returns the process-wide field type vocabulary. The
// vocabulary is resolved once and reused for every validation in the run;
// a resolution failure is returned to every caller.
func FetchVocabulary() (Vocabulary, error) {
	vocabOnce.Do(func() {
		vocab, vocabErr = loadVocabulary()
	})
	return vocab, vocabErr
}

// loadVocabulary reads the vocabulary override file if configured,
// falling back to the built-in set.
func loadVocabulary() (Vocabulary, error) {
	path := os.Getenv(EnvVocabularyFile)
	if path == "" {
		return builtinVocabulary, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field type vocabulary from %s: %w", path, err)
	}

	var types []string
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("failed to parse field type vocabulary %s: %w", path, err)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("field type vocabulary %s is empty", path)
	}

	return Vocabulary(types), nil
}

// IsValidFieldType reports whether fieldType is a member of the vocabulary.
func IsValidFieldType(fieldType string, v Vocabulary) bool {
	return v.Contains(fieldType)
}
