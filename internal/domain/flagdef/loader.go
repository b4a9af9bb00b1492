package flagdef

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// fileSchema mirrors the YAML registry file layout:
//
//	flags:
//	  - name: devoted
//	    valence: positive
//	    conflicts_with: [withdrawn]
//	    effects:
//	      competition: {obedience: 3}
//	      stress_modifier: -2
type fileSchema struct {
	Flags []Definition `koanf:"flags"`
}

// LoadFile reads flag definitions from a YAML file and builds a registry.
func LoadFile(path string) (*Registry, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDefinitions, err)
	}

	var schema fileSchema
	if err := k.UnmarshalWithConf("", &schema, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDefinitions, err)
	}
	if len(schema.Flags) == 0 {
		return nil, fmt.Errorf("%w: no flags in %s", ErrLoadDefinitions, path)
	}

	return NewRegistry(schema.Flags)
}
