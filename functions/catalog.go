package functions

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rulego/udaf/types"
)

// Catalog is a static MetadataService describing existing methods, loaded
// from YAML. It serves offline compilation and tests:
//
//	classes:
//	  - name: java.lang.Math
//	    methods:
//	      - name: abs
//	        overloads:
//	          - params: [int]
//	            returns: int
//	          - params: [double]
//	            returns: double
type Catalog struct {
	Classes []CatalogClass `yaml:"classes" json:"classes"`
}

// CatalogClass lists the methods of one fully qualified class.
type CatalogClass struct {
	Name    string          `yaml:"name" json:"name"`
	Methods []CatalogMethod `yaml:"methods" json:"methods"`
}

// CatalogMethod lists the overloads of one method in declaration order.
type CatalogMethod struct {
	Name      string            `yaml:"name" json:"name"`
	Overloads []CatalogOverload `yaml:"overloads" json:"overloads"`
}

// CatalogOverload is one parameter list and its return type.
type CatalogOverload struct {
	Params  []string `yaml:"params" json:"params"`
	Returns string   `yaml:"returns" json:"returns"`
}

// LoadCatalog decodes and validates a YAML catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		if err == io.EOF {
			return &c, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalogFile reads a catalog from path.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCatalog(f)
}

func (c *Catalog) validate() error {
	for _, class := range c.Classes {
		for _, m := range class.Methods {
			for i, o := range m.Overloads {
				if _, err := parseTypes(o.Params); err != nil {
					return fmt.Errorf("%s.%s overload %d: %w", class.Name, m.Name, i, err)
				}
				if _, err := types.ParseDataType(o.Returns); err != nil {
					return fmt.Errorf("%s.%s overload %d: %w", class.Name, m.Name, i, err)
				}
			}
		}
	}
	return nil
}

// MethodSignatures implements MetadataService.
func (c *Catalog) MethodSignatures(_ context.Context, class, method string) ([][]types.DataType, error) {
	m, err := c.method(class, method)
	if err != nil {
		return nil, err
	}
	out := make([][]types.DataType, len(m.Overloads))
	for i, o := range m.Overloads {
		out[i], _ = parseTypes(o.Params)
	}
	return out, nil
}

// MethodOutputType implements MetadataService. The first overload accepting
// args decides.
func (c *Catalog) MethodOutputType(ctx context.Context, class, method string, args []types.DataType) (types.DataType, error) {
	sigs, err := c.MethodSignatures(ctx, class, method)
	if err != nil {
		return "", err
	}
	m, _ := c.method(class, method)
	idx, ok := MatchSignature(sigs, args)
	if !ok {
		return "", fmt.Errorf("%s.%s has no overload for %v", class, method, args)
	}
	return types.ParseDataType(m.Overloads[idx].Returns)
}

func (c *Catalog) method(class, method string) (*CatalogMethod, error) {
	for i := range c.Classes {
		if c.Classes[i].Name != class {
			continue
		}
		for j := range c.Classes[i].Methods {
			if c.Classes[i].Methods[j].Name == method {
				return &c.Classes[i].Methods[j], nil
			}
		}
	}
	return nil, fmt.Errorf("unknown method %s.%s", class, method)
}

func parseTypes(names []string) ([]types.DataType, error) {
	out := make([]types.DataType, len(names))
	for i, n := range names {
		t, err := types.ParseDataType(n)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
