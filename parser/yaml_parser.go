// Package parser provides functionality for parsing signature bundles.
package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pentasign/pentasign-sdk/signing/dto"
	"github.com/pentasign/pentasign-sdk/signing/entities"
)

// YamlBundleParser implements BundleParser for YAML.
type YamlBundleParser struct{}

// NewYamlBundleParser creates a new YamlBundleParser.
func NewYamlBundleParser() BundleParser {
	return &YamlBundleParser{}
}

// Parse unmarshals YAML bytes into a SignatureBundle.
func (p *YamlBundleParser) Parse(data []byte) (*entities.SignatureBundle, error) {
	var wire dto.BundleDTO
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidBundle, err)
	}
	return wire.ToEntity()
}
