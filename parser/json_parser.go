package parser

import (
	"encoding/json"
	"fmt"

	"github.com/pentasign/pentasign-sdk/signing/dto"
	"github.com/pentasign/pentasign-sdk/signing/entities"
)

// JSONBundleParser implements BundleParser for JSON.
type JSONBundleParser struct{}

// NewJSONBundleParser creates a new JSONBundleParser.
func NewJSONBundleParser() BundleParser {
	return &JSONBundleParser{}
}

// Parse unmarshals JSON bytes into a SignatureBundle.
func (p *JSONBundleParser) Parse(data []byte) (*entities.SignatureBundle, error) {
	var wire dto.BundleDTO
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidBundle, err)
	}
	return wire.ToEntity()
}
