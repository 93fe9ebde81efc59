package parser

import (
	"bytes"

	"github.com/pentasign/pentasign-sdk/signing/entities"
)

// BundleParser parses raw bundle bytes into a SignatureBundle.
type BundleParser interface {
	// Parse unmarshals and validates bundle bytes.
	Parse(data []byte) (*entities.SignatureBundle, error)
}

// ForData picks a parser from the content: JSON when the first non-space
// byte opens an object, YAML otherwise.
func ForData(data []byte) BundleParser {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return NewJSONBundleParser()
	}
	return NewYamlBundleParser()
}
