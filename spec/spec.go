// Package spec embeds the OpenAPI document for the Tripcraft API. The server
// serves it at /openapi.yaml.
package spec

import _ "embed"

// OpenAPI holds the raw bytes of openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte
