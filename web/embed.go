package web

import "embed"

// OpenAPI embeds the API description served at /api/docs.
//
//go:embed openapi.yaml
var OpenAPI embed.FS
