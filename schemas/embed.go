// Package schemas holds the JSON Schemas describing the analyzer's outputs.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Report is the file name of the report schema within FS.
const Report = "report.schema.json"
