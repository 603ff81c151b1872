package server

import "encoding/json"

// Tool schemas are written by hand to pass strict client validation.

var listEndpointsInputSchema = json.RawMessage(`{
	"type": "object",
	"properties": {},
	"additionalProperties": false
}`)

var listEndpointsOutputSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"endpoints": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"description": {"type": "string"},
					"scope": {"type": "string", "enum": ["user", "project"]},
					"root": {"type": "string", "description": "Dotted path of the server section; empty for the whole file"},
					"path": {"type": "string"},
					"exists": {"type": "boolean"},
					"error": {"type": "string", "description": "Why the path could not be resolved"}
				},
				"required": ["name", "scope", "exists"]
			}
		}
	},
	"required": ["endpoints"],
	"additionalProperties": false
}`)

// endpointPairProperties is shared by the plan and migrate inputs.
const endpointPairProperties = `
		"source_endpoint": {
			"type": "string",
			"description": "Endpoint to copy server entries from, e.g. cursor"
		},
		"destination_endpoint": {
			"type": "string",
			"description": "Endpoint to copy server entries into, e.g. claude-desktop"
		},
		"root": {
			"type": "string",
			"description": "Compare this dotted section on both sides instead of each endpoint's server section; empty string compares whole files"
		},
		"resolutions": {
			"type": "object",
			"description": "Resolution for each conflicting key",
			"additionalProperties": {"type": "string", "enum": ["overwrite", "keep", "skip"]}
		}`

var planMigrationInputSchema = json.RawMessage(`{
	"type": "object",
	"properties": {` + endpointPairProperties + `
	},
	"required": ["source_endpoint", "destination_endpoint"],
	"additionalProperties": false
}`)

const sideSchema = `{
	"type": "object",
	"properties": {
		"endpoint": {"type": "string"},
		"path": {"type": "string"},
		"root": {"type": "string"},
		"exists": {"type": "boolean"}
	},
	"required": ["endpoint", "path", "exists"]
}`

const conflictsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"key": {"type": "string"},
			"source_value": {},
			"destination_value": {},
			"resolution": {"type": "string", "enum": ["overwrite", "keep", "skip"]}
		},
		"required": ["key", "source_value", "destination_value"]
	}
}`

var planMigrationOutputSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"source": ` + sideSchema + `,
		"destination": ` + sideSchema + `,
		"additions": {"type": "array", "items": {"type": "string"}},
		"identical": {"type": "array", "items": {"type": "string"}},
		"conflicts": ` + conflictsSchema + `,
		"diff": {"type": "string", "description": "Unified diff of the destination file"}
	},
	"required": ["source", "destination", "additions", "identical", "conflicts"],
	"additionalProperties": false
}`)

var migrateConfigInputSchema = json.RawMessage(`{
	"type": "object",
	"properties": {` + endpointPairProperties + `,
		"create_backup": {
			"type": "boolean",
			"description": "Back up the destination before writing (default: true)"
		}
	},
	"required": ["source_endpoint", "destination_endpoint"],
	"additionalProperties": false
}`)

var migrateConfigOutputSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"status": {
			"type": "string",
			"enum": ["completed", "completed-with-skipped-conflicts", "aborted-pending-user-input", "failed"]
		},
		"conflicts": ` + conflictsSchema + `,
		"additions": {"type": "array", "items": {"type": "string"}},
		"backup_path": {"description": "Path of the backup written before the change; null when none was written"},
		"destination_path": {"type": "string"},
		"unchanged": {"type": "boolean", "description": "True when the destination already held the result and was not rewritten"}
	},
	"required": ["status", "conflicts", "destination_path"],
	"additionalProperties": false
}`)
