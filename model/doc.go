// Package model defines the provider-neutral completion gateway contract:
// normalized requests (history + system instructions + tool manifest),
// normalized responses (text and tool-request blocks plus a stop reason) and
// the gateway error taxonomy. Provider adapters live in the anthropic and
// openai subpackages; ScriptedGateway is the deterministic test double.
package model
