// Package core defines the shared data model of agentloop: role-based
// messages composed of tagged content blocks, the outward stream event
// variants consumed by transports, typed tool artifacts, and the per
// conversation Session that owns the message history.
package core
