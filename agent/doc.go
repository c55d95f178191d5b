// Package agent implements the conversation orchestrator: a bounded round
// loop that alternates completion calls with tool executions, pairs every
// tool request with exactly one outcome before the next model call, and
// emits the ordered outward event stream terminated by exactly one End.
package agent
