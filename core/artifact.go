package core

// ArtifactKind classifies binary side-channel payloads produced by tools.
type ArtifactKind string

const (
	// ArtifactImage is a base64 encoded image (conventionally PNG).
	ArtifactImage ArtifactKind = "image"
	// ArtifactAudio is a base64 encoded audio clip (conventionally MP3).
	ArtifactAudio ArtifactKind = "audio"
)

// Artifact is a typed binary payload extracted from a tool result, carried
// alongside the textual outcome rather than inside it.
type Artifact struct {
	Kind    ArtifactKind
	B64     string
	Caption string
}

// TaskResult is the typed envelope a dispatcher execution resolves to. Raw is
// the untruncated handler output (or textual error); Preview and ModelText
// are the consumer-facing and model-facing truncations of Raw, applied
// independently.
type TaskResult struct {
	Raw       string
	Preview   string
	ModelText string
	Truncated bool // ModelText was cut to the model-facing cap
	IsError   bool // Raw encodes a lookup miss, timeout or handler failure
	Artifacts []Artifact
}
