package interview

// Artifact is a generated sketch attached to a turn reply. Data is the
// base64-encoded image as produced by the generator.
type Artifact struct {
	Category Category `json:"category"`
	MIME     string   `json:"mime"`
	Data     string   `json:"data"`
}
