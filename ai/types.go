package ai

// Paper carries the text of a single publication into summarization
// prompts. Only the title and abstract participate; URLs and other
// metadata stay in the domain layer.
type Paper struct {
	Title    string
	Abstract string
}
