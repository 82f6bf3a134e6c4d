package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
// Templates are rendered with text/template against the fields listed.
const (
	// PromptSummarise is the system prompt for judging a news item.
	// Fields: Topic, Sentinel, Gatekept, HasAbstract.
	PromptSummarise = "summarise"

	// PromptSummarisePaper is the system prompt for judging a paper.
	// Fields: Topic, Sentinel, Gatekept, HasAbstract.
	PromptSummarisePaper = "summarise_paper"

	// PromptDigest is the system prompt for the daily digest.
	// Fields: Date, MaxChars, Topic.
	PromptDigest = "digest"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses built-in default prompts.
	SetPromptStore(store PromptStore)
}
