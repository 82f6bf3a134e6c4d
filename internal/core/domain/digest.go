package domain

// Digest is the narrative produced once per run.
// Each digest replaces the previous one.
type Digest struct {
	// Date is the run date in DateLayout, taken from the local clock.
	Date string

	// Content is the narrative text.
	Content string
}
