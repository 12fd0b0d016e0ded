package store

// Passage is a retrieved chunk of knowledge together with its provenance
// metadata. It is the unit the retriever hands to the prompt builder.
type Passage struct {
	Content  string
	Metadata map[string]interface{}
}
