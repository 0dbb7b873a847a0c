package rag

// AskRequest represents a RAG query request.
type AskRequest struct {
	// Question is the user's question to answer.
	Question string
	// UserID scopes retrieval to the notes of one user.
	UserID int64
}

// AskResponse represents the response from a RAG query.
type AskResponse struct {
	// Question echoes the question that was asked.
	Question string `json:"question"`
	// Answer is the generated answer from the LLM, returned verbatim.
	Answer string `json:"answer"`
}
