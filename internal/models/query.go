package models

// QueryRequest is the body of POST /api/v1/query.
type QueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse is the body returned by POST /api/v1/query.
type QueryResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// TitleRequest is the body of POST /api/v1/title. Messages are the most
// recent user messages of the conversation, oldest first.
type TitleRequest struct {
	Messages []string `json:"messages"`
}

// TitleResponse is the body returned by POST /api/v1/title.
type TitleResponse struct {
	Title string `json:"title"`
}

// TestCase is one entry of the evaluation data set.
type TestCase struct {
	Question         string        `json:"question"`
	RelevantContexts []TestContext `json:"relevant_contexts"`
	ExpectedAnswer   string        `json:"expected_answer"`
}

// TestContext is a ground-truth context attached to a test case.
type TestContext struct {
	Content string `json:"content"`
}
