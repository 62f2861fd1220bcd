package remote

// FileHit is one file match from the backend's own search. Ranking order is
// the backend's; the adapter never re-scores remote results locally.
type FileHit struct {
	Repository string `json:"repository"`
	Path       string `json:"path"`
}

// SymbolHit is one symbol match from the backend's own search.
type SymbolHit struct {
	Repository string `json:"repository"`
	Path       string `json:"path"`
	Name       string `json:"name"`
	Kind       string `json:"kind,omitempty"`
	StartLine  int    `json:"startLine"`
	EndLine    int    `json:"endLine"`
}

// searchFilesResponse is the /context/search/files payload.
type searchFilesResponse struct {
	Files     []FileHit `json:"files"`
	Truncated bool      `json:"truncated"`
}

// searchSymbolsResponse is the /context/search/symbols payload.
type searchSymbolsResponse struct {
	Symbols   []SymbolHit `json:"symbols"`
	Truncated bool        `json:"truncated"`
}

// fileContentResponse is the /context/repos/{repo}/content payload.
type fileContentResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// responseMeta carries pagination metadata.
type responseMeta struct {
	Cursor string `json:"cursor,omitempty"`
	Total  int    `json:"total,omitempty"`
}

// errorInfo is the backend's structured error payload.
type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
