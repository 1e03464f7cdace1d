package model

// GenerateRequest represents a one-shot password generation request.
// Pointer bools allow distinguishing between missing (nil -> default) and explicit false.
type GenerateRequest struct {
	Length         int   `json:"length"`
	Count          int   `json:"count"`
	Uppercase      *bool `json:"uppercase"`
	Lowercase      *bool `json:"lowercase"`
	Numbers        *bool `json:"numbers"`
	Symbols        *bool `json:"symbols"`
	ExcludeSimilar *bool `json:"exclude_similar"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Passwords   []string `json:"passwords"`
	Length      int      `json:"length"`
	Count       int      `json:"count"`
	CharsetSize int      `json:"charset_size"`
}
