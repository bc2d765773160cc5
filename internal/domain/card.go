package domain

// CardLine is one rendered Q&A line of a card.
type CardLine struct {
	Question  string `json:"question,omitempty"`
	Answer    string `json:"answer"`
	Truncated bool   `json:"truncated,omitempty"`
}

// Label returns the bold question label ("{question}:"), or "" when there is no question.
func (l CardLine) Label() string {
	if l.Question == "" {
		return ""
	}
	return l.Question + ":"
}

// Text returns the plain text of the line as displayed.
func (l CardLine) Text() string {
	if l.Question == "" {
		return l.Answer
	}
	return l.Label() + " " + l.Answer
}

// RenderedCard is the display-ready description of one profile.
type RenderedCard struct {
	Name       string     `json:"name"`
	Lines      []CardLine `json:"lines"`
	WasTrimmed bool       `json:"was_trimmed"`
	TrimNotice string     `json:"trim_notice,omitempty"`
}

// DirectoryView is everything the presentation layer needs for one render pass.
type DirectoryView struct {
	Query      string         `json:"query"`
	Count      int            `json:"count"`
	CountLabel string         `json:"count_label"`
	Cards      []RenderedCard `json:"cards"`
	Error      *ErrorCard     `json:"error,omitempty"`
}

// ErrorCard replaces all cards when the profile document could not be loaded.
type ErrorCard struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}
