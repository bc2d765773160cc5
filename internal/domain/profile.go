package domain

import "strings"

// ProfileDocument is the JSON document the directory is loaded from.
type ProfileDocument struct {
	Profiles []Profile `json:"profiles"`
}

// Profile represents a single organization entry. Name is not guaranteed unique.
type Profile struct {
	Name    string   `json:"name"`
	Answers []QAPair `json:"answers"`
}

// QAPair represents one question/answer unit. Both fields are optional in the source.
type QAPair struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// Haystack joins the name and every question and answer into the text a query is matched against.
func (p Profile) Haystack() string {
	parts := make([]string, 0, 1+2*len(p.Answers))
	parts = append(parts, p.Name)
	for _, qa := range p.Answers {
		parts = append(parts, qa.Question, qa.Answer)
	}
	return strings.Join(parts, " \n ")
}
