package model

// Go models that match profile.schema.json, the structured profile the
// backend extracts from an uploaded resume and the editor consumes.

type Meta struct {
	Name     string            `json:"name"`
	Headline string            `json:"headline,omitempty"`
	Contact  map[string]string `json:"contact,omitempty"`
}

type Experience struct {
	Company string   `json:"company"`
	Title   string   `json:"title"`
	Period  string   `json:"period,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

type Project struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Stack       string `json:"stack,omitempty"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Period string `json:"period,omitempty"`
}

type Profile struct {
	Meta       Meta         `json:"meta"`
	Summary    string       `json:"summary,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Projects   []Project    `json:"projects,omitempty"`
	Education  []Education  `json:"education,omitempty"`
	Links      []string     `json:"links,omitempty"`
}
