package seed

// File is the top-level structure of a seed YAML file.
//
//	links:
//	  - url: https://go.dev/doc
//	    title: Go documentation
//	    tags: [go, docs]
//	    clicks: 42
//	    history: [1, 0, 4, 9, 3, 2, 5]
type File struct {
	Links []Entry `yaml:"links"`
}

// Entry is one seeded link. Only URL is required.
type Entry struct {
	URL       string   `yaml:"url"`
	ShortCode string   `yaml:"shortCode,omitempty"`
	Title     string   `yaml:"title,omitempty"`
	Tags      []string `yaml:"tags,omitempty"`
	Summary   string   `yaml:"summary,omitempty"`

	// AgeDays sets createdAt that many days before the seed time.
	AgeDays int `yaml:"ageDays,omitempty"`

	Clicks int64 `yaml:"clicks,omitempty"`

	// History lists daily clicks, oldest first, with the last value for
	// today. Shorter lists are padded with zeros at the old end.
	History []int64 `yaml:"history,omitempty"`
}
