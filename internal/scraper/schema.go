package scraper

// Record is one quote extracted from a listing page.
type Record struct {
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}
