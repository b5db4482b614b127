package server

// defaultAnalyzeBullets applies when max_bullets is omitted.
const defaultAnalyzeBullets = 3

// AnalyzeRequest carries page text the caller has already extracted. The text
// is never stored.
type AnalyzeRequest struct {
	Title      string `json:"title" binding:"required,min=3"`
	URL        string `json:"url" binding:"required,min=8"`
	Text       string `json:"text" binding:"required,min=50"`
	MaxBullets *int   `json:"max_bullets" binding:"omitempty,min=1,max=6"`
}

func (r AnalyzeRequest) bullets() int {
	if r.MaxBullets == nil {
		return defaultAnalyzeBullets
	}
	return *r.MaxBullets
}

type AnalyzeResponse struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	TLDR       []string `json:"tldr"`
	MeritScore int      `json:"merit_score"`
	Badge      string   `json:"badge"`
	Reasons    []string `json:"reasons"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}
