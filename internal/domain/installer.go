package domain

type Installer struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Tier       string  `json:"tier"`
	MatchScore float64 `json:"match_score"`
}
