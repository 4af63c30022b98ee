package dto

type MatchComponentsResponse struct {
	Subject    int `json:"subject"`
	Region     int `json:"region"`
	Price      int `json:"price"`
	LessonType int `json:"lesson_type"`
}

type MatchCandidateResponse struct {
	UserID          int64                   `json:"user_id"`
	Score           int                     `json:"score"`
	Components      MatchComponentsResponse `json:"components"`
	SharedRegion    bool                    `json:"shared_region"`
	DistanceKM      *float64                `json:"distance_km"`
	RatingAvg       float64                 `json:"rating_avg"`
	ExperienceYears int                     `json:"experience_years"`
}

type MatchCandidatesResponse struct {
	Items  []MatchCandidateResponse `json:"items"`
	Total  int                      `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

type MatchLimitStatusResponse struct {
	Allowed       bool  `json:"allowed"`
	RetryAfterSec int64 `json:"retry_after_sec"`
}
