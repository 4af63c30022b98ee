package dto

type ReplaceAttributesRequest struct {
	Role          string  `json:"role"`
	SubjectIDs    []int64 `json:"subject_ids"`
	LessonTypeIDs []int64 `json:"lesson_type_ids"`
	RegionIDs     []int64 `json:"region_ids"`
}

type SavePriceRangeRequest struct {
	Role     string `json:"role"`
	PriceMin *int64 `json:"price_min"`
	PriceMax *int64 `json:"price_max"`
}

type ProfileResponse struct {
	UserID              int64   `json:"user_id"`
	Role                string  `json:"role"`
	SignupStatus        string  `json:"signup_status"`
	PriceMin            *int64  `json:"price_min"`
	PriceMax            *int64  `json:"price_max"`
	RatingAvg           float64 `json:"rating_avg,omitempty"`
	ExperienceYears     int     `json:"experience_years,omitempty"`
	AcceptedAnswerCount int     `json:"accepted_answer_count,omitempty"`
	SubjectIDs          []int64 `json:"subject_ids"`
	LessonTypeIDs       []int64 `json:"lesson_type_ids"`
	RegionIDs           []int64 `json:"region_ids"`
}
