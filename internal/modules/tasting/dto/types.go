package dto

import "time"

type StartInput struct {
	Mode string `json:"mode"`
}

type CoffeeInfo struct {
	CoffeeName    string `json:"coffee_name,omitempty"`
	CafeName      string `json:"cafe_name,omitempty"`
	Roastery      string `json:"roastery,omitempty"`
	Location      string `json:"location,omitempty"`
	BrewingMethod string `json:"brewing_method,omitempty"`
	Origin        string `json:"origin,omitempty"`
	Variety       string `json:"variety,omitempty"`
	Altitude      string `json:"altitude,omitempty"`
	Process       string `json:"process,omitempty"`
	RoastLevel    string `json:"roast_level,omitempty"`
}

type Recipe struct {
	CoffeeAmount *float64 `json:"coffee_amount,omitempty"`
	WaterAmount  *float64 `json:"water_amount,omitempty"`
	Ratio        *float64 `json:"ratio,omitempty"`
	WaterTemp    *float64 `json:"water_temp,omitempty"`
	BrewTime     *int     `json:"brew_time,omitempty"`
	LapTimes     []int    `json:"lap_times,omitempty"`
}

type BrewSettings struct {
	Dripper    string `json:"dripper,omitempty"`
	Recipe     Recipe `json:"recipe"`
	QuickNotes string `json:"quick_notes,omitempty"`
}

type ExperimentalData struct {
	ExtractionMethod string   `json:"extraction_method,omitempty"`
	GrindSize        string   `json:"grind_size,omitempty"`
	TDS              *float64 `json:"tds,omitempty"`
	ExtractionYield  *float64 `json:"extraction_yield,omitempty"`
	WaterTDS         *float64 `json:"water_tds,omitempty"`
	WaterPH          *float64 `json:"water_ph,omitempty"`
	BloomTime        *int     `json:"bloom_time,omitempty"`
	TotalTime        *int     `json:"total_time,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

type QCMeasurement struct {
	TDS             *float64 `json:"tds,omitempty"`
	ExtractionYield *float64 `json:"extraction_yield,omitempty"`
	WaterTDS        *float64 `json:"water_tds,omitempty"`
	WaterPH         *float64 `json:"water_ph,omitempty"`
}

type Flavor struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type SensoryExpression struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Text     string `json:"text"`
}

// SlidersInput carries raw ratings; the overall score is derived.
type SlidersInput struct {
	Ratings map[string]float64 `json:"ratings"`
	Notes   string             `json:"notes,omitempty"`
}

type SensorySliders struct {
	Ratings map[string]float64 `json:"ratings"`
	Overall float64            `json:"overall"`
	Notes   string             `json:"notes,omitempty"`
}

type CommentInput struct {
	Comment string `json:"comment"`
}

// RoasterNotesInput takes either inline text or a file to extract from. Level defaults to the
// text's presence when zero.
type RoasterNotesInput struct {
	Text     string `json:"text,omitempty"`
	Level    int    `json:"level,omitempty"`
	FromFile string `json:"from_file,omitempty"`
}

type MatchScore struct {
	FlavorMatch  int `json:"flavor_match"`
	SensoryMatch int `json:"sensory_match"`
	Total        int `json:"total"`
	RoasterBonus int `json:"roaster_bonus"`
}

type SessionOutput struct {
	Mode               string              `json:"mode"`
	StartedAt          *time.Time          `json:"started_at,omitempty"`
	CoffeeInfo         *CoffeeInfo         `json:"coffee_info,omitempty"`
	BrewSettings       *BrewSettings       `json:"brew_settings,omitempty"`
	ExperimentalData   *ExperimentalData   `json:"experimental_data,omitempty"`
	SelectedFlavors    []Flavor            `json:"selected_flavors,omitempty"`
	SensoryExpressions []SensoryExpression `json:"sensory_expressions,omitempty"`
	SensorySliderData  *SensorySliders     `json:"sensory_slider_data,omitempty"`
	PersonalComment    *string             `json:"personal_comment,omitempty"`
	RoasterNotes       *string             `json:"roaster_notes,omitempty"`
	RoasterNotesLevel  int                 `json:"roaster_notes_level,omitempty"`
	Path               []string            `json:"path"`
}

type NavigateInput struct {
	From     string   `json:"from"`
	Required []string `json:"required,omitempty"`
}

type NavigateOutput struct {
	Step string `json:"step"`
	Kind string `json:"kind"`
}

type SaveInput struct {
	UserID string `json:"user_id"`
}

type RecordOutput struct {
	ID                 string              `json:"id"`
	UserID             string              `json:"user_id"`
	Mode               string              `json:"mode"`
	CoffeeInfo         CoffeeInfo          `json:"coffee_info"`
	BrewSettings       *BrewSettings       `json:"brew_settings"`
	ExperimentalData   *ExperimentalData   `json:"experimental_data"`
	SelectedFlavors    []Flavor            `json:"selected_flavors"`
	SensoryExpressions []SensoryExpression `json:"sensory_expressions"`
	SensorySliderData  *SensorySliders     `json:"sensory_slider_data"`
	PersonalComment    *string             `json:"personal_comment"`
	RoasterNotes       *string             `json:"roaster_notes"`
	RoasterNotesLevel  int                 `json:"roaster_notes_level"`
	MatchScore         MatchScore          `json:"match_score"`
	SensorySkipped     bool                `json:"sensory_skipped"`
	Duration           *int64              `json:"duration"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type SaveOutput struct {
	Record      RecordOutput `json:"record"`
	JournalPath string       `json:"journal_path,omitempty"`
}

type StatisticsOutput struct {
	CoffeeName   string `json:"coffee_name"`
	TotalRecords int    `json:"total_records"`
	AverageScore int    `json:"average_score"`
	BestScore    int    `json:"best_score"`
	LatestScore  int    `json:"latest_score"`
}

type FlavorCountOutput struct {
	FlavorID string `json:"flavor_id"`
	Text     string `json:"text"`
	Count    int    `json:"count"`
}

type ReindexOutput struct {
	Records int `json:"records"`
}
