package domain

import (
	"math"
	"sort"
	"time"
)

const (
	RoasterNotesAbsent  = 1
	RoasterNotesPresent = 2
)

type CoffeeInfo struct {
	CoffeeName    string `json:"coffee_name"`
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

// Merge overlays the non-empty fields of patch.
func (c CoffeeInfo) Merge(patch CoffeeInfo) CoffeeInfo {
	mergeString(&c.CoffeeName, patch.CoffeeName)
	mergeString(&c.CafeName, patch.CafeName)
	mergeString(&c.Roastery, patch.Roastery)
	mergeString(&c.Location, patch.Location)
	mergeString(&c.BrewingMethod, patch.BrewingMethod)
	mergeString(&c.Origin, patch.Origin)
	mergeString(&c.Variety, patch.Variety)
	mergeString(&c.Altitude, patch.Altitude)
	mergeString(&c.Process, patch.Process)
	mergeString(&c.RoastLevel, patch.RoastLevel)
	return c
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

// Merge overlays patch field by field. Lap times are replaced as a whole.
// When both masses are known and no ratio was given, the ratio is derived (water per gram, 1 decimal).
func (b BrewSettings) Merge(patch BrewSettings) BrewSettings {
	mergeString(&b.Dripper, patch.Dripper)
	mergeString(&b.QuickNotes, patch.QuickNotes)
	mergeFloat(&b.Recipe.CoffeeAmount, patch.Recipe.CoffeeAmount)
	mergeFloat(&b.Recipe.WaterAmount, patch.Recipe.WaterAmount)
	mergeFloat(&b.Recipe.Ratio, patch.Recipe.Ratio)
	mergeFloat(&b.Recipe.WaterTemp, patch.Recipe.WaterTemp)
	mergeInt(&b.Recipe.BrewTime, patch.Recipe.BrewTime)
	if patch.Recipe.LapTimes != nil {
		b.Recipe.LapTimes = append([]int(nil), patch.Recipe.LapTimes...)
	}
	if patch.Recipe.Ratio == nil && b.Recipe.CoffeeAmount != nil && b.Recipe.WaterAmount != nil && *b.Recipe.CoffeeAmount > 0 {
		ratio := math.Round(*b.Recipe.WaterAmount / *b.Recipe.CoffeeAmount * 10) / 10
		b.Recipe.Ratio = &ratio
	}
	return b
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

func (e ExperimentalData) Merge(patch ExperimentalData) ExperimentalData {
	mergeString(&e.ExtractionMethod, patch.ExtractionMethod)
	mergeString(&e.GrindSize, patch.GrindSize)
	mergeFloat(&e.TDS, patch.TDS)
	mergeFloat(&e.ExtractionYield, patch.ExtractionYield)
	mergeFloat(&e.WaterTDS, patch.WaterTDS)
	mergeFloat(&e.WaterPH, patch.WaterPH)
	mergeInt(&e.BloomTime, patch.BloomTime)
	mergeInt(&e.TotalTime, patch.TotalTime)
	mergeString(&e.Notes, patch.Notes)
	return e
}

// QCMeasurement is what the refractometer sub-step produces.
type QCMeasurement struct {
	TDS             *float64
	ExtractionYield *float64
	WaterTDS        *float64
	WaterPH         *float64
}

func (q QCMeasurement) AsExperimentalData() ExperimentalData {
	return ExperimentalData{TDS: q.TDS, ExtractionYield: q.ExtractionYield, WaterTDS: q.WaterTDS, WaterPH: q.WaterPH}
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

type SensorySliders struct {
	Ratings map[string]float64 `json:"ratings"`
	Overall float64            `json:"overall"`
	Notes   string             `json:"notes,omitempty"`
}

// NewSensorySliders copies ratings and derives the overall score as their mean (1 decimal).
func NewSensorySliders(ratings map[string]float64, notes string) SensorySliders {
	copied := make(map[string]float64, len(ratings))
	keys := make([]string, 0, len(ratings))
	for k, v := range ratings {
		copied[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)
	overall := 0.0
	if len(keys) > 0 {
		sum := 0.0
		for _, k := range keys {
			sum += copied[k]
		}
		overall = math.Round(sum/float64(len(keys))*10) / 10
	}
	return SensorySliders{Ratings: copied, Overall: overall, Notes: notes}
}

type MatchScore struct {
	FlavorMatch  int `json:"flavor_match"`
	SensoryMatch int `json:"sensory_match"`
	Total        int `json:"total"`
	RoasterBonus int `json:"roaster_bonus"`
}

// Session is the in-progress aggregate. Nil pointers and nil slices mean "not entered yet".
type Session struct {
	Mode               Mode                `json:"mode,omitempty"`
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
	MatchScore         *MatchScore         `json:"match_score,omitempty"`
}

// IsEmpty reports whether the session was never started or has been cleared.
func (s Session) IsEmpty() bool {
	return s.Mode == "" && s.StartedAt == nil && s.CoffeeInfo == nil && s.BrewSettings == nil &&
		s.ExperimentalData == nil && s.SelectedFlavors == nil && s.SensoryExpressions == nil &&
		s.SensorySliderData == nil && s.PersonalComment == nil && s.RoasterNotes == nil &&
		s.RoasterNotesLevel == 0 && s.MatchScore == nil
}

// Clone returns a deep copy so readers never alias the aggregate's state.
func (s Session) Clone() Session {
	out := s
	if s.StartedAt != nil {
		v := *s.StartedAt
		out.StartedAt = &v
	}
	if s.CoffeeInfo != nil {
		v := *s.CoffeeInfo
		out.CoffeeInfo = &v
	}
	if s.BrewSettings != nil {
		v := *s.BrewSettings
		v.Recipe.CoffeeAmount = cloneFloat(s.BrewSettings.Recipe.CoffeeAmount)
		v.Recipe.WaterAmount = cloneFloat(s.BrewSettings.Recipe.WaterAmount)
		v.Recipe.Ratio = cloneFloat(s.BrewSettings.Recipe.Ratio)
		v.Recipe.WaterTemp = cloneFloat(s.BrewSettings.Recipe.WaterTemp)
		v.Recipe.BrewTime = cloneInt(s.BrewSettings.Recipe.BrewTime)
		if s.BrewSettings.Recipe.LapTimes != nil {
			v.Recipe.LapTimes = append([]int(nil), s.BrewSettings.Recipe.LapTimes...)
		}
		out.BrewSettings = &v
	}
	if s.ExperimentalData != nil {
		v := *s.ExperimentalData
		v.TDS = cloneFloat(s.ExperimentalData.TDS)
		v.ExtractionYield = cloneFloat(s.ExperimentalData.ExtractionYield)
		v.WaterTDS = cloneFloat(s.ExperimentalData.WaterTDS)
		v.WaterPH = cloneFloat(s.ExperimentalData.WaterPH)
		v.BloomTime = cloneInt(s.ExperimentalData.BloomTime)
		v.TotalTime = cloneInt(s.ExperimentalData.TotalTime)
		out.ExperimentalData = &v
	}
	if s.SelectedFlavors != nil {
		out.SelectedFlavors = append([]Flavor{}, s.SelectedFlavors...)
	}
	if s.SensoryExpressions != nil {
		out.SensoryExpressions = append([]SensoryExpression{}, s.SensoryExpressions...)
	}
	if s.SensorySliderData != nil {
		v := NewSensorySliders(s.SensorySliderData.Ratings, s.SensorySliderData.Notes)
		v.Overall = s.SensorySliderData.Overall
		out.SensorySliderData = &v
	}
	if s.PersonalComment != nil {
		v := *s.PersonalComment
		out.PersonalComment = &v
	}
	if s.RoasterNotes != nil {
		v := *s.RoasterNotes
		out.RoasterNotes = &v
	}
	if s.MatchScore != nil {
		v := *s.MatchScore
		out.MatchScore = &v
	}
	return out
}

// UniqueFlavors keeps the first occurrence of each id, preserving order.
func UniqueFlavors(flavors []Flavor) []Flavor {
	out := make([]Flavor, 0, len(flavors))
	seen := map[string]struct{}{}
	for _, f := range flavors {
		if _, ok := seen[f.ID]; ok {
			continue
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	return out
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeFloat(dst **float64, v *float64) {
	if v != nil {
		*dst = cloneFloat(v)
	}
}

func mergeInt(dst **int, v *int) {
	if v != nil {
		*dst = cloneInt(v)
	}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
