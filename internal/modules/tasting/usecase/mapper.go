package usecase

import (
	"cuplog/internal/modules/tasting/domain"
	"cuplog/internal/modules/tasting/dto"
)

func toDomainCoffeeInfo(in dto.CoffeeInfo) domain.CoffeeInfo {
	return domain.CoffeeInfo{
		CoffeeName:    in.CoffeeName,
		CafeName:      in.CafeName,
		Roastery:      in.Roastery,
		Location:      in.Location,
		BrewingMethod: in.BrewingMethod,
		Origin:        in.Origin,
		Variety:       in.Variety,
		Altitude:      in.Altitude,
		Process:       in.Process,
		RoastLevel:    in.RoastLevel,
	}
}

func toDomainBrewSettings(in dto.BrewSettings) domain.BrewSettings {
	return domain.BrewSettings{
		Dripper:    in.Dripper,
		QuickNotes: in.QuickNotes,
		Recipe: domain.Recipe{
			CoffeeAmount: in.Recipe.CoffeeAmount,
			WaterAmount:  in.Recipe.WaterAmount,
			Ratio:        in.Recipe.Ratio,
			WaterTemp:    in.Recipe.WaterTemp,
			BrewTime:     in.Recipe.BrewTime,
			LapTimes:     in.Recipe.LapTimes,
		},
	}
}

func toDomainExperimental(in dto.ExperimentalData) domain.ExperimentalData {
	return domain.ExperimentalData{
		ExtractionMethod: in.ExtractionMethod,
		GrindSize:        in.GrindSize,
		TDS:              in.TDS,
		ExtractionYield:  in.ExtractionYield,
		WaterTDS:         in.WaterTDS,
		WaterPH:          in.WaterPH,
		BloomTime:        in.BloomTime,
		TotalTime:        in.TotalTime,
		Notes:            in.Notes,
	}
}

func toDomainFlavors(in []dto.Flavor) []domain.Flavor {
	out := make([]domain.Flavor, 0, len(in))
	for _, f := range in {
		out = append(out, domain.Flavor{ID: f.ID, Text: f.Text})
	}
	return out
}

func toDomainExpressions(in []dto.SensoryExpression) []domain.SensoryExpression {
	out := make([]domain.SensoryExpression, 0, len(in))
	for _, e := range in {
		out = append(out, domain.SensoryExpression{ID: e.ID, Category: e.Category, Text: e.Text})
	}
	return out
}

func mapSession(s domain.Session) dto.SessionOutput {
	out := dto.SessionOutput{
		Mode:               string(s.Mode),
		StartedAt:          s.StartedAt,
		BrewSettings:       mapBrewSettings(s.BrewSettings),
		ExperimentalData:   mapExperimental(s.ExperimentalData),
		SelectedFlavors:    mapFlavors(s.SelectedFlavors),
		SensoryExpressions: mapExpressions(s.SensoryExpressions),
		SensorySliderData:  mapSliders(s.SensorySliderData),
		PersonalComment:    s.PersonalComment,
		RoasterNotes:       s.RoasterNotes,
		RoasterNotesLevel:  s.RoasterNotesLevel,
		Path:               []string{},
	}
	if s.CoffeeInfo != nil {
		info := mapCoffeeInfo(*s.CoffeeInfo)
		out.CoffeeInfo = &info
	}
	for _, step := range domain.Path(s.Mode) {
		out.Path = append(out.Path, string(step))
	}
	return out
}

func mapRecord(r domain.Record) dto.RecordOutput {
	return dto.RecordOutput{
		ID:                 r.ID,
		UserID:             r.UserID,
		Mode:               string(r.Mode),
		CoffeeInfo:         mapCoffeeInfo(r.CoffeeInfo),
		BrewSettings:       mapBrewSettings(r.BrewSettings),
		ExperimentalData:   mapExperimental(r.ExperimentalData),
		SelectedFlavors:    mapFlavors(r.SelectedFlavors),
		SensoryExpressions: mapExpressions(r.SensoryExpressions),
		SensorySliderData:  mapSliders(r.SensorySliderData),
		PersonalComment:    r.PersonalComment,
		RoasterNotes:       r.RoasterNotes,
		RoasterNotesLevel:  r.RoasterNotesLevel,
		MatchScore: dto.MatchScore{
			FlavorMatch:  r.MatchScore.FlavorMatch,
			SensoryMatch: r.MatchScore.SensoryMatch,
			Total:        r.MatchScore.Total,
			RoasterBonus: r.MatchScore.RoasterBonus,
		},
		SensorySkipped: r.SensorySkipped,
		Duration:       r.Duration,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func mapTransition(t domain.Transition) dto.NavigateOutput {
	return dto.NavigateOutput{Step: string(t.Step), Kind: t.Kind.String()}
}

func mapCoffeeInfo(in domain.CoffeeInfo) dto.CoffeeInfo {
	return dto.CoffeeInfo{
		CoffeeName:    in.CoffeeName,
		CafeName:      in.CafeName,
		Roastery:      in.Roastery,
		Location:      in.Location,
		BrewingMethod: in.BrewingMethod,
		Origin:        in.Origin,
		Variety:       in.Variety,
		Altitude:      in.Altitude,
		Process:       in.Process,
		RoastLevel:    in.RoastLevel,
	}
}

func mapBrewSettings(in *domain.BrewSettings) *dto.BrewSettings {
	if in == nil {
		return nil
	}
	return &dto.BrewSettings{
		Dripper:    in.Dripper,
		QuickNotes: in.QuickNotes,
		Recipe: dto.Recipe{
			CoffeeAmount: in.Recipe.CoffeeAmount,
			WaterAmount:  in.Recipe.WaterAmount,
			Ratio:        in.Recipe.Ratio,
			WaterTemp:    in.Recipe.WaterTemp,
			BrewTime:     in.Recipe.BrewTime,
			LapTimes:     in.Recipe.LapTimes,
		},
	}
}

func mapExperimental(in *domain.ExperimentalData) *dto.ExperimentalData {
	if in == nil {
		return nil
	}
	return &dto.ExperimentalData{
		ExtractionMethod: in.ExtractionMethod,
		GrindSize:        in.GrindSize,
		TDS:              in.TDS,
		ExtractionYield:  in.ExtractionYield,
		WaterTDS:         in.WaterTDS,
		WaterPH:          in.WaterPH,
		BloomTime:        in.BloomTime,
		TotalTime:        in.TotalTime,
		Notes:            in.Notes,
	}
}

func mapFlavors(in []domain.Flavor) []dto.Flavor {
	if in == nil {
		return nil
	}
	out := make([]dto.Flavor, 0, len(in))
	for _, f := range in {
		out = append(out, dto.Flavor{ID: f.ID, Text: f.Text})
	}
	return out
}

func mapExpressions(in []domain.SensoryExpression) []dto.SensoryExpression {
	if in == nil {
		return nil
	}
	out := make([]dto.SensoryExpression, 0, len(in))
	for _, e := range in {
		out = append(out, dto.SensoryExpression{ID: e.ID, Category: e.Category, Text: e.Text})
	}
	return out
}

func mapSliders(in *domain.SensorySliders) *dto.SensorySliders {
	if in == nil {
		return nil
	}
	return &dto.SensorySliders{Ratings: in.Ratings, Overall: in.Overall, Notes: in.Notes}
}
