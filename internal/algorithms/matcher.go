package algorithms

import (
	"math"
	"sort"
	"strings"
	"time"

	"swipetonpro_backend/internal/models"
)

// Веса критериев. Максимум суммы - maxRawScore, итог нормализуется к 0-100.
const (
	weightProfession = 35.0
	weightCity       = 20.0
	weightDistance   = 20.0
	weightBudget     = 10.0
	weightBoost      = 15.0
	weightFeatured   = 5.0
	weightAvailable  = 5.0

	maxRawScore = weightProfession + weightCity + weightDistance + weightBudget +
		weightBoost + weightFeatured + weightAvailable
)

// Location - точка поиска: город и, если известны, координаты
type Location struct {
	City      string
	Latitude  *float64
	Longitude *float64
}

type ScoreResult struct {
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// CandidateScorer ранжирует кандидатов в ленте свайпов
type CandidateScorer struct {
	Now func() time.Time
}

func NewCandidateScorer() *CandidateScorer {
	return &CandidateScorer{Now: time.Now}
}

// ScoreArtisan - насколько артизан подходит под проект (или просто под
// локацию, если project == nil)
func (s *CandidateScorer) ScoreArtisan(artisan *models.ArtisanProfile, featured bool, project *models.Project, loc Location) ScoreResult {
	score := 0.0
	reasons := []string{}

	if project != nil {
		overlap := ProfessionOverlap(project.Professions, artisan.Professions)
		if len(project.Professions) > 0 && len(overlap) > 0 {
			score += weightProfession * float64(len(overlap)) / float64(len(project.Professions))
			reasons = append(reasons, "Métier correspondant: "+strings.Join(overlap, ", "))
		}

		if project.BudgetMax != nil && artisan.HourlyRate != nil {
			if *artisan.HourlyRate <= *project.BudgetMax {
				score += weightBudget
				reasons = append(reasons, "Tarif compatible avec le budget")
			}
		} else {
			score += weightBudget / 2
		}

		if project.City != "" {
			loc.City = project.City
		}
		if project.Latitude != nil && project.Longitude != nil {
			loc.Latitude, loc.Longitude = project.Latitude, project.Longitude
		}
	}

	if loc.City != "" && strings.EqualFold(loc.City, artisan.City) {
		score += weightCity
		reasons = append(reasons, "Même ville")
	}

	if d, ok := distanceKm(artisan.Latitude, artisan.Longitude, loc.Latitude, loc.Longitude); ok {
		if artisan.RadiusKm > 0 && d <= float64(artisan.RadiusKm) {
			score += weightDistance
			reasons = append(reasons, "Dans la zone d'intervention")
		}
	}

	if artisan.Available {
		score += weightAvailable
	}
	if artisan.IsBoosted(s.Now()) {
		score += weightBoost
		reasons = append(reasons, "Profil boosté")
	}
	if featured {
		score += weightFeatured
		reasons = append(reasons, "Profil mis en avant")
	}

	return ScoreResult{Score: normalize(score), Reasons: reasons}
}

// BestProjectScore берет лучший результат по всем проектам
func (s *CandidateScorer) BestProjectScore(artisan *models.ArtisanProfile, featured bool, projects []models.Project, loc Location) (ScoreResult, *models.Project) {
	if len(projects) == 0 {
		return s.ScoreArtisan(artisan, featured, nil, loc), nil
	}

	var best ScoreResult
	var bestProject *models.Project
	for i := range projects {
		r := s.ScoreArtisan(artisan, featured, &projects[i], loc)
		if bestProject == nil || r.Score > best.Score {
			best, bestProject = r, &projects[i]
		}
	}
	return best, bestProject
}

// ProfessionOverlap - пересечение множеств профессий без учета регистра,
// в порядке первого списка
func ProfessionOverlap(required, offered []string) []string {
	set := make(map[string]struct{}, len(offered))
	for _, o := range offered {
		set[strings.ToLower(o)] = struct{}{}
	}

	overlap := []string{}
	seen := map[string]struct{}{}
	for _, r := range required {
		key := strings.ToLower(r)
		if _, ok := set[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		overlap = append(overlap, r)
	}
	return overlap
}

// Ranked - кандидат с оценкой; SortByScore сортирует по убыванию
type Ranked[T any] struct {
	Item  T
	Score ScoreResult
}

func SortByScore[T any](items []Ranked[T]) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score.Score > items[j].Score.Score
	})
}

func normalize(raw float64) float64 {
	n := raw / maxRawScore * 100.0
	if n > 100 {
		n = 100
	}
	return math.Round(n*10) / 10
}

// distanceKm - haversine, ok=false если координаты неизвестны
func distanceKm(lat1, lng1, lat2, lng2 *float64) (float64, bool) {
	if lat1 == nil || lng1 == nil || lat2 == nil || lng2 == nil {
		return 0, false
	}
	const earthRadiusKm = 6371.0
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(*lat2 - *lat1)
	dLng := toRad(*lng2 - *lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(*lat1))*math.Cos(toRad(*lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a)), true
}
