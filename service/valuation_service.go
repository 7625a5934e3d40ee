package service

import (
	"encoding/json"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"autoloan-agent/domain"
	"autoloan-agent/repository"
)

// ValuationOracle estimates a vehicle's value from a free-text descriptor.
// It returns nil when the descriptor cannot be valued.
type ValuationOracle interface {
	EstimateVehicleValue(descriptor string) *domain.VehicleEstimate
}

type vehiclePrice struct {
	make  string
	model string
	year  int
	value float64
	isNew bool
}

var vehiclePrices = []vehiclePrice{
	{"Toyota", "Camry", 2024, 28500, true},
	{"Toyota", "Camry", 2023, 26000, false},
	{"Toyota", "Camry", 2022, 24000, false},
	{"Toyota", "RAV4", 2024, 32500, true},
	{"Toyota", "RAV4", 2023, 30000, false},
	{"Toyota", "Corolla", 2024, 24500, true},
	{"Toyota", "Corolla", 2023, 22000, false},
	{"Toyota", "Highlander", 2024, 38000, true},
	{"Toyota", "Prius", 2024, 29000, true},
	{"Honda", "Civic", 2024, 25500, true},
	{"Honda", "Civic", 2023, 23500, false},
	{"Honda", "Accord", 2024, 30500, true},
	{"Honda", "Accord", 2023, 28000, false},
	{"Honda", "CR-V", 2024, 33000, true},
	{"Honda", "CR-V", 2023, 30500, false},
	{"Honda", "Pilot", 2024, 40000, true},
	{"Ford", "F-150", 2024, 38500, true},
	{"Ford", "F-150", 2023, 36000, false},
	{"Ford", "Escape", 2024, 28000, true},
	{"Ford", "Mustang", 2024, 35000, true},
	{"Ford", "Explorer", 2024, 37000, true},
	{"Chevrolet", "Equinox", 2024, 29500, true},
	{"Chevrolet", "Silverado", 2024, 40000, true},
	{"Chevrolet", "Malibu", 2024, 26000, true},
	{"Chevrolet", "Tahoe", 2024, 55000, true},
	{"Nissan", "Altima", 2024, 26500, true},
	{"Nissan", "Altima", 2023, 24000, false},
	{"Nissan", "Rogue", 2024, 30000, true},
	{"Nissan", "Sentra", 2024, 21500, true},
	{"Hyundai", "Elantra", 2024, 23500, true},
	{"Hyundai", "Tucson", 2024, 29000, true},
	{"Hyundai", "Santa Fe", 2024, 35000, true},
	{"Subaru", "Outback", 2024, 31500, true},
	{"Subaru", "Forester", 2024, 29500, true},
	{"BMW", "3 Series", 2024, 42000, true},
	{"BMW", "X3", 2024, 45000, true},
	{"Mercedes", "C-Class", 2024, 45000, true},
	{"Audi", "A4", 2024, 43000, true},
}

type alias struct {
	name     string
	variants []string
}

// Checked in order; the first variant contained in the input wins.
var makeAliases = []alias{
	{"Toyota", []string{"toyota"}},
	{"Honda", []string{"honda"}},
	{"Ford", []string{"ford"}},
	{"Chevrolet", []string{"chevrolet", "chevy", "chev"}},
	{"Nissan", []string{"nissan"}},
	{"Hyundai", []string{"hyundai"}},
	{"Subaru", []string{"subaru"}},
	{"Mazda", []string{"mazda"}},
	{"Volkswagen", []string{"volkswagen", "vw"}},
	{"BMW", []string{"bmw"}},
	{"Mercedes", []string{"mercedes", "mercedes-benz", "benz"}},
	{"Audi", []string{"audi"}},
	{"Lexus", []string{"lexus"}},
	{"Acura", []string{"acura"}},
	{"Infiniti", []string{"infiniti"}},
	{"Kia", []string{"kia"}},
	{"Jeep", []string{"jeep"}},
	{"Ram", []string{"ram"}},
	{"GMC", []string{"gmc"}},
}

var modelAliases = []alias{
	{"Camry", []string{"camry"}},
	{"Corolla", []string{"corolla"}},
	{"RAV4", []string{"rav4", "rav-4"}},
	{"Highlander", []string{"highlander"}},
	{"Prius", []string{"prius"}},
	{"Civic", []string{"civic"}},
	{"Accord", []string{"accord"}},
	{"CR-V", []string{"cr-v", "crv"}},
	{"Pilot", []string{"pilot"}},
	{"F-150", []string{"f-150", "f150", "f 150"}},
	{"Escape", []string{"escape"}},
	{"Mustang", []string{"mustang"}},
	{"Explorer", []string{"explorer"}},
	{"Equinox", []string{"equinox"}},
	{"Silverado", []string{"silverado"}},
	{"Malibu", []string{"malibu"}},
	{"Tahoe", []string{"tahoe"}},
	{"Altima", []string{"altima"}},
	{"Rogue", []string{"rogue"}},
	{"Sentra", []string{"sentra"}},
	{"Elantra", []string{"elantra"}},
	{"Tucson", []string{"tucson"}},
	{"Santa Fe", []string{"santa fe", "santafe"}},
	{"Outback", []string{"outback"}},
	{"Forester", []string{"forester"}},
	{"3 Series", []string{"3 series", "3-series", "320i", "330i"}},
	{"X3", []string{"x3"}},
	{"C-Class", []string{"c-class", "c class", "c300", "c350"}},
	{"A4", []string{"a4"}},
}

var makeMultipliers = map[string]float64{
	"Toyota":    1.0,
	"Honda":     1.0,
	"Ford":      0.9,
	"Chevrolet": 0.9,
	"Nissan":    0.85,
	"Hyundai":   0.8,
	"Subaru":    0.95,
	"BMW":       1.6,
	"Mercedes":  1.7,
	"Audi":      1.5,
	"Lexus":     1.3,
}

var (
	yearPattern = regexp.MustCompile(`\b(199\d|20[0-2]\d)\b`)
	vinPattern  = regexp.MustCompile(`^[a-z0-9]{17}$`)
)

const (
	depreciationPerYear = 1500.0
	depreciationFloor   = 0.6
	valuationCacheKey   = "valuation:"
)

// ValuationService is the lookup-table valuation oracle.
type ValuationService struct {
	cache  repository.CacheRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewValuationService(cache repository.CacheRepository, logger *slog.Logger) *ValuationService {
	return &ValuationService{
		cache:  cache,
		logger: loggerOrDiscard(logger),
		now:    time.Now,
	}
}

// EstimateVehicleValue implements ValuationOracle.
func (s *ValuationService) EstimateVehicleValue(descriptor string) *domain.VehicleEstimate {
	input := strings.ToLower(strings.TrimSpace(descriptor))
	if input == "" {
		return nil
	}

	key := valuationCacheKey + input
	if s.cache != nil {
		if raw, ok := s.cache.Get(key); ok {
			var cached domain.VehicleEstimate
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached
			}
		}
	}

	estimate := s.estimate(input)

	if s.cache != nil {
		if raw, err := json.Marshal(estimate); err == nil {
			if err := s.cache.Set(key, string(raw)); err != nil {
				s.logger.Warn("failed to cache vehicle valuation", "err", err)
			}
		}
	}
	return &estimate
}

func (s *ValuationService) estimate(input string) domain.VehicleEstimate {
	currentYear := s.now().Year()

	if vinPattern.MatchString(input) {
		// VIN decoding is mocked until a decoder service is available.
		return s.finalize(domain.VehicleEstimate{
			Make: "Toyota", Model: "Camry", Year: 2023,
			BasePrice: 26000, Confidence: domain.ConfidenceHigh,
		}, currentYear)
	}

	year := currentYear
	if m := yearPattern.FindString(input); m != "" {
		year, _ = strconv.Atoi(m)
	}
	vehicleMake := findAlias(input, makeAliases)
	vehicleModel := findAlias(input, modelAliases)

	if p, ok := lookupPrice(vehicleMake, vehicleModel, year); ok {
		return s.finalize(domain.VehicleEstimate{
			Make: p.make, Model: p.model, Year: p.year,
			BasePrice: p.value, IsNew: p.isNew, Confidence: domain.ConfidenceHigh,
		}, currentYear)
	}

	if vehicleMake != "" && vehicleModel != "" {
		if p, ok := lookupPrice(vehicleMake, vehicleModel, 0); ok {
			adjusted := p.value - float64(p.year-year)*depreciationPerYear
			adjusted = math.Max(math.Min(adjusted, p.value), p.value*depreciationFloor)
			return s.finalize(domain.VehicleEstimate{
				Make: p.make, Model: p.model, Year: year,
				BasePrice: adjusted, IsNew: p.isNew && year >= p.year, Confidence: domain.ConfidenceHigh,
			}, currentYear)
		}
	}

	var base float64
	switch {
	case year >= 2023:
		base = 30000
	case year >= 2020:
		base = 25000
	case year >= 2015:
		base = 20000
	default:
		base = 15000
	}
	multiplier, ok := makeMultipliers[vehicleMake]
	if !ok {
		multiplier = 1.0
	}

	confidence := domain.ConfidenceLow
	if vehicleMake != "" && vehicleModel != "" {
		confidence = domain.ConfidenceMedium
	}
	if vehicleMake == "" {
		vehicleMake = "Unknown"
	}
	if vehicleModel == "" {
		vehicleModel = "Unknown"
	}
	return s.finalize(domain.VehicleEstimate{
		Make: vehicleMake, Model: vehicleModel, Year: year,
		BasePrice: math.Round(base * multiplier), IsNew: year >= currentYear, Confidence: confidence,
	}, currentYear)
}

func (s *ValuationService) finalize(e domain.VehicleEstimate, currentYear int) domain.VehicleEstimate {
	if !e.IsNew {
		e.Depreciation = math.Floor(float64(currentYear-e.Year) * 0.12 * e.BasePrice)
	}
	e.FinalEstimate = e.BasePrice
	return e
}

func findAlias(input string, aliases []alias) string {
	for _, a := range aliases {
		for _, v := range a.variants {
			if strings.Contains(input, v) {
				return a.name
			}
		}
	}
	return ""
}

// lookupPrice finds the table entry for make and model; year 0 matches the
// newest listed year.
func lookupPrice(vehicleMake, vehicleModel string, year int) (vehiclePrice, bool) {
	if vehicleMake == "" || vehicleModel == "" {
		return vehiclePrice{}, false
	}
	for _, p := range vehiclePrices {
		if !strings.EqualFold(p.make, vehicleMake) || !strings.EqualFold(p.model, vehicleModel) {
			continue
		}
		if year == 0 || p.year == year {
			return p, true
		}
	}
	return vehiclePrice{}, false
}
