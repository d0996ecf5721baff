package models

import "time"

// KindCounts holds one counter per disaster kind.
type KindCounts struct {
	Earthquakes   int `json:"earthquakes"`
	WeatherAlerts int `json:"weatherAlerts"`
	Wildfires     int `json:"wildfires"`
	Tsunamis      int `json:"tsunamis"`
	Volcanoes     int `json:"volcanoes"`
	Floods        int `json:"floods"`
	Cyclones      int `json:"cyclones"`
	Droughts      int `json:"droughts"`
	Landslides    int `json:"landslides"`
}

func (c *KindCounts) Inc(k Kind) {
	switch k {
	case KindEarthquake:
		c.Earthquakes++
	case KindWeatherAlert:
		c.WeatherAlerts++
	case KindWildfire:
		c.Wildfires++
	case KindTsunami:
		c.Tsunamis++
	case KindVolcano:
		c.Volcanoes++
	case KindFlood:
		c.Floods++
	case KindCyclone:
		c.Cyclones++
	case KindDrought:
		c.Droughts++
	case KindLandslide:
		c.Landslides++
	}
}

func (c KindCounts) Get(k Kind) int {
	switch k {
	case KindEarthquake:
		return c.Earthquakes
	case KindWeatherAlert:
		return c.WeatherAlerts
	case KindWildfire:
		return c.Wildfires
	case KindTsunami:
		return c.Tsunamis
	case KindVolcano:
		return c.Volcanoes
	case KindFlood:
		return c.Floods
	case KindCyclone:
		return c.Cyclones
	case KindDrought:
		return c.Droughts
	case KindLandslide:
		return c.Landslides
	default:
		return 0
	}
}

type CountryStat struct {
	Country string `json:"country"`
	KindCounts
	Total            int       `json:"total"`
	MaxMagnitude     float64   `json:"maxMagnitude"`
	LatestObservedAt time.Time `json:"latestObservedAt"`
}

type ContinentStat struct {
	Continent      string `json:"continent"`
	CountriesCount int    `json:"countriesCount"`
	KindCounts
	Total        int     `json:"total"`
	MaxMagnitude float64 `json:"maxMagnitude"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type IndiaStateStat struct {
	State string `json:"state"`
	KindCounts
	Total            int       `json:"total"`
	HighSeverity     int       `json:"highSeverity"`
	MaxMagnitude     float64   `json:"maxMagnitude"`
	HighestSeverity  Severity  `json:"highestSeverity"`
	LatestObservedAt time.Time `json:"latestObservedAt"`
	RiskLevel        RiskLevel `json:"riskLevel"`
}

type IndiaData struct {
	Total         int                       `json:"total"`
	IsActive      bool                      `json:"isActive"`
	RiskLevel     RiskLevel                 `json:"riskLevel"`
	RecordsByKind map[Kind][]DisasterRecord `json:"recordsByKind"`
	States        []IndiaStateStat          `json:"states"`
}

type TypeStat struct {
	Kind              Kind `json:"kind"`
	Count             int  `json:"count"`
	HighSeverity      int  `json:"highSeverity"`
	CountriesAffected int  `json:"countriesAffected"`
}

type SeverityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

func (c *SeverityCounts) Inc(s Severity) {
	switch s {
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	default:
		c.Low++
	}
}

type SeverityAnalysis struct {
	Overall        SeverityCounts          `json:"overall"`
	ByKind         map[Kind]SeverityCounts `json:"byKind"`
	TotalDisasters int                     `json:"totalDisasters"`
	RiskLevel      RiskLevel               `json:"riskLevel"`
}
