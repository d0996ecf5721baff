// Package aggregate turns the records of one refresh cycle into the
// collections and summary statistics served to clients. Every function is
// pure: the same records always produce the same output.
package aggregate

import (
	"sort"

	"github.com/mr1hm/go-disaster-feed/internal/geo"
	"github.com/mr1hm/go-disaster-feed/internal/models"
)

type Aggregator struct {
	tagger *geo.Tagger
}

func New(tagger *geo.Tagger) *Aggregator {
	return &Aggregator{tagger: tagger}
}

// Aggregate builds the data half of a snapshot. Provider metadata (sources,
// state, timestamps) is left for the caller to fill in.
func (a *Aggregator) Aggregate(records []models.DisasterRecord) models.Snapshot {
	return models.Snapshot{
		RecordsByKind:  PartitionByKind(records),
		Total:          len(records),
		CountryStats:   ComputeCountryStats(records),
		ContinentStats: ComputeContinentStats(records, a.tagger),
		India:          ComputeIndiaData(records, a.tagger),
		TypeStats:      ComputeTypeStats(records),
		Severity:       AnalyzeSeverity(records),
	}
}

// PartitionByKind groups records by kind, keeping input order. Every known
// kind gets an entry, empty when nothing of that kind was reported.
func PartitionByKind(records []models.DisasterRecord) map[models.Kind][]models.DisasterRecord {
	out := make(map[models.Kind][]models.DisasterRecord, len(models.AllKinds))
	for _, k := range models.AllKinds {
		out[k] = []models.DisasterRecord{}
	}
	for _, r := range records {
		out[r.Kind] = append(out[r.Kind], r)
	}
	return out
}

// ComputeCountryStats counts records per country. Unresolved records are
// grouped under "Other" or "Unknown" so the totals always sum to
// len(records).
func ComputeCountryStats(records []models.DisasterRecord) []models.CountryStat {
	byCountry := make(map[string]*models.CountryStat)
	for _, r := range records {
		country := r.Country
		if country == "" {
			country = geo.Unknown
		}
		s, ok := byCountry[country]
		if !ok {
			s = &models.CountryStat{Country: country}
			byCountry[country] = s
		}

		s.Inc(r.Kind)
		s.Total++
		if r.Kind == models.KindEarthquake && r.Magnitude != nil && *r.Magnitude > s.MaxMagnitude {
			s.MaxMagnitude = *r.Magnitude
		}
		if r.ObservedAt.After(s.LatestObservedAt) {
			s.LatestObservedAt = r.ObservedAt
		}
	}

	out := make([]models.CountryStat, 0, len(byCountry))
	for _, s := range byCountry {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return byTotalThenName(out[i].Total, out[j].Total, out[i].Country, out[j].Country)
	})
	return out
}

func ComputeContinentStats(records []models.DisasterRecord, tagger *geo.Tagger) []models.ContinentStat {
	type acc struct {
		stat      models.ContinentStat
		countries map[string]struct{}
	}
	byContinent := make(map[string]*acc)
	for _, r := range records {
		continent := tagger.Continent(r.Country)
		a, ok := byContinent[continent]
		if !ok {
			a = &acc{
				stat:      models.ContinentStat{Continent: continent},
				countries: make(map[string]struct{}),
			}
			byContinent[continent] = a
		}

		a.countries[r.Country] = struct{}{}
		a.stat.Inc(r.Kind)
		a.stat.Total++
		if r.Kind == models.KindEarthquake && r.Magnitude != nil && *r.Magnitude > a.stat.MaxMagnitude {
			a.stat.MaxMagnitude = *r.Magnitude
		}
	}

	out := make([]models.ContinentStat, 0, len(byContinent))
	for _, a := range byContinent {
		a.stat.CountriesCount = len(a.countries)
		out = append(out, a.stat)
	}
	sort.Slice(out, func(i, j int) bool {
		return byTotalThenName(out[i].Total, out[j].Total, out[i].Continent, out[j].Continent)
	})
	return out
}

// ComputeIndiaData summarises records tagged India, per state. Records
// without a state are re-resolved from their location text.
func ComputeIndiaData(records []models.DisasterRecord, tagger *geo.Tagger) models.IndiaData {
	data := models.IndiaData{
		RecordsByKind: make(map[models.Kind][]models.DisasterRecord, len(models.AllKinds)),
		States:        []models.IndiaStateStat{},
		RiskLevel:     models.RiskLow,
	}
	for _, k := range models.AllKinds {
		data.RecordsByKind[k] = []models.DisasterRecord{}
	}

	byState := make(map[string]*models.IndiaStateStat)
	high := 0
	for _, r := range records {
		if r.Country != geo.India {
			continue
		}
		data.Total++
		data.RecordsByKind[r.Kind] = append(data.RecordsByKind[r.Kind], r)
		if r.Severity == models.SeverityHigh {
			high++
		}

		state := r.State
		if state == "" {
			state = tagger.ResolveIndianState(r.Location)
		}
		if state == geo.Unknown || state == "" {
			state = geo.Other
		}

		s, ok := byState[state]
		if !ok {
			s = &models.IndiaStateStat{State: state, HighestSeverity: models.SeverityLow}
			byState[state] = s
		}
		s.Inc(r.Kind)
		s.Total++
		if r.Severity == models.SeverityHigh {
			s.HighSeverity++
		}
		if r.Severity.Rank() > s.HighestSeverity.Rank() {
			s.HighestSeverity = r.Severity
		}
		if r.Kind == models.KindEarthquake && r.Magnitude != nil && *r.Magnitude > s.MaxMagnitude {
			s.MaxMagnitude = *r.Magnitude
		}
		if r.ObservedAt.After(s.LatestObservedAt) {
			s.LatestObservedAt = r.ObservedAt
		}
	}

	for _, s := range byState {
		s.RiskLevel = ClassifyRisk(s.Total, s.HighSeverity)
		data.States = append(data.States, *s)
	}
	sort.Slice(data.States, func(i, j int) bool {
		return byTotalThenName(data.States[i].Total, data.States[j].Total, data.States[i].State, data.States[j].State)
	})

	data.IsActive = data.Total > 0
	data.RiskLevel = ClassifyRisk(data.Total, high)
	return data
}

// ClassifyRisk maps a record count and its high-severity subset to a risk
// level. The first matching rule wins.
func ClassifyRisk(total, high int) models.RiskLevel {
	switch {
	case high >= 3 || total >= 10:
		return models.RiskCritical
	case high >= 1 || total >= 5:
		return models.RiskHigh
	case total >= 2:
		return models.RiskModerate
	default:
		return models.RiskLow
	}
}

// ComputeTypeStats returns one entry per known kind, in AllKinds order.
func ComputeTypeStats(records []models.DisasterRecord) []models.TypeStat {
	stats := make(map[models.Kind]*models.TypeStat, len(models.AllKinds))
	countries := make(map[models.Kind]map[string]struct{}, len(models.AllKinds))
	for _, k := range models.AllKinds {
		stats[k] = &models.TypeStat{Kind: k}
		countries[k] = make(map[string]struct{})
	}

	for _, r := range records {
		s, ok := stats[r.Kind]
		if !ok {
			continue
		}
		s.Count++
		if r.Severity == models.SeverityHigh {
			s.HighSeverity++
		}
		countries[r.Kind][r.Country] = struct{}{}
	}

	out := make([]models.TypeStat, 0, len(models.AllKinds))
	for _, k := range models.AllKinds {
		s := stats[k]
		s.CountriesAffected = len(countries[k])
		out = append(out, *s)
	}
	return out
}

// AnalyzeSeverity counts severities overall and per kind. The global risk
// level only looks at the number of high-severity records.
func AnalyzeSeverity(records []models.DisasterRecord) models.SeverityAnalysis {
	a := models.SeverityAnalysis{
		ByKind:         make(map[models.Kind]models.SeverityCounts),
		TotalDisasters: len(records),
	}
	for _, r := range records {
		a.Overall.Inc(r.Severity)
		c := a.ByKind[r.Kind]
		c.Inc(r.Severity)
		a.ByKind[r.Kind] = c
	}

	switch {
	case a.Overall.High > 5:
		a.RiskLevel = models.RiskCritical
	case a.Overall.High > 2:
		a.RiskLevel = models.RiskHigh
	default:
		a.RiskLevel = models.RiskModerate
	}
	return a
}

func byTotalThenName(ti, tj int, ni, nj string) bool {
	if ti != tj {
		return ti > tj
	}
	return ni < nj
}
