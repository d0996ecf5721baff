package ingestion

import (
	"time"

	"github.com/mr1hm/go-disaster-feed/internal/models"
)

// build runs hand-authored records through the same tagging as live data.
func (b base) build(records []models.DisasterRecord) []models.DisasterRecord {
	for i := range records {
		r := &records[i]
		if r.Country == "" {
			b.tag(r)
		}
		if r.SourceName == "" {
			r.SourceName = b.name
		}
	}
	return records
}

func at(lat, lon float64) *models.Coordinates {
	return &models.Coordinates{Latitude: lat, Longitude: lon}
}

func fallbackEarthquakes(now time.Time) []models.DisasterRecord {
	return []models.DisasterRecord{
		{
			ID:          "fallback_eq_1",
			Kind:        models.KindEarthquake,
			Location:    "Himachal Pradesh, India",
			Coordinates: at(31.1048, 77.1734),
			Severity:    models.SeverityMedium,
			Description: "Moderate earthquake in Himachal Pradesh, felt across multiple districts",
			ObservedAt:  now.Add(-5 * time.Minute),
			SourceName:  "USGS",
			Magnitude:   models.Float(4.2),
			Depth:       models.Float(15),
		},
		{
			ID:          "fallback_eq_2",
			Kind:        models.KindEarthquake,
			Location:    "Uttarakhand, India",
			Coordinates: at(30.0668, 79.0193),
			Severity:    models.SeverityLow,
			Description: "Minor earthquake in the Uttarakhand hills",
			ObservedAt:  now.Add(-10 * time.Minute),
			SourceName:  "USGS",
			Magnitude:   models.Float(3.8),
			Depth:       models.Float(12),
		},
		{
			ID:          "fallback_eq_3",
			Kind:        models.KindEarthquake,
			Location:    "Assam, India",
			Coordinates: at(26.2006, 92.9376),
			Severity:    models.SeverityMedium,
			Description: "Moderate earthquake in Assam, strong shaking across northeastern states",
			ObservedAt:  now.Add(-15 * time.Minute),
			SourceName:  "USGS",
			Magnitude:   models.Float(5.1),
			Depth:       models.Float(18),
		},
		{
			ID:          "fallback_eq_4",
			Kind:        models.KindEarthquake,
			Location:    "Tokyo, Japan",
			Coordinates: at(35.6762, 139.6503),
			Severity:    models.SeverityHigh,
			Description: "Strong earthquake near Tokyo, significant shaking across the Kanto region",
			ObservedAt:  now.Add(-20 * time.Minute),
			SourceName:  "Japan Meteorological Agency",
			Magnitude:   models.Float(6.2),
			Depth:       models.Float(10),
		},
		{
			ID:          "fallback_eq_5",
			Kind:        models.KindEarthquake,
			Location:    "California, USA",
			Coordinates: at(34.0522, -118.2437),
			Severity:    models.SeverityMedium,
			Description: "Moderate earthquake in Southern California",
			ObservedAt:  now.Add(-25 * time.Minute),
			SourceName:  "USGS",
			Magnitude:   models.Float(4.8),
			Depth:       models.Float(8),
		},
	}
}

func fallbackWeatherAlerts(now time.Time) []models.DisasterRecord {
	return []models.DisasterRecord{
		{
			ID:          "fallback_weather_1",
			Kind:        models.KindWeatherAlert,
			Location:    "Mumbai, Maharashtra",
			Coordinates: at(19.0760, 72.8777),
			Severity:    models.SeverityHigh,
			Description: "Severe thunderstorm with heavy rainfall, 150mm expected in next 6 hours",
			ObservedAt:  now.Add(-3 * time.Minute),
			SourceName:  "India Meteorological Department",
			WindSpeed:   models.Float(85),
		},
		{
			ID:          "fallback_weather_2",
			Kind:        models.KindWeatherAlert,
			Location:    "Chennai, Tamil Nadu",
			Coordinates: at(13.0827, 80.2707),
			Severity:    models.SeverityHigh,
			Description: "Cyclone approaching, category 2 storm with sustained winds of 120 km/h",
			ObservedAt:  now.Add(-8 * time.Minute),
			SourceName:  "India Meteorological Department",
			WindSpeed:   models.Float(120),
		},
		{
			ID:          "fallback_weather_3",
			Kind:        models.KindWeatherAlert,
			Location:    "Delhi, India",
			Coordinates: at(28.7041, 77.1025),
			Severity:    models.SeverityMedium,
			Description: "Dense fog and severe air pollution, AQI 350",
			ObservedAt:  now.Add(-12 * time.Minute),
			SourceName:  "Central Pollution Control Board",
		},
		{
			ID:          "fallback_weather_4",
			Kind:        models.KindWeatherAlert,
			Location:    "Kolkata, West Bengal",
			Coordinates: at(22.5726, 88.3639),
			Severity:    models.SeverityMedium,
			Description: "Heat wave conditions, temperature reaching 42°C with high humidity",
			ObservedAt:  now.Add(-16 * time.Minute),
			SourceName:  "India Meteorological Department",
		},
	}
}

// fallbackUSWeatherAlerts stands in for NOAA, which only covers the United States.
func fallbackUSWeatherAlerts(now time.Time) []models.DisasterRecord {
	return []models.DisasterRecord{
		{
			ID:          "fallback_weather_us_1",
			Kind:        models.KindWeatherAlert,
			Location:    "Miami-Dade County, FL",
			Country:     "USA",
			Severity:    models.SeverityHigh,
			Description: "Hurricane Warning issued for coastal Miami-Dade",
			ObservedAt:  now.Add(-5 * time.Minute),
			SourceName:  "NOAA",
		},
		{
			ID:          "fallback_weather_us_2",
			Kind:        models.KindWeatherAlert,
			Location:    "Maricopa County, AZ",
			Country:     "USA",
			Severity:    models.SeverityMedium,
			Description: "Excessive Heat Warning, highs near 46°C",
			ObservedAt:  now.Add(-20 * time.Minute),
			SourceName:  "NOAA",
		},
		{
			ID:          "fallback_weather_us_3",
			Kind:        models.KindWeatherAlert,
			Location:    "Hennepin County, MN",
			Country:     "USA",
			Severity:    models.SeverityLow,
			Description: "Winter Weather Advisory",
			ObservedAt:  now.Add(-45 * time.Minute),
			SourceName:  "NOAA",
		},
	}
}

func fallbackWildfires(now time.Time) []models.DisasterRecord {
	return []models.DisasterRecord{
		{
			ID:          "fallback_fire_1",
			Kind:        models.KindWildfire,
			Location:    "Uttarakhand, India",
			Coordinates: at(30.0668, 79.0193),
			Severity:    models.SeverityMedium,
			Description: "Forest fire in the Uttarakhand hills",
			ObservedAt:  now.Add(-30 * time.Minute),
			SourceName:  "NASA FIRMS",
			Confidence:  models.Float(75),
			Brightness:  models.Float(320),
		},
		{
			ID:          "fallback_fire_2",
			Kind:        models.KindWildfire,
			Location:    "Himachal Pradesh, India",
			Coordinates: at(31.1048, 77.1734),
			Severity:    models.SeverityLow,
			Description: "Small forest fire near Shimla",
			ObservedAt:  now.Add(-45 * time.Minute),
			SourceName:  "NASA FIRMS",
			Confidence:  models.Float(45),
			Brightness:  models.Float(280),
		},
		{
			ID:          "fallback_fire_3",
			Kind:        models.KindWildfire,
			Location:    "California, USA",
			Coordinates: at(36.7783, -119.4179),
			Severity:    models.SeverityHigh,
			Description: "Large wildfire spreading in Northern California",
			ObservedAt:  now.Add(-60 * time.Minute),
			SourceName:  "NASA FIRMS",
			Confidence:  models.Float(85),
			Brightness:  models.Float(380),
		},
		{
			ID:          "fallback_fire_4",
			Kind:        models.KindWildfire,
			Location:    "New South Wales, Australia",
			Coordinates: at(-33.8688, 151.2093),
			Severity:    models.SeverityHigh,
			Description: "Bushfire in New South Wales",
			ObservedAt:  now.Add(-90 * time.Minute),
			SourceName:  "NASA FIRMS",
			Confidence:  models.Float(90),
			Brightness:  models.Float(395),
		},
	}
}

func fallbackTsunamis(now time.Time) []models.DisasterRecord {
	return []models.DisasterRecord{
		{
			ID:          "fallback_tsunami_1",
			Kind:        models.KindTsunami,
			Location:    "Andaman & Nicobar Islands, India",
			Severity:    models.SeverityHigh,
			Description: "Tsunami watch issued, 7.2 magnitude earthquake detected",
			ObservedAt:  now.Add(-5 * time.Minute),
			SourceName:  "Indian National Centre for Ocean Information Services",
			Magnitude:   models.Float(7.2),
			WaveHeight:  models.Float(2.5),
		},
		{
			ID:          "fallback_tsunami_2",
			Kind:        models.KindTsunami,
			Location:    "Pacific Ocean - Japan Coast",
			Severity:    models.SeverityMedium,
			Description: "Tsunami advisory for the Japanese Pacific coast",
			ObservedAt:  now.Add(-40 * time.Minute),
			SourceName:  "Japan Meteorological Agency",
			Magnitude:   models.Float(6.8),
			WaveHeight:  models.Float(1.2),
		},
	}
}

func fallbackVolcanoes(now time.Time) []models.DisasterRecord {
	return []models.DisasterRecord{
		{
			ID:          "fallback_volcano_1",
			Kind:        models.KindVolcano,
			Location:    "Barren Island, Andaman & Nicobar",
			Coordinates: at(12.2780, 93.8580),
			Severity:    models.SeverityMedium,
			Description: "Increased volcanic activity on Barren Island",
			ObservedAt:  now.Add(-2 * time.Hour),
			SourceName:  "Geological Survey of India",
			AlertLevel:  models.Int(2),
		},
		{
			ID:          "fallback_volcano_2",
			Kind:        models.KindVolcano,
			Location:    "Mount Fuji, Japan",
			Coordinates: at(35.3606, 138.7274),
			Severity:    models.SeverityLow,
			Description: "Minor seismic activity beneath Mount Fuji",
			ObservedAt:  now.Add(-3 * time.Hour),
			SourceName:  "Japan Meteorological Agency",
			AlertLevel:  models.Int(1),
		},
	}
}

func fallbackFloods(now time.Time) []models.DisasterRecord {
	return []models.DisasterRecord{
		{
			ID:          "fallback_flood_1",
			Kind:        models.KindFlood,
			Location:    "Kerala, India",
			Severity:    models.SeverityHigh,
			Description: "Severe flooding after monsoon rainfall",
			ObservedAt:  now.Add(-1 * time.Hour),
			SourceName:  "Central Water Commission",
		},
		{
			ID:          "fallback_flood_2",
			Kind:        models.KindFlood,
			Location:    "Assam, India",
			Severity:    models.SeverityMedium,
			Description: "Brahmaputra above danger level in several districts",
			ObservedAt:  now.Add(-2 * time.Hour),
			SourceName:  "Central Water Commission",
		},
		{
			ID:          "fallback_flood_3",
			Kind:        models.KindFlood,
			Location:    "Bihar, India",
			Severity:    models.SeverityMedium,
			Description: "River flooding in northern districts",
			ObservedAt:  now.Add(-4 * time.Hour),
			SourceName:  "Central Water Commission",
		},
	}
}

func fallbackCyclones(now time.Time) []models.DisasterRecord {
	return []models.DisasterRecord{
		{
			ID:          "fallback_cyclone_1",
			Kind:        models.KindCyclone,
			Location:    "Bay of Bengal - Approaching Odisha",
			Coordinates: at(19.5, 87.5),
			Severity:    models.SeverityHigh,
			Description: "Severe cyclonic storm approaching the Odisha coast",
			ObservedAt:  now.Add(-30 * time.Minute),
			SourceName:  "India Meteorological Department",
			Category:    models.Int(3),
			WindSpeed:   models.Float(150),
		},
		{
			ID:          "fallback_cyclone_2",
			Kind:        models.KindCyclone,
			Location:    "Arabian Sea - West Coast India",
			Coordinates: at(16.0, 70.5),
			Severity:    models.SeverityMedium,
			Description: "Depression over the Arabian Sea likely to intensify",
			ObservedAt:  now.Add(-90 * time.Minute),
			SourceName:  "India Meteorological Department",
			Category:    models.Int(1),
			WindSpeed:   models.Float(85),
		},
	}
}

func fallbackDroughts(now time.Time) []models.DisasterRecord {
	return []models.DisasterRecord{
		{
			ID:          "fallback_drought_1",
			Kind:        models.KindDrought,
			Location:    "Maharashtra, India",
			Severity:    models.SeverityHigh,
			Description: "Severe drought in Marathwada with 45% rainfall deficit",
			ObservedAt:  now.Add(-24 * time.Hour),
			SourceName:  "India Meteorological Department",
		},
		{
			ID:          "fallback_drought_2",
			Kind:        models.KindDrought,
			Location:    "Karnataka, India",
			Severity:    models.SeverityMedium,
			Description: "Moderate drought conditions in northern districts",
			ObservedAt:  now.Add(-48 * time.Hour),
			SourceName:  "India Meteorological Department",
		},
	}
}

func fallbackLandslides(now time.Time) []models.DisasterRecord {
	return []models.DisasterRecord{
		{
			ID:          "fallback_landslide_1",
			Kind:        models.KindLandslide,
			Location:    "Himachal Pradesh, India",
			Severity:    models.SeverityHigh,
			Description: "Landslide blocks national highway after heavy rain",
			ObservedAt:  now.Add(-6 * time.Hour),
			SourceName:  "State Disaster Management Authority",
		},
		{
			ID:          "fallback_landslide_2",
			Kind:        models.KindLandslide,
			Location:    "Uttarakhand, India",
			Severity:    models.SeverityMedium,
			Description: "Minor landslides reported along pilgrimage routes",
			ObservedAt:  now.Add(-12 * time.Hour),
			SourceName:  "State Disaster Management Authority",
		},
	}
}

func fallbackGDACS(now time.Time) []models.DisasterRecord {
	return []models.DisasterRecord{
		{
			ID:          "fallback_gdacs_1",
			Kind:        models.KindCyclone,
			Location:    "Tropical Cyclone near Manila, Philippines",
			Coordinates: at(14.5995, 120.9842),
			Severity:    models.SeverityMedium,
			Description: "Orange alert for tropical cyclone",
			ObservedAt:  now.Add(-3 * time.Hour),
			SourceName:  "GDACS",
		},
		{
			ID:          "fallback_gdacs_2",
			Kind:        models.KindFlood,
			Location:    "Flood in Sumatra, Indonesia",
			Severity:    models.SeverityLow,
			Description: "Green alert for flood",
			ObservedAt:  now.Add(-8 * time.Hour),
			SourceName:  "GDACS",
		},
	}
}
