package geo

// Pattern maps a name to the substrings that identify it in free text.
type Pattern struct {
	Name     string
	Contains []string
}

// Box is a coarse latitude/longitude rectangle, bounds inclusive.
type Box struct {
	Name   string
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Tables is the static lookup data behind a Tagger. Slice order is the
// match order: the first entry that matches wins, so overlapping boxes
// resolve to whichever is listed first.
type Tables struct {
	Countries        []Pattern
	CountryBoxes     []Box
	IndianStates     []Pattern
	IndianStateBoxes []Box
	Continents       map[string]string
}

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Countries:        countryPatterns(),
		CountryBoxes:     countryBoxes(),
		IndianStates:     indianStatePatterns(),
		IndianStateBoxes: indianStateBoxes(),
		Continents:       continents(),
	}
}

func countryPatterns() []Pattern {
	return []Pattern{
		{"India", []string{
			"India", "Indian", "Andaman", "Nicobar", "Lakshadweep",
			"Kashmir", "Himachal", "Punjab", "Haryana", "Delhi", "Rajasthan",
			"Uttar Pradesh", "Bihar", "Jharkhand", "West Bengal", "Odisha",
			"Chhattisgarh", "Madhya Pradesh", "Gujarat", "Maharashtra", "Goa",
			"Karnataka", "Kerala", "Tamil Nadu", "Andhra Pradesh", "Telangana",
			"Assam", "Meghalaya", "Tripura", "Mizoram", "Manipur", "Nagaland",
			"Arunachal Pradesh", "Sikkim", "Uttarakhand", "Jammu", "Ladakh",
		}},
		{"Japan", []string{"Japan", "Honshu", "Kyushu", "Shikoku", "Tokyo", "Osaka"}},
		{"USA", []string{"California", "Alaska", "Nevada", "Hawaii", "Oregon", "Washington", "Texas", "Florida"}},
		{"Indonesia", []string{"Indonesia", "Java", "Sumatra", "Sulawesi", "Jakarta"}},
		{"Chile", []string{"Chile", "Chilean", "Santiago"}},
		{"Turkey", []string{"Turkey", "Turkish", "Istanbul", "Ankara"}},
		{"Greece", []string{"Greece", "Greek", "Athens"}},
		{"Italy", []string{"Italy", "Italian", "Rome", "Milan"}},
		{"Mexico", []string{"Mexico", "Mexican", "Mexico City"}},
		{"Philippines", []string{"Philippines", "Philippine", "Manila"}},
		{"New Zealand", []string{"New Zealand", "Auckland", "Wellington"}},
		{"Iran", []string{"Iran", "Iranian", "Tehran"}},
		{"China", []string{"China", "Chinese", "Beijing", "Shanghai"}},
		{"Pakistan", []string{"Pakistan", "Karachi", "Lahore"}},
		{"Afghanistan", []string{"Afghanistan", "Kabul"}},
		{"Peru", []string{"Peru", "Peruvian", "Lima"}},
		{"Ecuador", []string{"Ecuador", "Quito"}},
		{"Russia", []string{"Russia", "Russian", "Siberia", "Moscow"}},
		{"Papua New Guinea", []string{"Papua New Guinea", "Port Moresby"}},
		{"Fiji", []string{"Fiji", "Suva"}},
		{"Tonga", []string{"Tonga"}},
		{"Vanuatu", []string{"Vanuatu"}},
		{"Solomon Islands", []string{"Solomon Islands"}},
		{"Australia", []string{"Australia", "Sydney", "Melbourne", "Brisbane"}},
	}
}

// Russia is listed before China, so the band they share resolves to Russia.
func countryBoxes() []Box {
	return []Box{
		{"India", 8, 37, 68, 97},
		{"USA", 24, 49, -125, -66},
		{"Japan", 30, 46, 129, 146},
		{"Indonesia", -11, 6, 95, 141},
		{"Turkey", 36, 42, 26, 45},
		{"Chile", -56, -17, -109, -66},
		{"Mexico", 14, 32, -118, -86},
		{"Australia", -44, -10, 113, 154},
		{"Russia", 35, 71, 19, 169},
		{"China", 18, 71, 73, 135},
	}
}

func indianStatePatterns() []Pattern {
	return []Pattern{
		{"Andhra Pradesh", []string{"Andhra Pradesh", "Visakhapatnam", "Vijayawada"}},
		{"Arunachal Pradesh", []string{"Arunachal Pradesh"}},
		{"Assam", []string{"Assam", "Guwahati"}},
		{"Bihar", []string{"Bihar", "Patna"}},
		{"Chhattisgarh", []string{"Chhattisgarh", "Raipur"}},
		{"Goa", []string{"Goa", "Panaji"}},
		{"Gujarat", []string{"Gujarat", "Ahmedabad", "Surat"}},
		{"Haryana", []string{"Haryana", "Gurugram", "Faridabad"}},
		{"Himachal Pradesh", []string{"Himachal Pradesh", "Shimla"}},
		{"Jharkhand", []string{"Jharkhand", "Ranchi"}},
		{"Karnataka", []string{"Karnataka", "Bangalore", "Bengaluru", "Mysore"}},
		{"Kerala", []string{"Kerala", "Kochi", "Thiruvananthapuram"}},
		{"Madhya Pradesh", []string{"Madhya Pradesh", "Bhopal", "Indore"}},
		{"Maharashtra", []string{"Maharashtra", "Mumbai", "Pune", "Nagpur"}},
		{"Manipur", []string{"Manipur", "Imphal"}},
		{"Meghalaya", []string{"Meghalaya", "Shillong"}},
		{"Mizoram", []string{"Mizoram", "Aizawl"}},
		{"Nagaland", []string{"Nagaland", "Kohima"}},
		{"Odisha", []string{"Odisha", "Bhubaneswar", "Cuttack"}},
		{"Punjab", []string{"Punjab", "Chandigarh", "Ludhiana"}},
		{"Rajasthan", []string{"Rajasthan", "Jaipur", "Jodhpur"}},
		{"Sikkim", []string{"Sikkim", "Gangtok"}},
		{"Tamil Nadu", []string{"Tamil Nadu", "Chennai", "Coimbatore"}},
		{"Telangana", []string{"Telangana", "Hyderabad"}},
		{"Tripura", []string{"Tripura", "Agartala"}},
		{"Uttar Pradesh", []string{"Uttar Pradesh", "Lucknow", "Kanpur"}},
		{"Uttarakhand", []string{"Uttarakhand", "Dehradun"}},
		{"West Bengal", []string{"West Bengal", "Kolkata", "Howrah"}},
		{"Delhi", []string{"Delhi", "New Delhi"}},
		{"Jammu & Kashmir", []string{"Kashmir", "Jammu", "Srinagar"}},
		{"Ladakh", []string{"Ladakh", "Leh"}},
		{"Andaman & Nicobar", []string{"Andaman", "Nicobar", "Port Blair"}},
		{"Lakshadweep", []string{"Lakshadweep"}},
	}
}

func indianStateBoxes() []Box {
	return []Box{
		{"Delhi", 28, 30.5, 76.5, 78.5},
		{"Maharashtra", 18.5, 20.5, 72.5, 73.5},
		{"Karnataka", 12.5, 13.5, 77.5, 78.5},
		{"Kerala", 8, 10, 76, 77.5},
		{"Tamil Nadu", 12.5, 13.5, 79.5, 80.5},
		{"West Bengal", 22, 24.5, 87, 89},
		{"Himachal Pradesh", 30.5, 32.5, 76.5, 78},
		{"Uttarakhand", 29.5, 31.5, 78, 80.5},
		{"Assam", 25.5, 27.5, 91, 93},
		{"Rajasthan", 23, 27, 68, 75},
	}
}

func continents() map[string]string {
	return map[string]string{
		"India":            "Asia",
		"China":            "Asia",
		"Japan":            "Asia",
		"Indonesia":        "Asia",
		"Philippines":      "Asia",
		"Pakistan":         "Asia",
		"Afghanistan":      "Asia",
		"Iran":             "Asia",
		"Turkey":           "Asia",
		"Russia":           "Asia",
		"USA":              "North America",
		"Mexico":           "North America",
		"Chile":            "South America",
		"Peru":             "South America",
		"Ecuador":          "South America",
		"UK":               "Europe",
		"Italy":            "Europe",
		"Greece":           "Europe",
		"Australia":        "Oceania",
		"New Zealand":      "Oceania",
		"Papua New Guinea": "Oceania",
		"Fiji":             "Oceania",
		"Tonga":            "Oceania",
		"Vanuatu":          "Oceania",
		"Solomon Islands":  "Oceania",
	}
}
