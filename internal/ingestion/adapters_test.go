package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-disaster-feed/internal/models"
)

const usgsBody = `{
  "type": "FeatureCollection",
  "features": [
    {"id": "us7000abcd", "properties": {"mag": 7.2, "place": "Tokyo, Japan", "time": 1700000000000, "title": "M 7.2 - Tokyo, Japan", "url": "https://earthquake.usgs.gov/us7000abcd"}, "geometry": {"coordinates": [139.69, 35.68, 24.5]}},
    {"id": "ci123", "properties": {"mag": 4.5, "place": "10km NE of Ridgecrest, CA", "time": 1700000100000, "title": "M 4.5"}, "geometry": {"coordinates": [-117.6, 35.7, 8]}},
    {"id": "ak456", "properties": {"mag": 3.1, "place": "Shimla, Himachal Pradesh, India", "time": 1700000200000}, "geometry": {"coordinates": [77.17, 31.1, 10]}},
    {"id": "small", "properties": {"mag": 2.5, "place": "Nevada", "time": 1700000300000}, "geometry": {"coordinates": [-117, 38, 5]}},
    {"id": "nomag", "properties": {"mag": null, "place": "Nevada", "time": 1700000300000}, "geometry": {"coordinates": [-117, 38, 5]}}
  ]
}`

func TestUSGS_Fetch(t *testing.T) {
	srv := serve(t, http.StatusOK, "application/geo+json", usgsBody)

	records, err := NewUSGS(testOptions(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3, "magnitude <= 2.5 and null magnitudes are dropped")

	tokyo := records[0]
	assert.Equal(t, "usgs_us7000abcd", tokyo.ID)
	assert.Equal(t, models.KindEarthquake, tokyo.Kind)
	assert.Equal(t, models.SeverityHigh, tokyo.Severity)
	assert.Equal(t, "Japan", tokyo.Country)
	assert.Empty(t, tokyo.State)
	require.NotNil(t, tokyo.Magnitude)
	assert.Equal(t, 7.2, *tokyo.Magnitude)
	require.NotNil(t, tokyo.Depth)
	assert.Equal(t, 24.5, *tokyo.Depth)
	require.NotNil(t, tokyo.Coordinates)
	assert.Equal(t, 35.68, tokyo.Coordinates.Latitude)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), tokyo.ObservedAt)

	ridgecrest := records[1]
	assert.Equal(t, models.SeverityMedium, ridgecrest.Severity)
	assert.Equal(t, "USA", ridgecrest.Country, "falls back to coordinates when text does not match")

	shimla := records[2]
	assert.Equal(t, models.SeverityLow, shimla.Severity)
	assert.Equal(t, "India", shimla.Country)
	assert.Equal(t, "Himachal Pradesh", shimla.State)
}

func TestQuakeSeverity(t *testing.T) {
	assert.Equal(t, models.SeverityHigh, quakeSeverity(6.1))
	assert.Equal(t, models.SeverityMedium, quakeSeverity(6))
	assert.Equal(t, models.SeverityMedium, quakeSeverity(4.1))
	assert.Equal(t, models.SeverityLow, quakeSeverity(4))
}

func TestNOAA_Fetch(t *testing.T) {
	body := `{"features": [
	  {"id": "https://api.weather.gov/alerts/urn:1", "properties": {"id": "urn:1", "areaDesc": "Harris, TX", "severity": "Severe", "event": "Flash Flood Warning", "headline": "Flash Flood Warning issued", "sent": "2024-10-01T10:00:00-05:00"}},
	  {"id": "https://api.weather.gov/alerts/urn:2", "properties": {"id": "urn:2", "areaDesc": "", "severity": "Minor", "event": "Frost Advisory", "sent": "bad"}},
	  {"id": "https://api.weather.gov/alerts/urn:3", "properties": {"id": "urn:3", "areaDesc": "Coastal Maine", "severity": "Unknown", "event": "Special Weather Statement"}}
	]}`
	srv := serve(t, http.StatusOK, "application/geo+json", body)

	records, err := NewNOAA(testOptions(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "noaa_urn:1", records[0].ID)
	assert.Equal(t, models.SeverityHigh, records[0].Severity)
	assert.Equal(t, "USA", records[0].Country)
	assert.Equal(t, "Flash Flood Warning issued", records[0].Description)
	assert.Equal(t, 15, records[0].ObservedAt.UTC().Hour())

	assert.Equal(t, "Unknown Location", records[1].Location)
	assert.Equal(t, models.SeverityLow, records[1].Severity)
	assert.Equal(t, "Frost Advisory", records[1].Description)

	assert.Equal(t, models.SeverityMedium, records[2].Severity)
}

func TestNOAA_LimitsToTenAlerts(t *testing.T) {
	body := `{"features": [`
	for i := 0; i < 15; i++ {
		if i > 0 {
			body += ","
		}
		body += `{"id": "x` + string(rune('a'+i)) + `", "properties": {"severity": "Moderate"}}`
	}
	body += `]}`
	srv := serve(t, http.StatusOK, "application/geo+json", body)

	records, err := NewNOAA(testOptions(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 10)
}

func TestNOAASeverity(t *testing.T) {
	assert.Equal(t, models.SeverityHigh, noaaSeverity("Extreme"))
	assert.Equal(t, models.SeverityHigh, noaaSeverity("severe"))
	assert.Equal(t, models.SeverityMedium, noaaSeverity("Moderate"))
	assert.Equal(t, models.SeverityLow, noaaSeverity("Minor"))
	assert.Equal(t, models.SeverityMedium, noaaSeverity(""))
}

func TestFIRMS_Fetch(t *testing.T) {
	body := "latitude,longitude,brightness,scan,track,acq_date,acq_time,satellite,confidence,version,bright_t31,frp,daynight\n" +
		"30.0668,79.0193,330.5,1.0,1.0,2024-10-01,0835,Terra,85,6.1NRT,290.1,12.3,D\n" +
		"-33.86,151.2,310.2,1.0,1.0,2024-10-01,45,Aqua,62,6.1NRT,288.0,8.1,N\n" +
		"10.0,10.0,300.0,1.0,1.0,2024-10-01,1200,Aqua,20,6.1NRT,280.0,3.0,D\n" +
		"bad,row,300.0,1.0,1.0,2024-10-01,1200,Aqua,90,6.1NRT,280.0,3.0,D\n"
	srv := serve(t, http.StatusOK, "text/csv", body)

	records, err := NewFIRMS(testOptions(srv.URL), "").Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "low confidence and unparseable rows are skipped")

	fire := records[0]
	assert.Equal(t, models.KindWildfire, fire.Kind)
	assert.Equal(t, models.SeverityHigh, fire.Severity)
	assert.Equal(t, "India", fire.Country)
	assert.Equal(t, "Uttarakhand", fire.State)
	require.NotNil(t, fire.Confidence)
	assert.Equal(t, 85.0, *fire.Confidence)
	require.NotNil(t, fire.Brightness)
	assert.Equal(t, 330.5, *fire.Brightness)
	assert.Equal(t, time.Date(2024, 10, 1, 8, 35, 0, 0, time.UTC), fire.ObservedAt)

	assert.Equal(t, models.SeverityMedium, records[1].Severity)
	assert.Equal(t, "Australia", records[1].Country)
	assert.Equal(t, time.Date(2024, 10, 1, 0, 45, 0, 0, time.UTC), records[1].ObservedAt)
}

func TestFIRMS_MissingColumnsIsDecodeError(t *testing.T) {
	srv := serve(t, http.StatusOK, "text/csv", "foo,bar\n1,2\n")

	_, err := NewFIRMS(testOptions(srv.URL), "").Fetch(context.Background())

	fe, ok := err.(*FetchError)
	require.True(t, ok)
	assert.Equal(t, StageDecode, fe.Stage)
}

func TestNewFIRMS_MapKeySelectsAreaAPI(t *testing.T) {
	s := NewFIRMS(Options{Tagger: testTagger}, "abc123")
	assert.Equal(t, "https://firms.modaps.eosdis.nasa.gov/api/area/csv/abc123/MODIS_NRT/world/1", s.url)

	s = NewFIRMS(Options{Tagger: testTagger}, "")
	assert.Equal(t, FIRMSDefaultURL, s.url)
}

func TestFirmsConfidence(t *testing.T) {
	v, ok := firmsConfidence("h")
	assert.True(t, ok)
	assert.Equal(t, 90.0, v)

	v, ok = firmsConfidence("72")
	assert.True(t, ok)
	assert.Equal(t, 72.0, v)

	_, ok = firmsConfidence("")
	assert.False(t, ok)
}

func TestTsunami_Fetch(t *testing.T) {
	body := `[
	  {"eventId": "PAAQ-1", "location": "Andaman Islands, India", "magnitude": 7.8, "time": "2024-10-01T10:00:00Z", "waveHeight": 2.1},
	  {"location": "", "magnitude": "6.9", "waveHeight": "Unknown"},
	  {"eventId": 42, "location": "Off the coast of Honshu", "magnitude": 7.1},
	  {"eventId": "4"}, {"eventId": "5"}, {"eventId": "6"}
	]`
	srv := serve(t, http.StatusOK, "application/json", body)

	src := NewTsunami(testOptions(srv.URL))
	src.newID = func() string { return "generated" }

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, "tsunami_PAAQ-1", records[0].ID)
	assert.Equal(t, models.SeverityHigh, records[0].Severity)
	assert.Equal(t, "India", records[0].Country)
	assert.Equal(t, "Andaman & Nicobar", records[0].State)
	require.NotNil(t, records[0].WaveHeight)
	assert.Equal(t, 2.1, *records[0].WaveHeight)

	assert.Equal(t, "tsunami_generated", records[1].ID)
	assert.Equal(t, "Pacific Ocean", records[1].Location)
	assert.Equal(t, models.SeverityMedium, records[1].Severity)
	require.NotNil(t, records[1].Magnitude)
	assert.Equal(t, 6.9, *records[1].Magnitude)
	assert.Nil(t, records[1].WaveHeight)

	assert.Equal(t, "tsunami_42", records[2].ID)
	assert.Equal(t, "Japan", records[2].Country)
}

func TestTsunami_DefaultIDsAreUnique(t *testing.T) {
	srv := serve(t, http.StatusOK, "application/json", `[{"magnitude": 7}, {"magnitude": 7}]`)

	records, err := NewTsunami(testOptions(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestEONET_Storms(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query = map[string]string{"category": q.Get("category"), "status": q.Get("status"), "limit": q.Get("limit")}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"events": [
		  {"id": "EONET_1", "title": "Tropical Storm Test", "link": "https://eonet/EONET_1", "geometry": [
		    {"date": "2024-10-01T00:00:00Z", "type": "Point", "coordinates": [140.0, 20.0]},
		    {"date": "2024-10-02T00:00:00Z", "type": "Point", "coordinates": [88.0, 23.0]}
		  ]},
		  {"id": "EONET_2", "title": "Storm Without Track", "geometry": []}
		]}`))
	}))
	t.Cleanup(srv.Close)

	records, err := NewEONETStorms(testOptions(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"category": "storms", "status": "open", "limit": "8"}, query)
	require.Len(t, records, 2)

	storm := records[0]
	assert.Equal(t, "eonet_EONET_1", storm.ID)
	assert.Equal(t, models.KindCyclone, storm.Kind)
	assert.Equal(t, models.SeverityHigh, storm.Severity)
	require.NotNil(t, storm.Category)
	assert.Equal(t, 2, *storm.Category)
	require.NotNil(t, storm.WindSpeed)
	assert.Equal(t, 120.0, *storm.WindSpeed)
	assert.Equal(t, "India", storm.Country, "latest position is used")
	assert.Equal(t, "West Bengal", storm.State)
	assert.Equal(t, time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC), storm.ObservedAt)
	assert.Equal(t, "Storm system detected", storm.Description)

	assert.Nil(t, records[1].Coordinates)
	assert.Equal(t, "Other", records[1].Country)
}

func TestEONET_Volcanoes(t *testing.T) {
	var category string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		category = r.URL.Query().Get("category")
		_, _ = w.Write([]byte(`{"events": [
		  {"id": "EONET_9", "title": "Sakurajima Volcano, Japan", "geometry": [
		    {"date": "2024-10-01T00:00:00Z", "type": "Polygon", "coordinates": [[[130.6, 31.5], [130.7, 31.6], [130.6, 31.6], [130.6, 31.5]]]}
		  ]}
		]}`))
	}))
	t.Cleanup(srv.Close)

	records, err := NewEONETVolcanoes(testOptions(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "volcanoes", category)
	assert.Equal(t, models.KindVolcano, records[0].Kind)
	assert.Equal(t, models.SeverityHigh, records[0].Severity)
	require.NotNil(t, records[0].AlertLevel)
	assert.Equal(t, 3, *records[0].AlertLevel)
	assert.Equal(t, "Japan", records[0].Country)
	require.NotNil(t, records[0].Coordinates)
	assert.Equal(t, 31.5, records[0].Coordinates.Latitude)
}

func TestReliefWeb_Fetch(t *testing.T) {
	var filterValue, limit, appname string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filterValue, limit, appname = q.Get("filter[value]"), q.Get("limit"), q.Get("appname")
		_, _ = w.Write([]byte(`{"data": [
		  {"id": "51234", "fields": {"name": "India: Floods and Landslides - Jul 2024 (Assam)", "country": [{"name": "India"}], "date": {"created": "2024-07-30T00:00:00+00:00"}}},
		  {"id": 51235, "fields": {"name": "", "country": [{"name": "United States of America"}]}},
		  {"id": "51236", "fields": {"name": "Unknown flood"}}
		]}`))
	}))
	t.Cleanup(srv.Close)

	records, err := NewReliefWebFloods(testOptions(srv.URL + "/v1/disasters?appname=terraAlert")).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Flood", filterValue)
	assert.Equal(t, "8", limit)
	assert.Equal(t, "terraAlert", appname)
	require.Len(t, records, 3)

	assert.Equal(t, "reliefweb_51234", records[0].ID)
	assert.Equal(t, models.KindFlood, records[0].Kind)
	assert.Equal(t, models.SeverityMedium, records[0].Severity)
	assert.Equal(t, "India", records[0].Country)
	assert.Equal(t, "Assam", records[0].State)
	assert.Equal(t, time.Date(2024, 7, 30, 0, 0, 0, 0, time.UTC), records[0].ObservedAt)

	assert.Equal(t, "reliefweb_51235", records[1].ID)
	assert.Equal(t, "USA", records[1].Country)
	assert.Equal(t, "Flood event", records[1].Description)

	assert.Equal(t, "Unknown Location", records[2].Location)
	assert.Equal(t, "Unknown", records[2].Country)
}

func TestReliefWeb_LandslidesAreHighSeverity(t *testing.T) {
	srv := serve(t, http.StatusOK, "application/json", `{"data": [{"id": "1", "fields": {"name": "Nepal: Landslides", "country": [{"name": "Nepal"}]}}]}`)

	records, err := NewReliefWebLandslides(testOptions(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.KindLandslide, records[0].Kind)
	assert.Equal(t, models.SeverityHigh, records[0].Severity)
	assert.Equal(t, "Nepal", records[0].Country)
}

const gdacsBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:gdacs="http://www.gdacs.org" xmlns:geo="http://www.w3.org/2003/01/geo/wgs84_pos#" xmlns:georss="http://www.georss.org/georss">
<channel>
<title>GDACS RSS information</title>
<item>
  <title>Green flood alert in Assam, India</title>
  <description>Flooding along the Brahmaputra</description>
  <link>https://www.gdacs.org/report.aspx?eventtype=FL&amp;eventid=1001</link>
  <pubDate>Tue, 01 Oct 2024 10:00:00 GMT</pubDate>
  <guid isPermaLink="false">FL1001</guid>
  <geo:Point><geo:lat>26.1</geo:lat><geo:long>91.7</geo:long></geo:Point>
  <gdacs:eventtype>FL</gdacs:eventtype>
  <gdacs:alertlevel>Green</gdacs:alertlevel>
  <gdacs:eventid>1001</gdacs:eventid>
  <gdacs:country>India</gdacs:country>
</item>
<item>
  <title>Orange earthquake alert in Chile</title>
  <guid isPermaLink="false">EQ2002</guid>
  <gdacs:eventtype>EQ</gdacs:eventtype>
  <gdacs:alertlevel>Orange</gdacs:alertlevel>
  <gdacs:eventid>2002</gdacs:eventid>
</item>
<item>
  <title>Red alert for tropical cyclone near Manila, Philippines</title>
  <guid isPermaLink="false">TC3003</guid>
  <gdacs:eventtype>TC</gdacs:eventtype>
  <gdacs:alertlevel>Red</gdacs:alertlevel>
  <gdacs:eventid>3003</gdacs:eventid>
</item>
</channel>
</rss>`

func TestGDACS_Fetch(t *testing.T) {
	srv := serve(t, http.StatusOK, "application/rss+xml", gdacsBody)

	records, err := NewGDACS(testOptions(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "earthquakes are left to USGS")

	flood := records[0]
	assert.Equal(t, "gdacs_fl_1001", flood.ID)
	assert.Equal(t, models.KindFlood, flood.Kind)
	assert.Equal(t, models.SeverityLow, flood.Severity)
	assert.Equal(t, "India", flood.Country)
	assert.Equal(t, "Assam", flood.State)
	assert.Equal(t, time.Date(2024, 10, 1, 10, 0, 0, 0, time.UTC), flood.ObservedAt)

	cyclone := records[1]
	assert.Equal(t, "gdacs_tc_3003", cyclone.ID)
	assert.Equal(t, models.KindCyclone, cyclone.Kind)
	assert.Equal(t, models.SeverityHigh, cyclone.Severity)
	assert.Equal(t, "Philippines", cyclone.Country)
}

func TestGDACS_MalformedFeedIsDecodeError(t *testing.T) {
	srv := serve(t, http.StatusOK, "application/rss+xml", "this is not a feed")

	_, err := NewGDACS(testOptions(srv.URL)).Fetch(context.Background())

	fe, ok := err.(*FetchError)
	require.True(t, ok)
	assert.Equal(t, StageDecode, fe.Stage)
}
