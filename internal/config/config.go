package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/ethos-app/ethos-backend/internal/models"
)

const (
	defaultPort               = "8080"
	defaultTimeZone           = "Asia/Kolkata"
	defaultLeaderboardMaxDays = 400
	defaultEntryPageSize      = 200
	defaultRetentionDays      = 45
)

// DefaultLeaderboardPriority orders the most common shared tracks first.
var DefaultLeaderboardPriority = []string{
	`{"name":"Water","type":"COUNTER_INCREMENT","unit":"ml","cadence":"daily","target":{"mode":"value","value":3000},"config":{"incrementStep":250}}`,
	`{"name":"Steps","type":"COUNTER_INCREMENT","unit":"steps","cadence":"daily","target":{"mode":"value","value":10000}}`,
	`{"name":"Workout","type":"BOOLEAN","unit":"times","cadence":"weekly","target":{"mode":"count","value":3},"config":{"booleanMode":"count"}}`,
	`{"name":"Journal","type":"TEXT_APPEND","unit":"entries","cadence":"daily","target":{"mode":"count","value":0}}`,
}

type Config struct {
	ProjectID       string
	LogLevel        string
	Port            string
	DefaultTimeZone string

	LeaderboardExcludedTypes []models.TrackType
	LeaderboardPriority      []string
	LeaderboardMaxDays       int
	EntryPageSize            int
	RetentionDays            int

	// cmd/rebuild only
	RebuildUID  string
	RebuildFrom string
	RebuildTo   string
}

func New() *Config {
	return &Config{
		ProjectID:                os.Getenv("PROJECTID"),
		LogLevel:                 os.Getenv("LOGLEVEL"),
		Port:                     getString("PORT", defaultPort),
		DefaultTimeZone:          getString("DEFAULTTIMEZONE", defaultTimeZone),
		LeaderboardExcludedTypes: getTrackTypes("LEADERBOARDEXCLUDEDTYPES", []models.TrackType{models.TrackNumber}),
		LeaderboardPriority:      getJSONList("LEADERBOARDPRIORITY", DefaultLeaderboardPriority),
		LeaderboardMaxDays:       getInt("LEADERBOARDMAXDAYS", defaultLeaderboardMaxDays),
		EntryPageSize:            getInt("ENTRYPAGESIZE", defaultEntryPageSize),
		RetentionDays:            getInt("RETENTIONDAYS", defaultRetentionDays),
		RebuildUID:               os.Getenv("REBUILDUID"),
		RebuildFrom:              os.Getenv("REBUILDFROM"),
		RebuildTo:                os.Getenv("REBUILDTO"),
	}
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getTrackTypes(key string, fallback []models.TrackType) []models.TrackType {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []models.TrackType
	for _, part := range strings.Split(raw, ",") {
		if t := models.TrackType(strings.TrimSpace(part)); t.Valid() {
			out = append(out, t)
		}
	}
	return out
}

// getJSONList reads a JSON array of strings; unparseable values fall back.
func getJSONList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return fallback
	}
	return out
}
