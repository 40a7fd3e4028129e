package main

import (
	"encoding/json"
	"testing"

	"watchfilter/internal/api"
)

func TestChannelsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"channels", "--kind", "movie"}, env.configPath)
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	requireContains(t, out, "Netflix")
	requireContains(t, out, "Disney Plus")
	requireContains(t, out, "3 channels in US")

	out, _, err = runCLI(t, []string{"channels", "netflx"}, env.configPath)
	if err != nil {
		t.Fatalf("channels query: %v", err)
	}
	requireContains(t, out, "Netflix")
	requireNotContains(t, out, "Apple TV")
}

func TestAvailabilityCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"availability", "movie", "604"}, env.configPath)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	requireContains(t, out, "rental")
	requireContains(t, out, "purchase")
	requireContains(t, out, "Apple TV")

	out, _, err = runCLI(t, []string{"availability", "movie", "999"}, env.configPath)
	if err != nil {
		t.Fatalf("availability unknown: %v", err)
	}
	requireContains(t, out, "not available")

	if _, _, err := runCLI(t, []string{"availability", "movie", "abc"}, env.configPath); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
	if _, _, err := runCLI(t, []string{"availability", "movie", "605"}, env.configPath); err == nil {
		t.Fatal("expected upstream failure to surface")
	}
}

func TestFilterCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"filter", "matrix", "--channel", "netflix"}, env.configPath)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	requireContains(t, out, "The Matrix")
	requireNotContains(t, out, "Reloaded")
	requireContains(t, out, "1 of 3 results on Netflix")
	if hits := env.tmdb.Hits("/movie/603/watch/providers"); hits != 1 {
		t.Fatalf("expected one provider lookup for filter and attached availability, got %d", hits)
	}

	out, _, err = runCLI(t, []string{"filter", "matrix"}, env.configPath)
	if err != nil {
		t.Fatalf("filter without channel: %v", err)
	}
	requireContains(t, out, "Reloaded")
	requireContains(t, out, "Revolutions")
	requireContains(t, out, "3 of 3 results")
	if hits := env.tmdb.Hits("/movie/604/watch/providers"); hits != 1 {
		t.Fatalf("expected unfiltered search to skip provider lookups, got %d", hits)
	}
}

func TestFilterCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "filter", "matrix", "--channel", "2", "--tier", "rental"}, env.configPath)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	var resp api.FilterResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if resp.Matched != 1 || len(resp.Items) != 1 || resp.Items[0].ID != 604 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Items[0].Availability == nil || len(resp.Items[0].Availability.Rental) != 1 {
		t.Fatalf("expected rental availability attached, got %+v", resp.Items[0].Availability)
	}
}

func TestFilterCommandRejectsTierWithoutChannel(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"filter", "matrix", "--tier", "rental"}, env.configPath); err == nil {
		t.Fatal("expected error")
	}
}

func TestCacheCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "cache"}, env.configPath)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	var status api.CacheStatus
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if status.Entries != 0 || status.TTLSeconds <= 0 {
		t.Fatalf("unexpected status: %+v", status)
	}
}
