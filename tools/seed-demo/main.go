// Command seed-demo populates a running instance with demo users, rooms,
// and meetings over the HTTP API, then prints a suggestions response for
// the seeded participants.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

func main() {
	var (
		baseURL  = flag.String("base-url", getenv("BASE_URL", "http://localhost:8080"), "service base url")
		duration = flag.String("duration", getenv("DURATION", "1H"), "meeting duration spec, e.g. 1H30M")
	)
	flag.Parse()

	api := strings.TrimRight(*baseURL, "/") + "/api/v1"

	users := []map[string]string{
		{"email": "ada@example.com", "given_name": "Ada", "family_name": "Lovelace"},
		{"email": "grace@example.com", "given_name": "Grace", "family_name": "Hopper"},
	}
	for _, u := range users {
		post(api+"/users", u)
	}

	rooms := []map[string]any{
		{"name": "aquarium", "resources": []string{"projector", "whiteboard"}},
		{"name": "boardroom", "resources": []string{"whiteboard"}},
	}
	for _, r := range rooms {
		post(api+"/rooms", r)
	}

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.UTC)
	post(api+"/meetings", map[string]any{
		"name":         "demo standup",
		"start_time":   start.Format(time.RFC3339),
		"end_time":     start.Add(30 * time.Minute).Format(time.RFC3339),
		"room":         "aquarium",
		"participants": []string{"ada@example.com", "grace@example.com"},
	})

	q := url.Values{}
	q.Set("participants", "ada@example.com,grace@example.com")
	q.Set("duration", *duration)
	resp, err := http.Get(api + "/schedule/suggestions?" + q.Encode())
	if err != nil {
		fatal(err.Error())
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("suggestions status=%d\n%s\n", resp.StatusCode, body)
}

func post(target string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fatal(err.Error())
	}
	resp, err := http.Post(target, "application/json", bytes.NewReader(body))
	if err != nil {
		fatal(err.Error())
	}
	defer resp.Body.Close()
	// 409s are fine on re-runs; the seed data already exists.
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusConflict {
		msg, _ := io.ReadAll(resp.Body)
		fatal(fmt.Sprintf("POST %s: status=%d body=%s", target, resp.StatusCode, msg))
	}
	fmt.Printf("POST %s status=%d\n", target, resp.StatusCode)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
