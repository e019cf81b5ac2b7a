package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Smoke client for a running server: posts one query and prints the titles.
func main() {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	query := "Action movies"
	if len(os.Args) > 1 {
		query = strings.Join(os.Args[1:], " ")
	}

	client := &http.Client{Timeout: 2 * time.Minute}

	fmt.Println("1. Checking health...")
	resp, err := client.Get(baseURL + "/healthz")
	if err != nil {
		fmt.Printf("FAILED: health check: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("FAILED: health check returned %d\n", resp.StatusCode)
		os.Exit(1)
	}
	fmt.Println("PASSED: health check")

	fmt.Printf("2. Querying %q...\n", query)
	resp, err = client.PostForm(baseURL+"/query", url.Values{"query": {query}})
	if err != nil {
		fmt.Printf("FAILED: query: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("FAILED: query returned %d: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var titles []string
	if err := json.Unmarshal(body, &titles); err != nil {
		fmt.Printf("FAILED: response is not a list of titles: %s\n", string(body))
		os.Exit(1)
	}
	for _, title := range titles {
		fmt.Println("  -", title)
	}
	fmt.Printf("PASSED: %d titles\n", len(titles))
}
