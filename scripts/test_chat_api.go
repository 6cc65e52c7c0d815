//go:build ignore

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

var baseURL = envOr("API_BASE_URL", "http://localhost:8000/api")

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func sendRequest(method, path string, body interface{}) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := os.Getenv("API_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func step(title, method, path string, body interface{}) {
	color.Yellow("\n%s", title)
	resp, raw, err := sendRequest(method, path, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}
	prettyPrint(raw)
}

func main() {
	color.Cyan("🚀 Storefront chat smoke test against %s\n", baseURL)
	userId := fmt.Sprintf("smoke-%d", time.Now().Unix())

	step("1. Catalog: list products matching 'watch'", "GET", "/products?q=watch&limit=5", nil)
	step("2. Chat: discount request", "POST", "/chat", map[string]string{
		"message": "show me a deal on headphones",
		"userId":  userId,
	})
	step("3. Chat: no match", "POST", "/chat", map[string]string{
		"message": "xyz nonexistent gadget",
		"userId":  userId,
	})
	step("4. Chat: missing userId keeps the reply shape", "POST", "/chat", map[string]string{
		"message": "watch",
	})
	step("5. Assistant: model picks from candidates", "POST", "/chat/assistant", map[string]interface{}{
		"message":  "I need something to track my runs",
		"products": []map[string]interface{}{{"id": 1, "name": "Smart Watch", "price": 199}, {"id": 2, "name": "Laptop Sleeve", "price": 19.99}},
		"deals":    []map[string]interface{}{{"id": 7, "name": "Fitness Band", "discount": "20%"}},
	})
	step("6. Insights", "GET", "/chat/insights", nil)

	color.Cyan("\n✅ Done")
}
