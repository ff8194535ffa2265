package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("NASAB_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting smoke test...")

	suffix := fmt.Sprintf("%d", time.Now().Unix())
	root := "family-" + suffix
	branch := "branch-" + suffix

	fmt.Println("1. Creating linked groups...")
	mustStatus(baseURL, "POST", "/groups", map[string]string{"id": root, "name": "آل العمري"}, http.StatusCreated)
	mustStatus(baseURL, "POST", "/groups", map[string]string{"id": branch, "name": "فرع علي", "parent_id": root}, http.StatusCreated)

	fmt.Println("2. Adding members...")
	members := []struct {
		group  string
		person map[string]string
	}{
		{root, map[string]string{"first_name": "محمد", "father_name": "حسن", "family_name": "العمري", "relation": "رب العائلة", "gender": "male"}},
		{root, map[string]string{"first_name": "علي", "father_name": "محمد", "grandfather_name": "حسن", "family_name": "العمري", "relation": "ابن", "gender": "male"}},
		{branch, map[string]string{"first_name": "علي", "father_name": "محمد", "family_name": "العمري", "relation": "رب العائلة", "gender": "male"}},
		{branch, map[string]string{"first_name": "سارة", "father_name": "علي", "grandfather_name": "محمد", "family_name": "العمري", "relation": "بنت", "gender": "female"}},
	}
	for _, m := range members {
		mustStatus(baseURL, "POST", "/groups/"+m.group+"/members", map[string]interface{}{"person": m.person}, http.StatusCreated)
	}

	fmt.Println("3. Resolving a hamza variant...")
	mustStatus(baseURL, "POST", "/resolve", map[string]interface{}{
		"group_id": root,
		"person":   map[string]string{"first_name": "عَلي", "father_name": "مُحمد", "grandfather_name": "حسن", "family_name": "العمري"},
	}, http.StatusOK)

	fmt.Println("4. Fetching federated tree from the branch...")
	mustStatus(baseURL, "GET", "/groups/"+branch+"/tree", nil, http.StatusOK)

	fmt.Println("PASSED")
}

func mustStatus(baseURL, method, endpoint string, payload interface{}, want int) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		fmt.Printf("FAILED: %s %s returned %d: %s\n", method, endpoint, resp.StatusCode, string(respBody))
		os.Exit(1)
	}
	fmt.Printf("Response: %s\n", string(respBody))
}
