// Command smoke walks a running server through register, login and note CRUD.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

var baseURL = flag.String("base", "http://localhost:5000/api", "API base URL")

type step struct {
	name   string
	method string
	path   string
	body   interface{}
	want   int
}

func prettyPrint(body []byte) {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(out.String())
}

func sendRequest(client *http.Client, method, path, token string, body interface{}) (int, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, *baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, err
}

func run(client *http.Client, token string, s step) []byte {
	color.Yellow("\n%s", s.name)
	status, body, err := sendRequest(client, s.method, s.path, token, s.body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if status != s.want {
		color.Red("Status: %d (want %d)", status, s.want)
		prettyPrint(body)
		os.Exit(1)
	}
	color.Green("Status: %d", status)
	prettyPrint(body)
	return body
}

func main() {
	flag.Parse()
	client := &http.Client{Timeout: 10 * time.Second}
	email := "smoke-" + uuid.NewString()[:8] + "@example.com"

	color.Cyan("Notes API smoke test against %s", *baseURL)

	run(client, "", step{"1. Health", http.MethodGet, "/health", nil, http.StatusOK})
	run(client, "", step{"2. Register", http.MethodPost, "/auth/register",
		map[string]string{"name": "Smoke", "email": email, "password": "secret1"}, http.StatusCreated})

	var auth struct {
		Token string `json:"token"`
	}
	loginBody := run(client, "", step{"3. Login", http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": "secret1"}, http.StatusOK})
	if err := json.Unmarshal(loginBody, &auth); err != nil || auth.Token == "" {
		color.Red("No token in login response")
		os.Exit(1)
	}

	var note struct {
		Id string `json:"_id"`
	}
	created := run(client, auth.Token, step{"4. Create note", http.MethodPost, "/notes",
		map[string]string{"title": "Shopping", "content": "milk, eggs"}, http.StatusCreated})
	if err := json.Unmarshal(created, &note); err != nil {
		color.Red("Bad note response: %v", err)
		os.Exit(1)
	}

	run(client, auth.Token, step{"5. Search notes", http.MethodGet, "/notes?search=milk", nil, http.StatusOK})
	run(client, auth.Token, step{"6. Update note", http.MethodPut, "/notes/" + note.Id,
		map[string]string{"content": "milk, eggs, bread"}, http.StatusOK})
	run(client, auth.Token, step{"7. Delete note", http.MethodDelete, "/notes/" + note.Id, nil, http.StatusOK})
	run(client, auth.Token, step{"8. Delete again", http.MethodDelete, "/notes/" + note.Id, nil, http.StatusNotFound})

	color.Cyan("\nAll steps passed")
}
