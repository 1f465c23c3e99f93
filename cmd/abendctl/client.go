package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"abend-assist-be/internal/pkg/serverutils"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// sendRequest calls the API and decodes the response envelope into out.
func sendRequest[T any](method, url, token string, body interface{}) (*serverutils.BaseResponse[T], error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out serverutils.BaseResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s %s: %s", method, url, resp.Status)
	}
	if !out.Success {
		return &out, fmt.Errorf("%s %s: %d %s", method, url, out.Code, out.Message)
	}
	return &out, nil
}

func apiURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
