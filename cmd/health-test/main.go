package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Services  struct {
		Database struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		} `json:"database"`
	} `json:"services"`
}

func newClient() *resty.Client {
	return resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(time.Second)
}

// checkHealth fetches the health endpoint and reports why it is unhealthy, if it is.
func checkHealth(client *resty.Client, url string) (*HealthResponse, error) {
	var health HealthResponse
	resp, err := client.R().
		SetResult(&health).
		SetError(&health).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to health endpoint: %w", err)
	}

	if resp.StatusCode() != 200 {
		if health.Services.Database.Error != "" {
			return &health, fmt.Errorf("health check failed with status %d: database error: %s", resp.StatusCode(), health.Services.Database.Error)
		}
		return &health, fmt.Errorf("health check failed with status %d", resp.StatusCode())
	}
	if health.Status != "ok" {
		return &health, fmt.Errorf("health status is not 'ok': %s", health.Status)
	}
	if health.Services.Database.Status != "ok" {
		return &health, fmt.Errorf("database status is not 'ok': %s", health.Services.Database.Status)
	}
	return &health, nil
}

func main() {
	url := "http://localhost:8080/health"
	if len(os.Args) > 1 {
		url = os.Args[1]
	}

	fmt.Printf("🔍 Testing health endpoint: %s\n", url)

	health, err := checkHealth(newClient(), url)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Health check passed!\n")
	fmt.Printf("   Status: %s\n", health.Status)
	fmt.Printf("   Version: %s\n", health.Version)
	fmt.Printf("   Database: %s\n", health.Services.Database.Status)
	fmt.Printf("   Timestamp: %s\n", health.Timestamp)
}
