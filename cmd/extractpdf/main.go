package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/edu-empower/backend/config"
	"github.com/edu-empower/backend/services"
	"github.com/joho/godotenv"
	"golang.org/x/net/html"
)

// extractpdf walks the media host's index page, downloads every linked
// income-certificate PDF, extracts the holder name and income, and posts
// the result to the backend so it lands on the matching student profile.

var httpClient = &http.Client{Timeout: 60 * time.Second}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if env.MEDIA_HOST_URL == "" {
		log.Fatal("MEDIA_HOST_URL environment variable is not set")
	}

	backendURL := env.BACKEND_URL
	if backendURL == "" {
		backendURL = fmt.Sprintf("http://localhost:%d", env.PORT)
	}

	pdfLinks, err := collectPDFLinks(env.MEDIA_HOST_URL)
	if err != nil {
		log.Fatalf("Failed to list PDFs from %s: %v", env.MEDIA_HOST_URL, err)
	}

	log.Printf("Found %d PDF link(s) on %s", len(pdfLinks), env.MEDIA_HOST_URL)

	var processed, failed int
	for _, link := range pdfLinks {
		if err := processPDF(link, backendURL); err != nil {
			log.Printf("Skipping %s: %v", link, err)
			failed++
			continue
		}
		processed++
	}

	log.Printf("Done: %d processed, %d skipped", processed, failed)
}

// collectPDFLinks fetches the index page and returns absolute URLs of all
// anchor tags pointing at PDF files
func collectPDFLinks(indexURL string) ([]string, error) {
	resp, err := httpClient.Get(indexURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index page returned %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, err
	}

	var links []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if !strings.HasSuffix(strings.ToLower(href), ".pdf") {
					continue
				}
				ref, err := url.Parse(href)
				if err != nil {
					continue
				}
				abs := base.ResolveReference(ref).String()
				if !seen[abs] {
					seen[abs] = true
					links = append(links, abs)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return links, nil
}

// processPDF downloads one PDF, extracts the income record and posts it to
// the backend
func processPDF(link, backendURL string) error {
	resp, err := httpClient.Get(link)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}

	text, err := services.ExtractTextFromPDFBytes(content)
	if err != nil {
		return fmt.Errorf("text extraction failed: %w", err)
	}

	record, err := services.ExtractIncomeRecord(text)
	if err != nil {
		return fmt.Errorf("income extraction failed: %w", err)
	}

	log.Printf("Extracted from %s: name=%q income=%.2f", link, record.Name, record.Income)

	return postIncomeRecord(backendURL, record)
}

// postIncomeRecord submits the extracted pair to the backend
func postIncomeRecord(backendURL string, record *services.IncomeRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}

	endpoint := strings.TrimRight(backendURL, "/") + "/api/v1/students/income-extraction"
	resp, err := httpClient.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
