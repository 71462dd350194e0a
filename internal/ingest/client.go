package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/config"
)

// Business is one listing returned by the vendor search API.
type Business struct {
	Name       string
	Address    string
	Phone      string
	ImageURL   string
	Latitude   float64
	Longitude  float64
	Categories []string
}

// SearchPage is one page of listings plus the vendor-reported total.
type SearchPage struct {
	Businesses []Business
	Total      int
}

// ListingClient fetches pages of restaurant listings for a city.
type ListingClient interface {
	SearchRestaurants(ctx context.Context, city string, offset int) (*SearchPage, error)
}

type httpClient struct {
	baseURL  string
	apiKey   string
	pageSize int
	client   *http.Client
}

// NewHTTPClient builds a listing client against the configured vendor API.
func NewHTTPClient(cfg config.ListingsConfig) (ListingClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("listings base url is required")
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return &httpClient{
		baseURL:  base,
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		client:   &http.Client{Timeout: cfg.HTTPTimeout},
	}, nil
}

// vendor wire format (business search endpoint)
type searchResponse struct {
	Total      int              `json:"total"`
	Businesses []wireBusinesses `json:"businesses"`
}

type wireBusinesses struct {
	Name         string   `json:"name"`
	DisplayPhone string   `json:"display_phone"`
	ImageURL     string   `json:"image_url"`
	Location     struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Categories []struct {
		Title string `json:"title"`
	} `json:"categories"`
}

func (c *httpClient) SearchRestaurants(ctx context.Context, city string, offset int) (*SearchPage, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}

	query := url.Values{}
	query.Set("term", "restaurant")
	query.Set("location", city)
	query.Set("limit", strconv.Itoa(c.pageSize))
	query.Set("offset", strconv.Itoa(offset))

	endpoint := c.baseURL + "/businesses/search?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search restaurants: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search restaurants: unexpected status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	page := &SearchPage{Total: payload.Total}
	for _, wire := range payload.Businesses {
		business := Business{
			Name:      wire.Name,
			Address:   strings.Join(wire.Location.DisplayAddress, " "),
			Phone:     wire.DisplayPhone,
			ImageURL:  wire.ImageURL,
			Latitude:  wire.Coordinates.Latitude,
			Longitude: wire.Coordinates.Longitude,
		}
		for _, category := range wire.Categories {
			if category.Title != "" {
				business.Categories = append(business.Categories, category.Title)
			}
		}
		page.Businesses = append(page.Businesses, business)
	}
	return page, nil
}
