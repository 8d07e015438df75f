package catalog

import (
	"strings"

	"github.com/skinfridge/fridge/internal/domain"
)

// scraperPlaceholders are the values the backend scraper stores when a field is missing
var scraperPlaceholders = map[string]bool{
	"Brand not found":       true,
	"Name not found":        true,
	"Description not found": true,
}

type productDTO struct {
	ID          string   `json:"id"`
	MongoID     string   `json:"_id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Ingredients []string `json:"ingredients"`
}

type searchResultDTO struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Description string `json:"description"`
	Image       string `json:"image"`
	URL         string `json:"url"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results []searchResultDTO `json:"results"`
}

type addProductRequest struct {
	ProductURL string `json:"product_url"`
}

type skinTypeRequest struct {
	SkinType string `json:"skinType"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// MapProduct converts a backend product to the domain Product
func MapProduct(dto productDTO) domain.Product {
	id := strings.TrimSpace(dto.ID)
	if id == "" {
		id = strings.TrimSpace(dto.MongoID)
	}

	ingredients := make([]string, 0, len(dto.Ingredients))
	for _, ingredient := range dto.Ingredients {
		if ingredient = strings.TrimSpace(ingredient); ingredient != "" {
			ingredients = append(ingredients, ingredient)
		}
	}

	return domain.Product{
		ID:          id,
		Name:        cleanField(dto.Name),
		Brand:       cleanField(dto.Brand),
		Description: cleanField(dto.Description),
		Image:       strings.TrimSpace(dto.Image),
		Ingredients: ingredients,
	}
}

// MapProducts converts a backend product list, never returning nil
func MapProducts(dtos []productDTO) []domain.Product {
	products := make([]domain.Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, MapProduct(dto))
	}
	return products
}

// MapSearchResults converts search hits, dropping those without a product url
func MapSearchResults(dtos []searchResultDTO) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(dtos))
	for _, dto := range dtos {
		productURL := strings.TrimSpace(dto.URL)
		if productURL == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			Name:        cleanField(dto.Name),
			Brand:       cleanField(dto.Brand),
			Description: cleanField(dto.Description),
			Image:       strings.TrimSpace(dto.Image),
			URL:         productURL,
		})
	}
	return results
}

// cleanField trims a text field and blanks scraper placeholders
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if scraperPlaceholders[s] {
		return ""
	}
	return s
}
