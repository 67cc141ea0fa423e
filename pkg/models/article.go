package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Article status values.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
	ArticleStatusScheduled = "scheduled" // Auto-promotes to published once publish_at elapses
)

// Article categories. The extraction service is instructed to pick one of
// these; anything it returns outside the set is coerced via NormalizeCategory.
const (
	CategoryModels         = "models"
	CategoryResearch       = "research"
	CategoryBusiness       = "business"
	CategoryFunding        = "funding"
	CategoryPolicy         = "policy"
	CategoryProduct        = "product"
	CategorySafety         = "safety"
	CategoryInfrastructure = "infrastructure"
	CategoryOther          = "other"
)

// Categories lists the closed category vocabulary in prompt order.
var Categories = []string{
	CategoryModels,
	CategoryResearch,
	CategoryBusiness,
	CategoryFunding,
	CategoryPolicy,
	CategoryProduct,
	CategorySafety,
	CategoryInfrastructure,
	CategoryOther,
}

// Article is a stored news article, created either by an admin or by the
// ingestion pipeline. SourceURL is set (and unique) only for ingested articles.
type Article struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Summary   *string    `json:"summary,omitempty"`
	Slug      string     `json:"slug"`
	Category  string     `json:"category"`
	Status    string     `json:"status"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
	SourceURL *string    `json:"source_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// categoryKeywords is evaluated in order; first match wins.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"model", CategoryModels},
	{"llm", CategoryModels},
	{"research", CategoryResearch},
	{"paper", CategoryResearch},
	{"benchmark", CategoryResearch},
	{"fund", CategoryFunding},
	{"invest", CategoryFunding},
	{"valuation", CategoryFunding},
	{"acquisition", CategoryBusiness},
	{"business", CategoryBusiness},
	{"revenue", CategoryBusiness},
	{"regulat", CategoryPolicy},
	{"policy", CategoryPolicy},
	{"law", CategoryPolicy},
	{"government", CategoryPolicy},
	{"product", CategoryProduct},
	{"launch", CategoryProduct},
	{"release", CategoryProduct},
	{"safety", CategorySafety},
	{"alignment", CategorySafety},
	{"ethics", CategorySafety},
	{"chip", CategoryInfrastructure},
	{"datacenter", CategoryInfrastructure},
	{"compute", CategoryInfrastructure},
	{"gpu", CategoryInfrastructure},
}

// NormalizeCategory coerces an extractor-supplied category to the closed
// vocabulary. Exact matches pass through; otherwise keywords are consulted in
// priority order and unmatched values fall back to CategoryOther. The raw
// string is never trusted downstream.
func NormalizeCategory(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range Categories {
		if cleaned == c {
			return c
		}
	}
	for _, kw := range categoryKeywords {
		if strings.Contains(cleaned, kw.keyword) {
			return kw.category
		}
	}
	return CategoryOther
}

// AICategories are the categories whose articles count as AI-related for the
// person-entity contextual filter.
var AICategories = map[string]bool{
	CategoryModels:   true,
	CategoryResearch: true,
	CategorySafety:   true,
}
