package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/krishkalaria12/spot-serve/apperr"
	"github.com/krishkalaria12/spot-serve/dto"
	"github.com/krishkalaria12/spot-serve/repositories"
)

const (
	DefaultPage = 1
	MaxPage     = 10
	DefaultSize = 20
	MaxSize     = 20
)

// Page is a resolved page number and size.
type Page struct {
	Number int
	Size   int
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseSpotQuery turns the listing query string into a filter and page.
// Malformed numbers and negative price bounds are reported per field.
func ParseSpotQuery(q dto.SpotQuery) (repositories.SpotFilter, Page, error) {
	fields := map[string]string{}
	page := Page{Number: DefaultPage, Size: DefaultSize}

	if n, ok := parseInt(q.Page, fields, "page", "Page must be greater than or equal to 1"); ok {
		page.Number = clamp(n, 1, MaxPage)
	}
	if n, ok := parseInt(q.Size, fields, "size", "Size must be greater than or equal to 1"); ok {
		page.Size = clamp(n, 1, MaxSize)
	}

	var f repositories.SpotFilter
	f.MinLat = parseFloat(q.MinLat, fields, "minLat", "Minimum latitude is invalid")
	f.MaxLat = parseFloat(q.MaxLat, fields, "maxLat", "Maximum latitude is invalid")
	f.MinLng = parseFloat(q.MinLng, fields, "minLng", "Minimum longitude is invalid")
	f.MaxLng = parseFloat(q.MaxLng, fields, "maxLng", "Maximum longitude is invalid")
	f.MinPrice = parseFloat(q.MinPrice, fields, "minPrice", "Minimum price must be greater than or equal to 0")
	f.MaxPrice = parseFloat(q.MaxPrice, fields, "maxPrice", "Maximum price must be greater than or equal to 0")

	if f.MinPrice != nil && *f.MinPrice < 0 {
		fields["minPrice"] = "Minimum price must be greater than or equal to 0"
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		fields["maxPrice"] = "Maximum price must be greater than or equal to 0"
	}

	if len(fields) > 0 {
		return repositories.SpotFilter{}, Page{}, apperr.Validation(fields)
	}

	f.Limit = page.Size
	f.Offset = (page.Number - 1) * page.Size
	return f, page, nil
}

func parseInt(raw string, fields map[string]string, name, msg string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fields[name] = msg
		return 0, false
	}
	return n, true
}

func parseFloat(raw string, fields map[string]string, name, msg string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		fields[name] = msg
		return nil
	}
	return &v
}
