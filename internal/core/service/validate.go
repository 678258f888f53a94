package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/growshop/admin-console/internal/core/ports"
)

// Product form bounds. Prices are in minor currency units.
const (
	TitleMin = 5
	TitleMax = 100
	DescMin  = 10
	DescMax  = 500
	PriceMin = 1000
	PriceMax = 50_000_000

	BroadcastMaxLen = 500
)

// ValidateProduct runs every client-side range check and returns the full
// list of violations. An empty slice means the form may be submitted; no
// network call is made while the list is non-empty.
func ValidateProduct(in ports.ProductInput) []string {
	var errs []string

	title := strings.TrimSpace(in.Title)
	if len(title) < TitleMin {
		errs = append(errs, fmt.Sprintf("title must be at least %d characters", TitleMin))
	} else if len(title) > TitleMax {
		errs = append(errs, fmt.Sprintf("title must not exceed %d characters", TitleMax))
	}

	if in.Price < PriceMin {
		errs = append(errs, fmt.Sprintf("price must be at least %d", PriceMin))
	} else if in.Price > PriceMax {
		errs = append(errs, fmt.Sprintf("price must not exceed %d", PriceMax))
	}

	if in.Stock < 0 {
		errs = append(errs, "stock must not be negative")
	}

	if desc := strings.TrimSpace(in.Description); desc != "" {
		if len(desc) < DescMin {
			errs = append(errs, fmt.Sprintf("description must be at least %d characters", DescMin))
		} else if len(desc) > DescMax {
			errs = append(errs, fmt.Sprintf("description must not exceed %d characters", DescMax))
		}
	}

	if in.OldPrice != 0 && in.OldPrice <= in.Price {
		errs = append(errs, "old price must be greater than the current price")
	}

	return errs
}

// ValidateBroadcast checks an announcement before it is pushed to the channel.
func ValidateBroadcast(message string) []string {
	var errs []string
	msg := strings.TrimSpace(message)
	if msg == "" {
		errs = append(errs, "broadcast message must not be empty")
	} else if len([]rune(msg)) > BroadcastMaxLen {
		errs = append(errs, fmt.Sprintf("broadcast message must not exceed %d characters", BroadcastMaxLen))
	}
	return errs
}

var imageURLSeparator = regexp.MustCompile(`[,\n]+`)

// ParseImageURLs splits a comma/newline separated URL list, trims each entry,
// and drops anything that is not an absolute URL. The panel's image field is
// free text, so junk entries are expected and silently skipped.
func ParseImageURLs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range imageURLSeparator.Split(raw, -1) {
		candidate := strings.TrimSpace(part)
		if candidate == "" {
			continue
		}
		u, err := url.Parse(candidate)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		out = append(out, candidate)
	}
	return out
}
