package directory

import (
	"strings"

	"github.com/kapu/isv-directory/internal/domain"
	"github.com/kapu/isv-directory/internal/util"
)

// Filter returns the profiles whose name, questions or answers contain query,
// case-insensitively. A blank query returns profiles unchanged.
func Filter(profiles []domain.Profile, query string) []domain.Profile {
	q := util.Normalize(query)
	if q == "" {
		return profiles
	}

	filtered := make([]domain.Profile, 0, len(profiles))
	for _, profile := range profiles {
		if strings.Contains(strings.ToLower(profile.Haystack()), q) {
			filtered = append(filtered, profile)
		}
	}
	return filtered
}
