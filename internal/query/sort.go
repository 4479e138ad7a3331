package query

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"hotel_search/internal/domain"
)

// Comparator returns the ordering for opt. A nil comparator with a nil error
// means opt has no key and dataset order is kept. Unsupported keys and
// directions are rejected, never treated as "equal".
//
// The returned func is not safe for concurrent use (the collator keeps buffers).
func Comparator(opt domain.SortOption) (func(a, b domain.Hotel) int, error) {
	if opt.Key == "" {
		return nil, nil
	}

	var asc func(a, b domain.Hotel) int
	switch opt.Key {
	case domain.SortTotalPrice:
		asc = func(a, b domain.Hotel) int { return cmp.Compare(a.TotalPrice, b.TotalPrice) }
	case domain.SortDailyPrice:
		asc = func(a, b domain.Hotel) int { return cmp.Compare(a.DailyPrice, b.DailyPrice) }
	case domain.SortStars:
		asc = func(a, b domain.Hotel) int { return cmp.Compare(a.StarsInt(), b.StarsInt()) }
	case domain.SortName:
		col := collate.New(language.BrazilianPortuguese)
		asc = func(a, b domain.Hotel) int { return col.CompareString(a.Name, b.Name) }
	case domain.SortDistrict:
		col := collate.New(language.BrazilianPortuguese)
		asc = func(a, b domain.Hotel) int { return col.CompareString(a.District, b.District) }
	default:
		return nil, domain.Invalidf("unsupported sort field %q", opt.Key)
	}

	switch opt.Direction {
	case domain.Asc, "":
		return asc, nil
	case domain.Desc:
		return func(a, b domain.Hotel) int { return -asc(a, b) }, nil
	default:
		return nil, domain.Invalidf("unsupported sort direction %q", opt.Direction)
	}
}

// Sort orders hotels in place. The sort is stable so ties keep their
// relative order and pages stay deterministic.
func Sort(hotels []domain.Hotel, opt domain.SortOption) error {
	less, err := Comparator(opt)
	if err != nil || less == nil {
		return err
	}
	slices.SortStableFunc(hotels, less)
	return nil
}
