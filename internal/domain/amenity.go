package domain

import (
	"strconv"
	"strings"
)

type Amenity struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Amenities is the closed catalog, in display order.
var Amenities = []Amenity{
	{Key: "WI_FI", Label: "Wi-fi grátis"},
	{Key: "PARKING", Label: "Estacionamento"},
	{Key: "POOL", Label: "Piscina"},
	{Key: "RESTAURANT", Label: "Restaurante"},
	{Key: "FITNESS_CENTER", Label: "Academia"},
	{Key: "ROOM_SERVICE", Label: "Serviço de quarto"},
	{Key: "STEAM_ROOM", Label: "Sauna"},
	{Key: "PET_FRIENDLY", Label: "Aceita pets"},
	{Key: "BAR", Label: "Bar"},
	{Key: "SPA", Label: "Spa"},
	{Key: "ACCESSIBILITY", Label: "Acessibilidade"},
	{Key: "AIR_CONDITIONING", Label: "Ar-condicionado"},
}

type Style struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var defaultStyle = Style{Icon: "check", Color: "#6c757d"}

var amenityStyles = map[string]Style{
	"WI_FI":            {"wifi", "#007bff"},
	"PARKING":          {"local_parking", "#28a745"},
	"POOL":             {"pool", "#17a2b8"},
	"RESTAURANT":       {"restaurant", "#fd7e14"},
	"FITNESS_CENTER":   {"fitness_center", "#e83e8c"},
	"ROOM_SERVICE":     {"room_service", "#6f42c1"},
	"STEAM_ROOM":       {"hot_tub", "#20c997"},
	"PET_FRIENDLY":     {"pets", "#ffc107"},
	"BAR":              {"local_bar", "#dc3545"},
	"SPA":              {"spa", "#6f42c1"},
	"ACCESSIBILITY":    {"accessible", "#20c997"},
	"AIR_CONDITIONING": {"ac_unit", "#17a2b8"},
}

func IsKnownAmenity(key string) bool {
	_, ok := amenityStyles[key]
	return ok
}

// AmenityLabel falls back to the key itself.
func AmenityLabel(key string) string {
	for _, a := range Amenities {
		if a.Key == key {
			return a.Label
		}
	}
	return key
}

// AmenityStyle never fails: unknown keys get the default icon and color.
func AmenityStyle(key string) Style {
	if s, ok := amenityStyles[key]; ok {
		return s
	}
	return defaultStyle
}

// FormatBRL renders minor units as "R$ 1.234,56".
func FormatBRL(minor int64) string {
	neg := minor < 0
	if neg {
		minor = -minor
	}
	units := strconv.FormatInt(minor/100, 10)
	cents := minor % 100

	var b strings.Builder
	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "R$ " + b.String() + "," + strconv.FormatInt(cents/10, 10) + strconv.FormatInt(cents%10, 10)
	if neg {
		return "-" + out
	}
	return out
}
