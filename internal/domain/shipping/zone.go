package shipping

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zone is a shipping-rate bucket keyed by delivery city
type Zone struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	BaseRate              decimal.Decimal `json:"baseRate"`
	FreeShippingThreshold decimal.Decimal `json:"freeShippingThreshold"`
	DeliveryTime          string          `json:"deliveryTime"`
}

// OtherZoneID is the catch-all zone for cities no rule matches
const OtherZoneID = "other"

// BaseCurrency is the currency all zone rates and thresholds are defined in
const BaseCurrency = "XAF"

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// standardZones are the marketplace-wide shipping zones, in XAF
var standardZones = map[string]Zone{
	"douala":  {ID: "douala", Name: "Douala", BaseRate: rate("1000"), FreeShippingThreshold: rate("50000"), DeliveryTime: "1-2 business days"},
	"yaounde": {ID: "yaounde", Name: "Yaoundé", BaseRate: rate("1500"), FreeShippingThreshold: rate("50000"), DeliveryTime: "1-2 business days"},
	"bamenda": {ID: "bamenda", Name: "Bamenda", BaseRate: rate("2000"), FreeShippingThreshold: rate("75000"), DeliveryTime: "2-3 business days"},
	"buea":    {ID: "buea", Name: "Buea", BaseRate: rate("1800"), FreeShippingThreshold: rate("75000"), DeliveryTime: "2-3 business days"},
	"kribi":   {ID: "kribi", Name: "Kribi", BaseRate: rate("2200"), FreeShippingThreshold: rate("75000"), DeliveryTime: "2-3 business days"},
	"garoua":  {ID: "garoua", Name: "Garoua", BaseRate: rate("2500"), FreeShippingThreshold: rate("100000"), DeliveryTime: "3-4 business days"},
	"maroua":  {ID: "maroua", Name: "Maroua", BaseRate: rate("3000"), FreeShippingThreshold: rate("100000"), DeliveryTime: "3-4 business days"},
	OtherZoneID: {ID: OtherZoneID, Name: "Other Cities", BaseRate: rate("3500"), FreeShippingThreshold: rate("150000"), DeliveryTime: "4-5 business days"},
}

// cityRule matches a city name fragment to a zone ID. Rules are checked
// in order; the first match wins.
type cityRule struct {
	fragments []string
	zoneID    string
}

var cityRules = []cityRule{
	{[]string{"douala"}, "douala"},
	{[]string{"yaounde", "yaoundé"}, "yaounde"},
	{[]string{"bamenda"}, "bamenda"},
	{[]string{"buea"}, "buea"},
	{[]string{"kribi"}, "kribi"},
	{[]string{"garoua"}, "garoua"},
	{[]string{"maroua"}, "maroua"},
}

// resolveZoneID matches a delivery city to a zone ID, case-insensitively.
// Unmatched cities resolve to the catch-all zone.
func resolveZoneID(city string) string {
	normalized := strings.ToLower(strings.TrimSpace(city))
	for _, rule := range cityRules {
		for _, fragment := range rule.fragments {
			if strings.Contains(normalized, fragment) {
				return rule.zoneID
			}
		}
	}
	return OtherZoneID
}

// Zones returns all standard zones in a stable order
func Zones() []Zone {
	ids := []string{"douala", "yaounde", "bamenda", "buea", "kribi", "garoua", "maroua", OtherZoneID}
	out := make([]Zone, 0, len(ids))
	for _, id := range ids {
		out = append(out, standardZones[id])
	}
	return out
}
