package shipping

// Profile is a vendor shipping profile: a named rate configuration that can
// override individual zones' rates and thresholds.
type Profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	ProcessingTime string `json:"processingTime"`
	overrides      map[string]Zone
}

// DefaultProfileID is used when a vendor declares no profile of its own
const DefaultProfileID = "default"

var profiles = map[string]Profile{
	DefaultProfileID: {
		ID:             DefaultProfileID,
		Name:           "Standard Shipping",
		Currency:       "XAF",
		ProcessingTime: "1-2 business days",
	},
	"premium": {
		ID:             "premium",
		Name:           "Premium Vendor",
		Currency:       "XAF",
		ProcessingTime: "Same day processing",
		overrides: map[string]Zone{
			"douala":  {ID: "douala", Name: "Douala", BaseRate: rate("800"), FreeShippingThreshold: rate("40000"), DeliveryTime: "1-2 business days"},
			"yaounde": {ID: "yaounde", Name: "Yaoundé", BaseRate: rate("1200"), FreeShippingThreshold: rate("40000"), DeliveryTime: "1-2 business days"},
			OtherZoneID: {ID: OtherZoneID, Name: "Other Cities", BaseRate: rate("2800"), FreeShippingThreshold: rate("120000"), DeliveryTime: "4-5 business days"},
		},
	},
	"budget": {
		ID:             "budget",
		Name:           "Budget Vendor",
		Currency:       "XAF",
		ProcessingTime: "2-3 business days",
		overrides: map[string]Zone{
			"douala":  {ID: "douala", Name: "Douala", BaseRate: rate("1200"), FreeShippingThreshold: rate("60000"), DeliveryTime: "1-2 business days"},
			"yaounde": {ID: "yaounde", Name: "Yaoundé", BaseRate: rate("1800"), FreeShippingThreshold: rate("60000"), DeliveryTime: "1-2 business days"},
			OtherZoneID: {ID: OtherZoneID, Name: "Other Cities", BaseRate: rate("4200"), FreeShippingThreshold: rate("180000"), DeliveryTime: "4-5 business days"},
		},
	},
}

// ProfileByID returns the named profile, falling back to the default profile
// for unknown IDs.
func ProfileByID(id string) Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return profiles[DefaultProfileID]
}

// Profiles returns all vendor shipping profiles in a stable order
func Profiles() []Profile {
	ids := []string{DefaultProfileID, "premium", "budget"}
	out := make([]Profile, 0, len(ids))
	for _, id := range ids {
		out = append(out, profiles[id])
	}
	return out
}

// ZoneFor resolves the zone for a delivery city under this profile,
// applying the profile's overrides on top of the standard zone table.
func (p Profile) ZoneFor(city string) Zone {
	zoneID := resolveZoneID(city)
	if z, ok := p.overrides[zoneID]; ok {
		return z
	}
	return standardZones[zoneID]
}
