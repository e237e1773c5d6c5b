// Package model defines the core field-visit data types.
package model

// POIType is the fine-grained type a catalog assigns to a POI.
type POIType string

const (
	TypeSubway    POIType = "subway"
	TypeBus       POIType = "bus"
	TypeMarket    POIType = "market"
	TypeSchool    POIType = "school"
	TypeFacility  POIType = "facility"
	TypeReligious POIType = "religious"
	TypeOther     POIType = "other"
)

// Category is the coarse taxonomy used for filtering and statistics.
type Category string

const (
	CategoryTransit   Category = "transit"
	CategorySchool    Category = "school"
	CategoryShop      Category = "shop"
	CategoryPark      Category = "park"
	CategoryReligious Category = "religious"
	CategoryPublic    Category = "public"
	CategoryManual    Category = "manual"
)

// ValidTypes are the allowed POI types.
var ValidTypes = map[POIType]bool{
	TypeSubway:    true,
	TypeBus:       true,
	TypeMarket:    true,
	TypeSchool:    true,
	TypeFacility:  true,
	TypeReligious: true,
	TypeOther:     true,
}

// ValidCategories are the allowed coarse categories.
var ValidCategories = map[Category]bool{
	CategoryTransit:   true,
	CategorySchool:    true,
	CategoryShop:      true,
	CategoryPark:      true,
	CategoryReligious: true,
	CategoryPublic:    true,
	CategoryManual:    true,
}

// Category maps a POI type into the coarse taxonomy.
func (t POIType) Category() Category {
	switch t {
	case TypeSubway, TypeBus:
		return CategoryTransit
	case TypeFacility:
		return CategoryPark
	case TypeReligious:
		return CategoryReligious
	case TypeSchool:
		return CategorySchool
	case TypeMarket:
		return CategoryShop
	default:
		return CategoryPublic
	}
}

// Slot is a part of the day used for exposure weighting and filtering.
type Slot string

const (
	SlotMorning Slot = "morning"
	SlotNoon    Slot = "noon"
	SlotEvening Slot = "evening"
	SlotNight   Slot = "night"
)

// ValidSlots are the allowed time slots.
var ValidSlots = map[Slot]bool{
	SlotMorning: true,
	SlotNoon:    true,
	SlotEvening: true,
	SlotNight:   true,
}

// Coordinates is a WGS84 point in degrees.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// TimeWeights holds per-slot exposure multipliers. Missing slots weigh 1.0.
type TimeWeights map[Slot]float64

// Weight returns the multiplier for slot.
func (w TimeWeights) Weight(slot Slot) float64 {
	if v, ok := w[slot]; ok {
		return v
	}
	return 1.0
}

// POI is a point of interest from the catalog.
// BaseExposure must be non-negative and Accessibility within [0, 1].
type POI struct {
	ID            string      `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	Type          POIType     `json:"type" yaml:"type"`
	Location      Coordinates `json:"location" yaml:"location"`
	BaseExposure  float64     `json:"base_exposure" yaml:"base_exposure"`
	TimeWeights   TimeWeights `json:"time_weights,omitempty" yaml:"time_weights"`
	Accessibility float64     `json:"accessibility" yaml:"accessibility"`
}
