package enums

import "fmt"

// GrainType enumerates the crop categories a listing can offer.
type GrainType string

const (
	GrainTypeWheat       GrainType = "Wheat"
	GrainTypeRice        GrainType = "Rice"
	GrainTypeCorn        GrainType = "Corn"
	GrainTypeBarley      GrainType = "Barley"
	GrainTypeOats        GrainType = "Oats"
	GrainTypeRye         GrainType = "Rye"
	GrainTypeSorghum     GrainType = "Sorghum"
	GrainTypeMillet      GrainType = "Millet"
	GrainTypeQuinoa      GrainType = "Quinoa"
	GrainTypeBuckwheat   GrainType = "Buckwheat"
	GrainTypeSoybeans    GrainType = "Soybeans"
	GrainTypeLentils     GrainType = "Lentils"
	GrainTypeChickpeas   GrainType = "Chickpeas"
	GrainTypeBlackBeans  GrainType = "Black Beans"
	GrainTypeKidneyBeans GrainType = "Kidney Beans"
	GrainTypeOther       GrainType = "Other"
)

var validGrainTypes = []GrainType{
	GrainTypeWheat,
	GrainTypeRice,
	GrainTypeCorn,
	GrainTypeBarley,
	GrainTypeOats,
	GrainTypeRye,
	GrainTypeSorghum,
	GrainTypeMillet,
	GrainTypeQuinoa,
	GrainTypeBuckwheat,
	GrainTypeSoybeans,
	GrainTypeLentils,
	GrainTypeChickpeas,
	GrainTypeBlackBeans,
	GrainTypeKidneyBeans,
	GrainTypeOther,
}

// String implements fmt.Stringer.
func (g GrainType) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GrainType.
func (g GrainType) IsValid() bool {
	for _, candidate := range validGrainTypes {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGrainType converts raw input into a GrainType.
func ParseGrainType(value string) (GrainType, error) {
	for _, candidate := range validGrainTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid grain type %q", value)
}

// GrainQuality grades a lot.
type GrainQuality string

const (
	GrainQualityPremium  GrainQuality = "Premium"
	GrainQualityGood     GrainQuality = "Good"
	GrainQualityStandard GrainQuality = "Standard"
)

var validGrainQualities = []GrainQuality{
	GrainQualityPremium,
	GrainQualityGood,
	GrainQualityStandard,
}

// String implements fmt.Stringer.
func (g GrainQuality) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GrainQuality.
func (g GrainQuality) IsValid() bool {
	for _, candidate := range validGrainQualities {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGrainQuality converts raw input into a GrainQuality.
func ParseGrainQuality(value string) (GrainQuality, error) {
	for _, candidate := range validGrainQualities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid grain quality %q", value)
}

// GrainStatus tracks whether a listing can accept new deals.
type GrainStatus string

const (
	GrainStatusAvailable GrainStatus = "available"
	GrainStatusSold      GrainStatus = "sold"
	GrainStatusReserved  GrainStatus = "reserved"
)

var validGrainStatuses = []GrainStatus{
	GrainStatusAvailable,
	GrainStatusSold,
	GrainStatusReserved,
}

// String implements fmt.Stringer.
func (g GrainStatus) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GrainStatus.
func (g GrainStatus) IsValid() bool {
	for _, candidate := range validGrainStatuses {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGrainStatus converts raw input into a GrainStatus.
func ParseGrainStatus(value string) (GrainStatus, error) {
	for _, candidate := range validGrainStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid grain status %q", value)
}
