package domain

// FuelAvailable 燃料兼容记录可用状态
const FuelAvailable = "Available"

// ChassisBodyCompatibility 底盘-车身兼容记录（对应 chassis_body_compatibility 表）
// 以 (ChassisID, BodyID) 为键；缺失视同不兼容
type ChassisBodyCompatibility struct {
	ChassisID    string `db:"base_vehicle_id" json:"chassisId"`
	BodyID       string `db:"body_config_id" json:"bodyId"`
	IsCompatible bool   `db:"is_compatible" json:"isCompatible"`
	Notes        string `db:"notes" json:"notes,omitempty"`
}

// ChassisFuelCompatibility 底盘-燃料兼容记录（对应 chassis_fuel_compatibility 表）
// 以 (ChassisID, FuelCode) 为键；BasePriceAdjustment 即燃料改装价
type ChassisFuelCompatibility struct {
	ChassisID           string  `db:"base_vehicle_id" json:"chassisId"`
	FuelCode            string  `db:"fuel_code" json:"fuelCode"`
	FuelName            string  `db:"fuel_name" json:"fuelName"`
	AvailabilityStatus  string  `db:"availability_status" json:"availabilityStatus"`
	BasePriceAdjustment float64 `db:"base_price_adjustment" json:"basePriceAdjustment"`
	RequiresConversion  bool    `db:"requires_conversion" json:"requiresConversion"`
	ProviderName        string  `db:"provider_name" json:"providerName,omitempty"`
}
