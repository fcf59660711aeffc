package domain

// BodyConfiguration 车身配置领域模型（对应 body_configurations 表）
type BodyConfiguration struct {
	ID                  string  `db:"id" json:"id"`
	ConfigCode          string  `db:"config_code" json:"configCode"`
	ConfigName          string  `db:"config_name" json:"configName"`
	PassengerCapacity   int     `db:"passenger_capacity" json:"passengerCapacity"`
	WheelchairPositions int     `db:"wheelchair_positions" json:"wheelchairPositions"`
	FuelType            string  `db:"fuel_type" json:"fuelType"`
	ElectricRangeMiles  int     `db:"electric_range_miles" json:"electricRangeMiles"`
	BatteryCapacityKWh  float64 `db:"battery_capacity_kwh" json:"batteryCapacityKwh"`
	OverallLengthFt     float64 `db:"overall_length_ft" json:"overallLengthFt"`
	OverallWidthIn      float64 `db:"overall_width_in" json:"overallWidthIn"`
	OverallHeightIn     float64 `db:"overall_height_in" json:"overallHeightIn"`
}
