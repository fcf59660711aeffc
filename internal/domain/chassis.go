package domain

// Chassis 底盘领域模型（对应 base_vehicles 表）
type Chassis struct {
	ID               string  `db:"id" json:"id"`
	VehicleID        string  `db:"vehicle_id" json:"vehicleId"`
	SeriesCode       string  `db:"series_code" json:"seriesCode"`
	WheelbaseInches  float64 `db:"wheelbase_inches" json:"wheelbaseInches"`
	DrivetrainType   string  `db:"drivetrain_type" json:"drivetrainType"`
	DriveType        string  `db:"drive_type" json:"driveType"`
	EngineSeries     string  `db:"engine_series" json:"engineSeries"`
	ModelDescription string  `db:"model_description" json:"modelDescription"`
	GVWRPounds       int     `db:"gvwr_pounds" json:"gvwrPounds"`
	PayloadPounds    int     `db:"payload_pounds" json:"payloadPounds"`
	CurbWeightPounds int     `db:"curb_weight_pounds" json:"curbWeightPounds"`
	IsActive         bool    `db:"is_active" json:"-"`
}

// ChassisPricing 底盘价格记录（对应 base_vehicle_pricing 表）
// 同一底盘可存多条历史记录，计价只取 IsCurrent = true 的一条
type ChassisPricing struct {
	ChassisID                 string  `db:"vehicle_id" json:"-"`
	DealerInvoicePrice        float64 `db:"dealer_invoice_price" json:"dealerInvoice"`
	SuggestedRetailPrice      float64 `db:"suggested_retail_price" json:"suggestedRetail"`
	DestinationDeliveryCharge float64 `db:"destination_delivery_charge" json:"destinationCharge"`
	IsCurrent                 bool    `db:"is_current" json:"-"`
}
