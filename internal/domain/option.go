package domain

// VehicleOption 选装项领域模型（对应 vehicle_options 表）
type VehicleOption struct {
	ID          string `db:"id" json:"id"`
	OptionCode  string `db:"option_code" json:"optionCode"`
	OptionName  string `db:"option_name" json:"optionName"`
	Description string `db:"option_description" json:"description,omitempty"`
}

// OptionPricing 选装项价格记录（对应 vehicle_option_pricing 表）
// IsCredit 表示抵扣项（计价时取负）；IsNoCharge 表示免费项（仍列入明细）
type OptionPricing struct {
	OptionID             string  `db:"option_id" json:"-"`
	DealerInvoicePrice   float64 `db:"dealer_invoice_price" json:"dealerInvoice"`
	SuggestedRetailPrice float64 `db:"suggested_retail_price" json:"suggestedRetail"`
	IsCredit             bool    `db:"is_credit" json:"isCredit"`
	IsNoCharge           bool    `db:"is_no_charge" json:"isNoCharge"`
	IsCurrent            bool    `db:"is_current" json:"-"`
}
