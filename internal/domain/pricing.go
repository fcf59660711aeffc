package domain

// PricingComponent 报价分解中的单个组成部分（底盘 / 燃料改装 / 车身）
type PricingComponent struct {
	Price             float64 `json:"price"`
	Description       string  `json:"description"`
	Details           string  `json:"details,omitempty"`
	DestinationCharge float64 `json:"destinationCharge,omitempty"`
	Provider          string  `json:"provider,omitempty"`
	RequiresConversion bool   `json:"requiresConversion,omitempty"`
	FuelType          string  `json:"fuelType,omitempty"`
	RangeMiles        int     `json:"range,omitempty"`
}

// OptionLineItem 选装项明细行（保持插入顺序）
type OptionLineItem struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
	IsCredit   bool    `json:"isCredit"`
	IsNoCharge bool    `json:"isNoCharge"`
}

// OptionsComponent 选装项合计
type OptionsComponent struct {
	Price       float64          `json:"price"`
	Description string           `json:"description"`
	Items       []OptionLineItem `json:"items"`
}

// PricingBreakdown 完整报价分解
// 恒等式：Subtotal = Chassis.Price + Chassis.DestinationCharge +
// FuelConversion.Price + Body.Price + Options.Price；
// Taxes = Subtotal × 8%；Total = Subtotal + Taxes + Fees
type PricingBreakdown struct {
	Chassis        PricingComponent `json:"chassis"`
	FuelConversion PricingComponent `json:"fuelConversion"`
	Body           PricingComponent `json:"body"`
	Options        OptionsComponent `json:"options"`
	Subtotal       float64          `json:"subtotal"`
	Taxes          float64          `json:"taxes"`
	Fees           float64          `json:"fees"`
	Total          float64          `json:"total"`
}

// PricingEstimate 快速估价（无会话参与）
type PricingEstimate struct {
	Chassis        float64 `json:"chassis"`
	FuelConversion float64 `json:"fuelConversion"`
	Body           float64 `json:"body"`
	EstimatedTotal float64 `json:"estimatedTotal"`
}
