package service

import "github.com/shaed-rp/Endera/internal/domain"

// BodyPricingRule 车身计价规则。
// 目录里暂时没有可用的车身价格表，现行规则是一组硬编码的加法规则；
// 抽成接口以便将来换成持久化价格记录，引擎只依赖接口
type BodyPricingRule interface {
	Price(body *domain.BodyConfiguration) float64
}

// 现行车身计价规则的金额常量
const (
	bodyBasePrice        = 45000.0
	electricPremium      = 25000.0 // 电动化改装
	extendedRangePremium = 15000.0 // 长续航（电动且续航超过阈值）
	adaCompliancePremium = 8000.0  // 轮椅位（ADA 合规）

	extendedRangeMiles = 120
	fuelTypeElectric   = "Electric"
)

// StandardBodyPricing 现行加法规则：各条独立叠加，无上限
type StandardBodyPricing struct{}

// 确保实现了接口
var _ BodyPricingRule = StandardBodyPricing{}

func (StandardBodyPricing) Price(body *domain.BodyConfiguration) float64 {
	price := bodyBasePrice
	if body.FuelType == fuelTypeElectric {
		price += electricPremium
		if body.ElectricRangeMiles > extendedRangeMiles {
			price += extendedRangePremium
		}
	}
	if body.WheelchairPositions > 0 {
		price += adaCompliancePremium
	}
	return price
}
