package repository

import (
	"context"

	"github.com/shaed-rp/Endera/internal/domain"
)

// CatalogRepository 目录数据只读访问接口
// 约定：单条查询未命中返回 (nil, nil) —— 目录条目缺失是正常业务结果
// （校验器把缺失当作不兼容，计价器把缺失当作 0 / 跳过），不是错误
type CatalogRepository interface {
	ListChassis(ctx context.Context) ([]domain.Chassis, error)
	GetChassis(ctx context.Context, chassisID string) (*domain.Chassis, error)
	// GetChassisPricing 只返回 is_current = true 的价格记录
	GetChassisPricing(ctx context.Context, chassisID string) (*domain.ChassisPricing, error)

	ListBodyConfigurations(ctx context.Context) ([]domain.BodyConfiguration, error)
	GetBodyConfiguration(ctx context.Context, bodyID string) (*domain.BodyConfiguration, error)

	GetChassisBodyCompatibility(ctx context.Context, chassisID, bodyID string) (*domain.ChassisBodyCompatibility, error)
	GetChassisFuelCompatibility(ctx context.Context, chassisID, fuelCode string) (*domain.ChassisFuelCompatibility, error)

	ListOptions(ctx context.Context) ([]domain.VehicleOption, error)
	GetOption(ctx context.Context, optionID string) (*domain.VehicleOption, error)
	// GetOptionPricing 只返回 is_current = true 的价格记录
	GetOptionPricing(ctx context.Context, optionID string) (*domain.OptionPricing, error)
}
