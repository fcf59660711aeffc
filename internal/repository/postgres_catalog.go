package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shaed-rp/Endera/internal/domain"
)

// PostgresCatalogRepository 目录数据Repository实现（只读）
type PostgresCatalogRepository struct {
	db *sql.DB
}

// NewPostgresCatalogRepository 创建目录Repository
func NewPostgresCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

// 确保实现了接口
var _ CatalogRepository = (*PostgresCatalogRepository)(nil)

const chassisColumns = `
	id::text,
	COALESCE(vehicle_id, '') as vehicle_id,
	COALESCE(series_code, '') as series_code,
	COALESCE(wheelbase_inches, 0) as wheelbase_inches,
	COALESCE(drivetrain_type, '') as drivetrain_type,
	COALESCE(drive_type, '') as drive_type,
	COALESCE(engine_series, '') as engine_series,
	COALESCE(model_description, '') as model_description,
	COALESCE(gvwr_pounds, 0) as gvwr_pounds,
	COALESCE(payload_pounds, 0) as payload_pounds,
	COALESCE(curb_weight_pounds, 0) as curb_weight_pounds,
	is_active`

func scanChassis(scan func(dest ...any) error) (*domain.Chassis, error) {
	var c domain.Chassis
	err := scan(
		&c.ID, &c.VehicleID, &c.SeriesCode, &c.WheelbaseInches,
		&c.DrivetrainType, &c.DriveType, &c.EngineSeries, &c.ModelDescription,
		&c.GVWRPounds, &c.PayloadPounds, &c.CurbWeightPounds, &c.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChassis 返回全部在售底盘
func (r *PostgresCatalogRepository) ListChassis(ctx context.Context) ([]domain.Chassis, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM base_vehicles
		WHERE is_active = true
		ORDER BY series_code, wheelbase_inches
	`, chassisColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list chassis: %w", err)
	}
	defer rows.Close()

	var out []domain.Chassis
	for rows.Next() {
		c, err := scanChassis(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chassis: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chassis: %w", err)
	}
	return out, nil
}

// GetChassis 按 id 获取底盘，未命中返回 (nil, nil)
func (r *PostgresCatalogRepository) GetChassis(ctx context.Context, chassisID string) (*domain.Chassis, error) {
	if chassisID == "" {
		return nil, fmt.Errorf("chassis_id is required")
	}

	query := fmt.Sprintf(`SELECT %s FROM base_vehicles WHERE id = $1::uuid`, chassisColumns)
	row := r.db.QueryRowContext(ctx, query, chassisID)
	c, err := scanChassis(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chassis: %w", err)
	}
	return c, nil
}

// GetChassisPricing 获取底盘当前价格记录，未命中返回 (nil, nil)
func (r *PostgresCatalogRepository) GetChassisPricing(ctx context.Context, chassisID string) (*domain.ChassisPricing, error) {
	if chassisID == "" {
		return nil, fmt.Errorf("chassis_id is required")
	}

	query := `
		SELECT
			vehicle_id::text,
			COALESCE(dealer_invoice_price, 0) as dealer_invoice_price,
			COALESCE(suggested_retail_price, 0) as suggested_retail_price,
			COALESCE(destination_delivery_charge, 0) as destination_delivery_charge,
			is_current
		FROM base_vehicle_pricing
		WHERE vehicle_id = $1::uuid AND is_current = true
	`

	var p domain.ChassisPricing
	err := r.db.QueryRowContext(ctx, query, chassisID).Scan(
		&p.ChassisID, &p.DealerInvoicePrice, &p.SuggestedRetailPrice,
		&p.DestinationDeliveryCharge, &p.IsCurrent,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chassis pricing: %w", err)
	}
	return &p, nil
}

const bodyColumns = `
	id::text,
	COALESCE(config_code, '') as config_code,
	COALESCE(config_name, '') as config_name,
	COALESCE(passenger_capacity, 0) as passenger_capacity,
	COALESCE(wheelchair_positions, 0) as wheelchair_positions,
	COALESCE(fuel_type, '') as fuel_type,
	COALESCE(electric_range_miles, 0) as electric_range_miles,
	COALESCE(battery_capacity_kwh, 0) as battery_capacity_kwh,
	COALESCE(overall_length_ft, 0) as overall_length_ft,
	COALESCE(overall_width_in, 0) as overall_width_in,
	COALESCE(overall_height_in, 0) as overall_height_in`

func scanBody(scan func(dest ...any) error) (*domain.BodyConfiguration, error) {
	var b domain.BodyConfiguration
	err := scan(
		&b.ID, &b.ConfigCode, &b.ConfigName, &b.PassengerCapacity,
		&b.WheelchairPositions, &b.FuelType, &b.ElectricRangeMiles,
		&b.BatteryCapacityKWh, &b.OverallLengthFt, &b.OverallWidthIn, &b.OverallHeightIn,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBodyConfigurations 返回全部车身配置
func (r *PostgresCatalogRepository) ListBodyConfigurations(ctx context.Context) ([]domain.BodyConfiguration, error) {
	query := fmt.Sprintf(`SELECT %s FROM body_configurations ORDER BY config_name`, bodyColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list body configurations: %w", err)
	}
	defer rows.Close()

	var out []domain.BodyConfiguration
	for rows.Next() {
		b, err := scanBody(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan body configuration: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate body configurations: %w", err)
	}
	return out, nil
}

// GetBodyConfiguration 按 id 获取车身配置，未命中返回 (nil, nil)
func (r *PostgresCatalogRepository) GetBodyConfiguration(ctx context.Context, bodyID string) (*domain.BodyConfiguration, error) {
	if bodyID == "" {
		return nil, fmt.Errorf("body_id is required")
	}

	query := fmt.Sprintf(`SELECT %s FROM body_configurations WHERE id = $1::uuid`, bodyColumns)
	b, err := scanBody(r.db.QueryRowContext(ctx, query, bodyID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get body configuration: %w", err)
	}
	return b, nil
}

// GetChassisBodyCompatibility 按 (chassisID, bodyID) 获取兼容记录，未命中返回 (nil, nil)
func (r *PostgresCatalogRepository) GetChassisBodyCompatibility(ctx context.Context, chassisID, bodyID string) (*domain.ChassisBodyCompatibility, error) {
	if chassisID == "" || bodyID == "" {
		return nil, fmt.Errorf("chassis_id and body_id are required")
	}

	query := `
		SELECT
			base_vehicle_id::text,
			body_config_id::text,
			is_compatible,
			COALESCE(notes, '') as notes
		FROM chassis_body_compatibility
		WHERE base_vehicle_id = $1::uuid AND body_config_id = $2::uuid
	`

	var c domain.ChassisBodyCompatibility
	err := r.db.QueryRowContext(ctx, query, chassisID, bodyID).Scan(
		&c.ChassisID, &c.BodyID, &c.IsCompatible, &c.Notes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chassis-body compatibility: %w", err)
	}
	return &c, nil
}

// GetChassisFuelCompatibility 按 (chassisID, fuelCode) 获取燃料兼容记录，未命中返回 (nil, nil)
func (r *PostgresCatalogRepository) GetChassisFuelCompatibility(ctx context.Context, chassisID, fuelCode string) (*domain.ChassisFuelCompatibility, error) {
	if chassisID == "" || fuelCode == "" {
		return nil, fmt.Errorf("chassis_id and fuel_code are required")
	}

	query := `
		SELECT
			base_vehicle_id::text,
			fuel_code,
			COALESCE(fuel_name, '') as fuel_name,
			COALESCE(availability_status, '') as availability_status,
			COALESCE(base_price_adjustment, 0) as base_price_adjustment,
			requires_conversion,
			COALESCE(provider_name, '') as provider_name
		FROM chassis_fuel_compatibility
		WHERE base_vehicle_id = $1::uuid AND fuel_code = $2
	`

	var c domain.ChassisFuelCompatibility
	err := r.db.QueryRowContext(ctx, query, chassisID, fuelCode).Scan(
		&c.ChassisID, &c.FuelCode, &c.FuelName, &c.AvailabilityStatus,
		&c.BasePriceAdjustment, &c.RequiresConversion, &c.ProviderName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chassis-fuel compatibility: %w", err)
	}
	return &c, nil
}

// ListOptions 返回全部选装项
func (r *PostgresCatalogRepository) ListOptions(ctx context.Context) ([]domain.VehicleOption, error) {
	query := `
		SELECT
			id::text,
			COALESCE(option_code, '') as option_code,
			COALESCE(option_name, '') as option_name,
			COALESCE(option_description, '') as option_description
		FROM vehicle_options
		ORDER BY option_code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	defer rows.Close()

	var out []domain.VehicleOption
	for rows.Next() {
		var o domain.VehicleOption
		if err := rows.Scan(&o.ID, &o.OptionCode, &o.OptionName, &o.Description); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}
	return out, nil
}

// GetOption 按 id 获取选装项，未命中返回 (nil, nil)
func (r *PostgresCatalogRepository) GetOption(ctx context.Context, optionID string) (*domain.VehicleOption, error) {
	if optionID == "" {
		return nil, fmt.Errorf("option_id is required")
	}

	query := `
		SELECT
			id::text,
			COALESCE(option_code, '') as option_code,
			COALESCE(option_name, '') as option_name,
			COALESCE(option_description, '') as option_description
		FROM vehicle_options
		WHERE id = $1::uuid
	`

	var o domain.VehicleOption
	err := r.db.QueryRowContext(ctx, query, optionID).Scan(
		&o.ID, &o.OptionCode, &o.OptionName, &o.Description,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get option: %w", err)
	}
	return &o, nil
}

// GetOptionPricing 获取选装项当前价格记录，未命中返回 (nil, nil)
func (r *PostgresCatalogRepository) GetOptionPricing(ctx context.Context, optionID string) (*domain.OptionPricing, error) {
	if optionID == "" {
		return nil, fmt.Errorf("option_id is required")
	}

	query := `
		SELECT
			option_id::text,
			COALESCE(dealer_invoice_price, 0) as dealer_invoice_price,
			COALESCE(suggested_retail_price, 0) as suggested_retail_price,
			is_credit,
			is_no_charge,
			is_current
		FROM vehicle_option_pricing
		WHERE option_id = $1::uuid AND is_current = true
	`

	var p domain.OptionPricing
	err := r.db.QueryRowContext(ctx, query, optionID).Scan(
		&p.OptionID, &p.DealerInvoicePrice, &p.SuggestedRetailPrice,
		&p.IsCredit, &p.IsNoCharge, &p.IsCurrent,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get option pricing: %w", err)
	}
	return &p, nil
}
