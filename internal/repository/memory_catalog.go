package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/shaed-rp/Endera/internal/domain"
)

// MemoryCatalogRepo 内存版目录数据（DB 不可用时的回退实现，也用于单元测试）
// 与 Postgres 实现保持同一约定：单条查询未命中返回 (nil, nil)
type MemoryCatalogRepo struct {
	mu             sync.RWMutex
	chassis        map[string]domain.Chassis
	chassisPricing map[string]domain.ChassisPricing // chassisID -> current 记录
	bodies         map[string]domain.BodyConfiguration
	bodyCompat     map[string]domain.ChassisBodyCompatibility // chassisID+"/"+bodyID
	fuelCompat     map[string]domain.ChassisFuelCompatibility // chassisID+"/"+fuelCode
	options        map[string]domain.VehicleOption
	optionPricing  map[string]domain.OptionPricing // optionID -> current 记录
}

func NewMemoryCatalogRepo() *MemoryCatalogRepo {
	return &MemoryCatalogRepo{
		chassis:        map[string]domain.Chassis{},
		chassisPricing: map[string]domain.ChassisPricing{},
		bodies:         map[string]domain.BodyConfiguration{},
		bodyCompat:     map[string]domain.ChassisBodyCompatibility{},
		fuelCompat:     map[string]domain.ChassisFuelCompatibility{},
		options:        map[string]domain.VehicleOption{},
		optionPricing:  map[string]domain.OptionPricing{},
	}
}

// 确保实现了接口
var _ CatalogRepository = (*MemoryCatalogRepo)(nil)

// ---- 数据装载（seed / 测试用） ----

func (r *MemoryCatalogRepo) PutChassis(c domain.Chassis, p domain.ChassisPricing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chassis[c.ID] = c
	p.ChassisID = c.ID
	p.IsCurrent = true
	r.chassisPricing[c.ID] = p
}

func (r *MemoryCatalogRepo) PutBody(b domain.BodyConfiguration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies[b.ID] = b
}

func (r *MemoryCatalogRepo) PutBodyCompatibility(c domain.ChassisBodyCompatibility) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodyCompat[c.ChassisID+"/"+c.BodyID] = c
}

func (r *MemoryCatalogRepo) PutFuelCompatibility(c domain.ChassisFuelCompatibility) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fuelCompat[c.ChassisID+"/"+c.FuelCode] = c
}

func (r *MemoryCatalogRepo) PutOption(o domain.VehicleOption, p domain.OptionPricing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.options[o.ID] = o
	p.OptionID = o.ID
	p.IsCurrent = true
	r.optionPricing[o.ID] = p
}

// ---- CatalogRepository ----

func (r *MemoryCatalogRepo) ListChassis(_ context.Context) ([]domain.Chassis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Chassis, 0, len(r.chassis))
	for _, c := range r.chassis {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeriesCode != out[j].SeriesCode {
			return out[i].SeriesCode < out[j].SeriesCode
		}
		return out[i].WheelbaseInches < out[j].WheelbaseInches
	})
	return out, nil
}

func (r *MemoryCatalogRepo) GetChassis(_ context.Context, chassisID string) (*domain.Chassis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chassis[chassisID]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

func (r *MemoryCatalogRepo) GetChassisPricing(_ context.Context, chassisID string) (*domain.ChassisPricing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.chassisPricing[chassisID]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *MemoryCatalogRepo) ListBodyConfigurations(_ context.Context) ([]domain.BodyConfiguration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.BodyConfiguration, 0, len(r.bodies))
	for _, b := range r.bodies {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConfigName < out[j].ConfigName })
	return out, nil
}

func (r *MemoryCatalogRepo) GetBodyConfiguration(_ context.Context, bodyID string) (*domain.BodyConfiguration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bodies[bodyID]
	if !ok {
		return nil, nil
	}
	cp := b
	return &cp, nil
}

func (r *MemoryCatalogRepo) GetChassisBodyCompatibility(_ context.Context, chassisID, bodyID string) (*domain.ChassisBodyCompatibility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.bodyCompat[chassisID+"/"+bodyID]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

func (r *MemoryCatalogRepo) GetChassisFuelCompatibility(_ context.Context, chassisID, fuelCode string) (*domain.ChassisFuelCompatibility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.fuelCompat[chassisID+"/"+fuelCode]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

func (r *MemoryCatalogRepo) ListOptions(_ context.Context) ([]domain.VehicleOption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.VehicleOption, 0, len(r.options))
	for _, o := range r.options {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OptionCode < out[j].OptionCode })
	return out, nil
}

func (r *MemoryCatalogRepo) GetOption(_ context.Context, optionID string) (*domain.VehicleOption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.options[optionID]
	if !ok {
		return nil, nil
	}
	cp := o
	return &cp, nil
}

func (r *MemoryCatalogRepo) GetOptionPricing(_ context.Context, optionID string) (*domain.OptionPricing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.optionPricing[optionID]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}
