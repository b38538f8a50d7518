// Package fleet 船舶配置继承
package fleet

import (
	"errors"
	"fmt"

	"github.com/newdynamo/SSRPMS/internal/model"
)

// ErrConfigCycle 配置来源形成环
var ErrConfigCycle = errors.New("ship config source forms a cycle")

// ErrInvalidConfig 船舶列表不合法（空代码、重复代码）
var ErrInvalidConfig = errors.New("invalid ship config")

// ErrShipNotFound 船舶不存在
var ErrShipNotFound = errors.New("ship not found")

// FindByCode 按代码查找船舶
func FindByCode(ships []*model.Ship, code string) (*model.Ship, bool) {
	for _, s := range ships {
		if s != nil && s.Code == code {
			return s, true
		}
	}
	return nil, false
}

// FindByName 按名称查找船舶（报告通过 R001 船名关联船舶）
func FindByName(ships []*model.Ship, name string) (*model.Ship, bool) {
	for _, s := range ships {
		if s != nil && s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// SourceChain 返回 target 的配置来源链（不含 target 自身），检测自引用与环
//
// 来源船舶缺失时链在此终止。
func SourceChain(ships []*model.Ship, target *model.Ship) ([]*model.Ship, error) {
	visited := map[string]bool{target.Code: true}
	var chain []*model.Ship

	next := target.ConfigSourceShipID
	for next != "" {
		if visited[next] {
			return nil, fmt.Errorf("%w: %s -> %s", ErrConfigCycle, target.Code, next)
		}
		visited[next] = true

		src, ok := FindByCode(ships, next)
		if !ok {
			break
		}
		chain = append(chain, src)
		next = src.ConfigSourceShipID
	}
	return chain, nil
}

// Resolve 生成船舶的有效配置
//
// 有配置来源时，装备与舱数取来源船舶（结构配置），燃料/滑油/淡水的种类取来源船舶，
// 初始 ROB 优先使用本船已设置的值。来源链按就近原则逐级展开。
// 结果为新对象，不修改任何已存储的配置。
func Resolve(ships []*model.Ship, target *model.Ship) (*model.Ship, error) {
	if target == nil {
		return nil, ErrShipNotFound
	}

	chain, err := SourceChain(ships, target)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return target.Clone(), nil
	}

	// 从最远的来源开始，逐级叠加本地 ROB
	effective := chain[len(chain)-1].Clone()
	for i := len(chain) - 2; i >= 0; i-- {
		effective = inherit(chain[i], effective)
	}
	return inherit(target, effective), nil
}

// ResolveByCode 按代码解析有效配置
func ResolveByCode(ships []*model.Ship, code string) (*model.Ship, error) {
	target, ok := FindByCode(ships, code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrShipNotFound, code)
	}
	return Resolve(ships, target)
}

// ResolveByName 按船名解析有效配置
func ResolveByName(ships []*model.Ship, name string) (*model.Ship, error) {
	target, ok := FindByName(ships, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrShipNotFound, name)
	}
	return Resolve(ships, target)
}

// inherit 以 source 的结构覆盖 local，保留 local 的初始 ROB
func inherit(local, source *model.Ship) *model.Ship {
	out := local.Clone()
	src := source.Clone()

	out.Equipment = src.Equipment
	out.TankCounts = src.TankCounts
	out.Fuels = mergeRob(src.Fuels, local.Fuels)
	out.LubeOils = mergeRob(src.LubeOils, local.LubeOils)
	out.Waters = mergeRob(src.Waters, local.Waters)
	return out
}

func mergeRob(structure, local []model.ResourceConfig) []model.ResourceConfig {
	if structure == nil {
		return nil
	}
	out := make([]model.ResourceConfig, len(structure))
	for i, r := range structure {
		for _, l := range local {
			if l.Code == r.Code && l.InitialRob != nil {
				v := *l.InitialRob
				r.InitialRob = &v
				break
			}
		}
		out[i] = r
	}
	return out
}

// Validate 校验船舶列表：代码非空且唯一，配置来源不得自引用或成环
func Validate(ships []*model.Ship) error {
	seen := make(map[string]bool, len(ships))
	for _, s := range ships {
		if s == nil {
			return fmt.Errorf("%w: ship entry is null", ErrInvalidConfig)
		}
		if s.Code == "" {
			return fmt.Errorf("%w: ship code is required", ErrInvalidConfig)
		}
		if seen[s.Code] {
			return fmt.Errorf("%w: duplicate ship code %s", ErrInvalidConfig, s.Code)
		}
		seen[s.Code] = true
	}
	for _, s := range ships {
		if _, err := SourceChain(ships, s); err != nil {
			return err
		}
	}
	return nil
}
