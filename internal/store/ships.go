package store

import (
	"errors"
	"fmt"

	"github.com/newdynamo/SSRPMS/internal/fleet"
	"github.com/newdynamo/SSRPMS/internal/model"
)

// Ships 全部船舶（存储中的原始配置）
func (s *Store) Ships() ([]*model.Ship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ships := []*model.Ship{}
	if err := s.loadLocked(DocShips, &ships); err != nil {
		return nil, err
	}
	return ships, nil
}

// SaveShips 覆盖船舶列表，拒绝重复代码和成环的配置来源
func (s *Store) SaveShips(ships []*model.Ship) error {
	if ships == nil {
		ships = []*model.Ship{}
	}
	if err := fleet.Validate(ships); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(DocShips, ships)
}

// EffectiveShip 按代码解析有效配置
func (s *Store) EffectiveShip(code string) (*model.Ship, error) {
	ships, err := s.Ships()
	if err != nil {
		return nil, err
	}
	ship, err := fleet.ResolveByCode(ships, code)
	if err != nil {
		return nil, fmt.Errorf("ship %s: %w", code, err)
	}
	return ship, nil
}

// EffectiveShipByName 按船名（报告 R001）解析有效配置
//
// 配置来源成环时退回本船自身配置。
func (s *Store) EffectiveShipByName(name string) (*model.Ship, error) {
	ships, err := s.Ships()
	if err != nil {
		return nil, err
	}
	ship, err := fleet.ResolveByName(ships, name)
	if errors.Is(err, fleet.ErrConfigCycle) {
		target, _ := fleet.FindByName(ships, name)
		return target.Clone(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("ship %s: %w", name, err)
	}
	return ship, nil
}
