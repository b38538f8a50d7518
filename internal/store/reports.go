package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/newdynamo/SSRPMS/internal/calculator"
	"github.com/newdynamo/SSRPMS/internal/model"
)

func (s *Store) reportsLocked() ([]*model.Report, error) {
	reports := []*model.Report{}
	if err := s.loadLocked(DocReports, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// AllReports 全部报告（存储顺序）
func (s *Store) AllReports() ([]*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportsLocked()
}

// ListReports 报告历史，按有效事件时间倒序；shipName 非空时只返回该船
func (s *Store) ListReports(shipName string) ([]*model.Report, error) {
	all, err := s.AllReports()
	if err != nil {
		return nil, err
	}

	out := make([]*model.Report, 0, len(all))
	for _, r := range all {
		if shipName != "" && r.ShipName() != shipName {
			continue
		}
		out = append(out, r)
	}
	SortByEventTime(out)
	return out, nil
}

// SortByEventTime 按有效事件时间倒序
func SortByEventTime(reports []*model.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		return calculator.EventTime(reports[i]).After(calculator.EventTime(reports[j]))
	})
}

// LatestReport 某船最近一份报告，没有时返回 ErrNotFound
func (s *Store) LatestReport(shipName string) (*model.Report, error) {
	list, err := s.ListReports(shipName)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

// GetReport 按 ID 读取
func (s *Store) GetReport(id string) (*model.Report, error) {
	all, err := s.AllReports()
	if err != nil {
		return nil, err
	}
	for _, r := range all {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
}

// resolveMCodeLocked 区域代码取自事件定义，未定义时沿用报告自带值，再取默认值
func (s *Store) resolveMCodeLocked(r *model.Report) string {
	codes, err := s.codesLocked()
	if err == nil {
		if ev, ok := codes.FindEvent(r.EVCode); ok && ev.MCode != "" {
			return ev.MCode
		}
	}
	if r.MCode != "" {
		return r.MCode
	}
	return s.defaultMCode
}

// CreateReport 新建报告：分配 ID，记录提交时间（UTC），推导区域代码
func (s *Store) CreateReport(in *model.Report) (*model.Report, error) {
	if in == nil {
		return nil, fmt.Errorf("report is required")
	}
	if in.EVCode == "" {
		return nil, fmt.Errorf("evCode is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.reportsLocked()
	if err != nil {
		return nil, err
	}

	r := in.Clone()
	r.ID = uuid.New().String()
	r.SubmittedAt = time.Now().UTC().Format(time.RFC3339)
	r.MCode = s.resolveMCodeLocked(r)

	reports = append(reports, r)
	if err := s.saveLocked(DocReports, reports); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateReport 按 ID 合并更新，ID 与原提交时间保持不变
func (s *Store) UpdateReport(id string, patch *model.Report) (*model.Report, error) {
	if patch == nil {
		return nil, fmt.Errorf("report is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.reportsLocked()
	if err != nil {
		return nil, err
	}

	for i, r := range reports {
		if r.ID != id {
			continue
		}
		merged := mergeReport(r, patch)
		if patch.EVCode != "" && patch.EVCode != r.EVCode {
			merged.MCode = s.resolveMCodeLocked(merged)
		}
		reports[i] = merged
		if err := s.saveLocked(DocReports, reports); err != nil {
			return nil, err
		}
		return merged, nil
	}
	return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
}

// mergeReport 顶层字段合并：patch 中给出的字段覆盖原值
func mergeReport(base, patch *model.Report) *model.Report {
	out := base.Clone()
	if patch.EVCode != "" {
		out.EVCode = patch.EVCode
	}
	if patch.MCode != "" {
		out.MCode = patch.MCode
	}
	if patch.Tasks != nil {
		out.Tasks = patch.Clone().Tasks
	}
	if patch.Items != nil {
		out.Items = patch.Items.Clone()
	}
	return out
}

// DeleteReport 按 ID 删除
func (s *Store) DeleteReport(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.reportsLocked()
	if err != nil {
		return err
	}

	kept := make([]*model.Report, 0, len(reports))
	for _, r := range reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(reports) {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return s.saveLocked(DocReports, kept)
}

// UpsertResult 批量写入结果
type UpsertResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped,omitempty"` // 未匹配到已有报告且缺少事件代码的 ID
}

// UpsertReports 批量导入：ID 匹配已有报告时合并更新，否则新建。整批一次保存。
// 新建的报告必须带事件代码，缺少时跳过并记入 Skipped。
func (s *Store) UpsertReports(in []*model.Report) (UpsertResult, error) {
	var res UpsertResult

	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.reportsLocked()
	if err != nil {
		return res, err
	}
	index := make(map[string]int, len(reports))
	for i, r := range reports {
		index[r.ID] = i
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range in {
		if r == nil {
			continue
		}
		if i, ok := index[r.ID]; ok && r.ID != "" {
			reports[i] = mergeReport(reports[i], r)
			res.Updated++
			continue
		}

		if strings.TrimSpace(r.EVCode) == "" {
			res.Skipped = append(res.Skipped, r.ID)
			continue
		}

		created := r.Clone()
		created.ID = uuid.New().String()
		created.SubmittedAt = now
		created.MCode = s.resolveMCodeLocked(created)
		reports = append(reports, created)
		index[created.ID] = len(reports) - 1
		res.Created++
	}

	if res.Created+res.Updated == 0 {
		return res, nil
	}
	if err := s.saveLocked(DocReports, reports); err != nil {
		return UpsertResult{}, err
	}
	return res, nil
}
