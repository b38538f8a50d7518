package store

import (
	"github.com/newdynamo/SSRPMS/internal/model"
)

func (s *Store) codesLocked() (*model.CodeData, error) {
	c := &model.CodeData{
		MCodes:  []model.MCode{},
		EVCodes: []model.EVCode{},
		TCodes:  []model.TCode{},
		RCodes:  []model.RCode{},
		ECodes:  []model.ECode{},
		FCodes:  []model.FCode{},
		LCodes:  []model.LCode{},
		WCodes:  []model.WCode{},
	}
	docs := []struct {
		name string
		out  interface{}
	}{
		{DocMCodes, &c.MCodes},
		{DocEVCodes, &c.EVCodes},
		{DocTCodes, &c.TCodes},
		{DocRCodes, &c.RCodes},
		{DocECodes, &c.ECodes},
		{DocFCodes, &c.FCodes},
		{DocLCodes, &c.LCodes},
		{DocWCodes, &c.WCodes},
	}
	for _, d := range docs {
		if err := s.loadLocked(d.name, d.out); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Codes 全部代码目录，缺失的目录为空列表
func (s *Store) Codes() (*model.CodeData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codesLocked()
}

// CatalogDocuments 可单独覆盖的目录：API 路径片段 -> 文档名
var CatalogDocuments = map[string]string{
	"m-codes":  DocMCodes,
	"ev-codes": DocEVCodes,
	"t-codes":  DocTCodes,
	"r-codes":  DocRCodes,
	"e-codes":  DocECodes,
	"f-codes":  DocFCodes,
	"l-codes":  DocLCodes,
	"w-codes":  DocWCodes,
}

// SaveCodes 覆盖全部目录（导入初始数据时使用）
func (s *Store) SaveCodes(c *model.CodeData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := []struct {
		name string
		v    interface{}
	}{
		{DocMCodes, c.MCodes},
		{DocEVCodes, c.EVCodes},
		{DocTCodes, c.TCodes},
		{DocRCodes, c.RCodes},
		{DocECodes, c.ECodes},
		{DocFCodes, c.FCodes},
		{DocLCodes, c.LCodes},
		{DocWCodes, c.WCodes},
	}
	for _, d := range docs {
		if err := s.saveLocked(d.name, d.v); err != nil {
			return err
		}
	}
	return nil
}

// CustomFields 船舶自定义字段名称列表
func (s *Store) CustomFields() ([]string, error) {
	fields := []string{}
	if err := s.LoadDocument(DocCustomFields, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// SaveCustomFields 覆盖自定义字段列表
func (s *Store) SaveCustomFields(fields []string) error {
	if fields == nil {
		fields = []string{}
	}
	return s.SaveDocument(DocCustomFields, fields)
}

// Market 市场行情（只读数据源）
func (s *Store) Market() ([]model.MarketItem, error) {
	items := []model.MarketItem{}
	if err := s.LoadDocument(DocMarket, &items); err != nil {
		return nil, err
	}
	return items, nil
}
