package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/newdynamo/SSRPMS/internal/fleet"
	"github.com/newdynamo/SSRPMS/internal/model"
)

// forEachBackend 在全部后端上分别执行
func forEachBackend(t *testing.T, fn func(t *testing.T, s *Store)) {
	for _, kind := range []string{BackendJSON, BackendSQLite, BackendMemory} {
		t.Run(kind, func(t *testing.T) {
			s, err := Open(kind, t.TempDir())
			if err != nil {
				t.Fatalf("open %s: %v", kind, err)
			}
			defer s.Close()
			fn(t, s)
		})
	}
}

func seedCodes(t *testing.T, s *Store) {
	t.Helper()
	err := s.SaveCodes(&model.CodeData{
		MCodes:  []model.MCode{{Code: "M02", Name: "In Port"}},
		EVCodes: []model.EVCode{{Code: "EV01", Name: "Arrival", MCode: "M02"}},
		TCodes:  []model.TCode{{Code: "T01", Name: "EOSP"}},
	})
	if err != nil {
		t.Fatalf("seed codes: %v", err)
	}
}

func TestReportLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		seedCodes(t, s)

		created, err := s.CreateReport(&model.Report{
			EVCode: "EV01",
			Tasks:  map[string]string{"T01": "2024-06-01 10:00"},
			Items:  model.Items{"R001": "ALPHA", "R030_F01": "80.00"},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID == "" || created.SubmittedAt == "" {
			t.Fatalf("id and submittedAt must be assigned: %+v", created)
		}
		if created.MCode != "M02" {
			t.Fatalf("mCode should come from the event definition, got %s", created.MCode)
		}

		got, err := s.GetReport(created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Items["R030_F01"] != "80.00" {
			t.Fatalf("items not persisted: %+v", got.Items)
		}

		updated, err := s.UpdateReport(created.ID, &model.Report{
			ID:          "forged",
			SubmittedAt: "1999-01-01T00:00:00Z",
			Items:       model.Items{"R001": "ALPHA", "R030_F01": "70.00"},
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.ID != created.ID || updated.SubmittedAt != created.SubmittedAt {
			t.Fatalf("id and submittedAt must be preserved: %+v", updated)
		}
		if updated.Items["R030_F01"] != "70.00" || updated.Tasks["T01"] != "2024-06-01 10:00" {
			t.Fatalf("merge failed: %+v", updated)
		}

		if _, err := s.UpdateReport("missing", &model.Report{}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		if err := s.DeleteReport(created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := s.DeleteReport(created.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("second delete should report ErrNotFound, got %v", err)
		}
		if _, err := s.GetReport(created.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCreateReportDefaultMCode(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		r, err := s.CreateReport(&model.Report{EVCode: "EV77"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if r.MCode != model.DefaultMCode {
			t.Fatalf("mCode = %s, want %s", r.MCode, model.DefaultMCode)
		}
		if _, err := s.CreateReport(&model.Report{}); err == nil {
			t.Fatalf("evCode is required")
		}
	})
}

func TestListReportsSortedAndFiltered(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		for _, r := range []*model.Report{
			{EVCode: "EV01", Items: model.Items{"R001": "ALPHA"}, Tasks: map[string]string{"T01": "2024-06-01 00:00"}},
			{EVCode: "EV02", Items: model.Items{"R001": "ALPHA"}, Tasks: map[string]string{"T01": "2024-06-03 00:00"}},
			{EVCode: "EV03", Items: model.Items{"R001": "BETA"}, Tasks: map[string]string{"T01": "2024-06-02 00:00"}},
		} {
			if _, err := s.CreateReport(r); err != nil {
				t.Fatalf("create: %v", err)
			}
		}

		all, err := s.ListReports("")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 3 || all[0].EVCode != "EV02" || all[2].EVCode != "EV01" {
			t.Fatalf("unexpected order: %s %s %s", all[0].EVCode, all[1].EVCode, all[2].EVCode)
		}

		alpha, _ := s.ListReports("ALPHA")
		if len(alpha) != 2 {
			t.Fatalf("ship filter failed: %d", len(alpha))
		}

		latest, err := s.LatestReport("BETA")
		if err != nil || latest.EVCode != "EV03" {
			t.Fatalf("latest = %+v, %v", latest, err)
		}
		if _, err := s.LatestReport("GAMMA"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUpsertReports(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		existing, err := s.CreateReport(&model.Report{EVCode: "EV01", Items: model.Items{"R001": "ALPHA"}})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		res, err := s.UpsertReports([]*model.Report{
			{ID: existing.ID, Items: model.Items{"R001": "ALPHA", "R005": "001-A"}},
			{ID: "unknown", EVCode: "EV02", Items: model.Items{"R001": "ALPHA"}},
			{EVCode: "EV03", Items: model.Items{"R001": "BETA"}},
		})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if res.Created != 2 || res.Updated != 1 {
			t.Fatalf("result = %+v", res)
		}

		all, _ := s.AllReports()
		if len(all) != 3 {
			t.Fatalf("reports = %d", len(all))
		}
		got, _ := s.GetReport(existing.ID)
		if got.Items["R005"] != "001-A" || got.EVCode != "EV01" {
			t.Fatalf("update by id failed: %+v", got)
		}
		for _, r := range all {
			if r.ID == "unknown" {
				t.Fatalf("unknown ids get a fresh id")
			}
		}
	})
}

func TestUpsertReportsSkipsNewRowsWithoutEvent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		res, err := s.UpsertReports([]*model.Report{
			{ID: "stale-id", Items: model.Items{"R001": "ALPHA"}},
			{ID: "other", EVCode: "  ", Items: model.Items{"R001": "ALPHA"}},
			{EVCode: "EV01", Items: model.Items{"R001": "ALPHA"}},
		})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if res.Created != 1 || res.Updated != 0 || len(res.Skipped) != 2 || res.Skipped[0] != "stale-id" {
			t.Fatalf("result = %+v", res)
		}
		all, _ := s.AllReports()
		if len(all) != 1 || all[0].EVCode != "EV01" {
			t.Fatalf("reports = %+v", all)
		}
	})
}

func TestShips(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		pitch := map[string]string{model.CustomFieldPropellerPitch: "6.5"}
		ships := []*model.Ship{
			{Code: "A", Name: "ALPHA", TankCounts: &model.TankCounts{Cargo: 4}, CustomValues: pitch},
			{Code: "B", Name: "BETA", ConfigSourceShipID: "A"},
		}
		if err := s.SaveShips(ships); err != nil {
			t.Fatalf("save: %v", err)
		}

		eff, err := s.EffectiveShip("B")
		if err != nil {
			t.Fatalf("effective: %v", err)
		}
		if eff.TankCounts == nil || eff.TankCounts.Cargo != 4 {
			t.Fatalf("inheritance not applied: %+v", eff)
		}

		stored, _ := s.Ships()
		if stored[1].TankCounts != nil {
			t.Fatalf("resolved config must not be persisted")
		}

		byName, err := s.EffectiveShipByName("BETA")
		if err != nil || byName.Code != "B" {
			t.Fatalf("by name = %+v, %v", byName, err)
		}

		if _, err := s.EffectiveShip("Z"); !errors.Is(err, fleet.ErrShipNotFound) {
			t.Fatalf("expected ErrShipNotFound, got %v", err)
		}

		cyclic := []*model.Ship{{Code: "A", ConfigSourceShipID: "B"}, {Code: "B", ConfigSourceShipID: "A"}}
		if err := s.SaveShips(cyclic); !errors.Is(err, fleet.ErrConfigCycle) {
			t.Fatalf("cyclic config must be rejected, got %v", err)
		}

		if _, err := s.EffectiveShipByName("GAMMA"); !errors.Is(err, fleet.ErrShipNotFound) {
			t.Fatalf("expected ErrShipNotFound by name, got %v", err)
		}

		// 手工编辑的文档可能成环：按船名查找退回本船配置，按代码查找报错
		cyclic = []*model.Ship{
			{Code: "A", Name: "ALPHA", ConfigSourceShipID: "B", CustomValues: pitch},
			{Code: "B", Name: "BETA", ConfigSourceShipID: "A"},
		}
		if err := s.saveLocked(DocShips, cyclic); err != nil {
			t.Fatalf("write raw ships: %v", err)
		}
		local, err := s.EffectiveShipByName("ALPHA")
		if err != nil || local.Code != "A" || local.CustomValues[model.CustomFieldPropellerPitch] != "6.5" {
			t.Fatalf("cycle fallback = %+v, %v", local, err)
		}
		if _, err := s.EffectiveShip("A"); !errors.Is(err, fleet.ErrConfigCycle) {
			t.Fatalf("expected ErrConfigCycle by code, got %v", err)
		}
	})
}

func TestCodesAndSettings(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		codes, err := s.Codes()
		if err != nil {
			t.Fatalf("codes: %v", err)
		}
		if codes.EVCodes == nil || len(codes.EVCodes) != 0 {
			t.Fatalf("missing catalogs should be empty lists")
		}

		if err := s.SaveDocument(DocRCodes, []model.RCode{{Code: "R001", Name: "Vessel"}}); err != nil {
			t.Fatalf("save r-codes: %v", err)
		}
		codes, _ = s.Codes()
		if len(codes.RCodes) != 1 {
			t.Fatalf("r-codes not saved")
		}

		if err := s.SaveCustomFields([]string{model.CustomFieldPropellerPitch, "Builder"}); err != nil {
			t.Fatalf("custom fields: %v", err)
		}
		fields, _ := s.CustomFields()
		if len(fields) != 2 {
			t.Fatalf("fields = %v", fields)
		}

		market, err := s.Market()
		if err != nil || len(market) != 0 {
			t.Fatalf("market = %v, %v", market, err)
		}
	})
}

func TestBackup(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		if _, err := s.CreateReport(&model.Report{EVCode: "EV01"}); err != nil {
			t.Fatalf("create: %v", err)
		}
		dir, err := s.Backup(t.TempDir())
		if err != nil {
			t.Fatalf("backup: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, DocReports+".json")); err != nil {
			t.Fatalf("backup missing reports: %v", err)
		}
	})
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("mongo", t.TempDir()); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}

func TestSetDefaultMCode(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		s.SetDefaultMCode("M09")
		r, err := s.CreateReport(&model.Report{EVCode: "EV77"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if r.MCode != "M09" {
			t.Fatalf("mCode = %s", r.MCode)
		}
	})
}

func TestBackupEmptyStore(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Store) {
		dir, err := s.Backup(t.TempDir())
		if err != nil || dir != "" {
			t.Fatalf("empty backup = %q, %v", dir, err)
		}
	})
}
